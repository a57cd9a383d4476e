package runtime

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLanguage is the locale used by RuntimeError.Error.
var DefaultLanguage = language.Chinese

// Message format keys. The keys double as the English text.
const (
	msgWrongArity        = "%s expects %d argument(s), got %d"
	msgTypeMismatch      = "expected %s, got %s"
	msgArgumentMismatch  = "argument %d of %s expects %s, got %s"
	msgListInconsistency = "argument %d of %s: list elements must all be %s, found %s"
	msgIllegalOperation  = "illegal operation %s: %s"
	msgUnknownFunction   = "unknown function %s/%d"
	msgUnknownVariable   = "unknown variable %s"
	msgNotCallable       = "a value of kind %s is not callable"
	msgDuplicateParams   = "duplicate closure parameter names: %s"
	msgBadFinalResult    = "the final result must not contain a value of kind %s"
	msgLimitation        = "integer exceeds the safe bound %d"
	msgRestriction       = "restriction exceeded: %s (limit %d)"
	msgInternal          = "internal error: %s"
	msgClosure           = "closure"
)

var catalog = map[string]string{
	msgWrongArity:        "%s 需要 %d 个参数，实际提供了 %d 个",
	msgTypeMismatch:      "期望 %s，实际为 %s",
	msgArgumentMismatch:  "第 %d 个参数（%s）期望 %s，实际为 %s",
	msgListInconsistency: "第 %d 个参数（%s）的列表元素必须均为 %s，却出现了 %s",
	msgIllegalOperation:  "非法操作 %s：%s",
	msgUnknownFunction:   "未知的函数 %s/%d",
	msgUnknownVariable:   "未知的变量 %s",
	msgNotCallable:       "%s 类型的值不可调用",
	msgDuplicateParams:   "闭包参数名重复：%s",
	msgBadFinalResult:    "最终结果不能包含 %s 类型的值",
	msgLimitation:        "整数超出安全范围（界限为 %d）",
	msgRestriction:       "超出限制：%s（上限为 %d）",
	msgInternal:          "内部错误：%s",
	msgClosure:           "闭包",

	ReasonDivisionByZero:       "除数不能为零",
	ReasonNegativeDividend:     "被除数不能为负数",
	ReasonNonPositiveDivisor:   "除数必须为正数",
	ReasonNegativeExponent:     "指数不能为负数",
	ReasonNegativeDiceCount:    "骰子数量不能为负数",
	ReasonNonPositiveDiceSides: "骰子面数必须为正数",
	ReasonRangeTooLarge:        "范围过大",
	ReasonNegativeRepeatCount:  "重复次数不能为负数",
	ReasonNegativeCount:        "数量不能为负数",
	ReasonEmptyList:            "列表不能为空",
	ReasonIndexOutOfRange:      "索引越界",
	ReasonNegativeFlattenDepth: "展开深度不能为负数",
	ReasonRetryLimit:           "重投或爆骰次数过多",

	RestrictionCalls:        "调用次数",
	RestrictionTime:         "运行时间",
	RestrictionClosureDepth: "闭包调用深度",

	"integer":      "整数",
	"boolean":      "布尔",
	"list":         "列表",
	"callable":     "可调用值",
	"sequence":     "序列",
	"sequence_sum": "序列和",
}

func init() {
	for key, zh := range catalog {
		_ = message.SetString(language.Chinese, key, zh)
		_ = message.SetString(language.English, key, key)
	}
}

// Message renders the error for tag, falling back to English keys when the
// locale has no catalog.
func (e *RuntimeError) Message(tag language.Tag) string {
	p := message.NewPrinter(tag)
	kind := func(k Kind) string { return p.Sprintf(k.String()) }
	callee := e.Callee
	if callee == "" {
		callee = p.Sprintf(msgClosure)
	}
	switch e.Kind {
	case ErrorWrongArity:
		return p.Sprintf(msgWrongArity, callee, e.ExpectedArity, e.ActualArity)
	case ErrorTypeMismatch:
		return p.Sprintf(msgTypeMismatch, joinKinds(e.ExpectedKinds, kind), kind(e.ActualKind))
	case ErrorCallArgumentTypeMismatch:
		if e.ListInconsistency {
			return p.Sprintf(msgListInconsistency, e.Position, callee, joinKinds(e.ExpectedKinds, kind), kind(e.ActualKind))
		}
		return p.Sprintf(msgArgumentMismatch, e.Position, callee, joinKinds(e.ExpectedKinds, kind), kind(e.ActualKind))
	case ErrorIllegalOperation:
		return p.Sprintf(msgIllegalOperation, e.Operation, p.Sprintf(e.Reason))
	case ErrorUnknownRegularFunction:
		return p.Sprintf(msgUnknownFunction, e.Name, e.ActualArity)
	case ErrorUnknownVariable:
		return p.Sprintf(msgUnknownVariable, e.Name)
	case ErrorValueIsNotCallable:
		return p.Sprintf(msgNotCallable, kind(e.ActualKind))
	case ErrorDuplicateClosureParameterNames:
		return p.Sprintf(msgDuplicateParams, strings.Join(e.Names, ", "))
	case ErrorBadFinalResult:
		return p.Sprintf(msgBadFinalResult, kind(e.ActualKind))
	case ErrorLimitationExceeded:
		return p.Sprintf(msgLimitation, e.Bound)
	case ErrorRestrictionExceeded:
		return p.Sprintf(msgRestriction, p.Sprintf(e.Restriction), e.Limit)
	default:
		return p.Sprintf(msgInternal, e.Detail)
	}
}
