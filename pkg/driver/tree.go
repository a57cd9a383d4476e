package driver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"dicexp/interpreter-go/pkg/ast"
)

// LoadTree reads an expression tree document from disk. JSON is accepted as
// a subset of YAML.
func LoadTree(path string) (ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}
	node, err := DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("driver: %s: %w", path, err)
	}
	return node, nil
}

// DecodeTree decodes a single expression tree document.
//
// Nodes are maps with a "type" field naming the node kind. Bare integers,
// booleans and sequences are shorthands for the matching literals, and a
// bare string is an identifier.
func DecodeTree(data []byte) (ast.Node, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}
	if raw == nil {
		return nil, errors.New("empty tree document")
	}
	return decodeNode(raw, "$")
}

// ReadTrees decodes every document in a multi-document YAML stream.
func ReadTrees(r io.Reader) ([]ast.Node, error) {
	decoder := yaml.NewDecoder(r)
	var nodes []ast.Node
	for i := 0; ; i++ {
		var raw any
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nodes, nil
			}
			return nil, fmt.Errorf("driver: document %d: %w", i, err)
		}
		if raw == nil {
			continue
		}
		node, err := decodeNode(raw, fmt.Sprintf("document %d", i))
		if err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
		nodes = append(nodes, node)
	}
}

func decodeNode(raw any, path string) (ast.Node, error) {
	switch v := raw.(type) {
	case bool:
		return ast.NewBooleanLiteral(v), nil
	case string:
		return ast.NewIdentifier(v), nil
	case []any:
		elements, err := decodeNodes(v, path)
		if err != nil {
			return nil, err
		}
		return ast.NewListLiteral(elements), nil
	case map[string]any:
		return decodeTyped(v, path)
	}
	if n, ok := toInt64(raw); ok {
		return ast.NewIntegerLiteral(n), nil
	}
	return nil, fmt.Errorf("%s: unsupported node %T", path, raw)
}

func decodeTyped(node map[string]any, path string) (ast.Node, error) {
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeIntegerLiteral:
		n, ok := toInt64(node["value"])
		if !ok {
			return nil, fmt.Errorf("%s: integer literal needs an integral value, got %v", path, node["value"])
		}
		return ast.NewIntegerLiteral(n), nil
	case ast.NodeBooleanLiteral:
		val, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("%s: boolean literal needs a boolean value", path)
		}
		return ast.NewBooleanLiteral(val), nil
	case ast.NodeListLiteral:
		elementsVal, _ := node["elements"].([]any)
		elements, err := decodeNodes(elementsVal, path+".elements")
		if err != nil {
			return nil, err
		}
		return ast.NewListLiteral(elements), nil
	case ast.NodeClosureLiteral:
		paramsVal, _ := node["params"].([]any)
		params := make([]string, 0, len(paramsVal))
		for i, p := range paramsVal {
			name, ok := p.(string)
			if !ok || name == "" {
				return nil, fmt.Errorf("%s.params[%d]: parameter names must be non-empty strings", path, i)
			}
			params = append(params, name)
		}
		body, err := decodeChild(node, "body", path)
		if err != nil {
			return nil, err
		}
		raw, _ := node["raw"].(string)
		return ast.NewClosureLiteral(params, body, raw), nil
	case ast.NodeCapturedFunction:
		name, _ := node["name"].(string)
		arity, ok := toInt64(node["arity"])
		if name == "" || !ok || arity < 0 {
			return nil, fmt.Errorf("%s: captured function needs a name and a non-negative arity", path)
		}
		return ast.NewCapturedFunction(name, int(arity)), nil
	case ast.NodeIdentifier:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("%s: identifier needs a name", path)
		}
		return ast.NewIdentifier(name), nil
	case ast.NodeRegularCall:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("%s: regular call needs a name", path)
		}
		style, err := decodeStyle(node, path)
		if err != nil {
			return nil, err
		}
		argsVal, _ := node["args"].([]any)
		args, err := decodeNodes(argsVal, path+".args")
		if err != nil {
			return nil, err
		}
		return ast.NewRegularCall(name, style, args), nil
	case ast.NodeValueCall:
		callee, err := decodeChild(node, "callee", path)
		if err != nil {
			return nil, err
		}
		style, err := decodeStyle(node, path)
		if err != nil {
			return nil, err
		}
		argsVal, _ := node["args"].([]any)
		args, err := decodeNodes(argsVal, path+".args")
		if err != nil {
			return nil, err
		}
		return ast.NewValueCall(callee, style, args), nil
	case ast.NodeRepetition:
		count, err := decodeChild(node, "count", path)
		if err != nil {
			return nil, err
		}
		body, err := decodeChild(node, "body", path)
		if err != nil {
			return nil, err
		}
		bodyRaw, _ := node["bodyRaw"].(string)
		return ast.NewRepetition(count, body, bodyRaw), nil
	case "":
		return nil, fmt.Errorf("%s: node is missing its type", path)
	default:
		return nil, fmt.Errorf("%s: unsupported node type %q", path, typ)
	}
}

func decodeChild(node map[string]any, field, path string) (ast.Node, error) {
	raw, ok := node[field]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%s: missing %s", path, field)
	}
	return decodeNode(raw, path+"."+field)
}

func decodeNodes(raws []any, path string) ([]ast.Node, error) {
	nodes := make([]ast.Node, 0, len(raws))
	for i, raw := range raws {
		child, err := decodeNode(raw, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, child)
	}
	return nodes, nil
}

func decodeStyle(node map[string]any, path string) (ast.CallStyle, error) {
	s, _ := node["style"].(string)
	switch style := ast.CallStyle(s); style {
	case "", ast.CallStyleFunction, ast.CallStyleOperator, ast.CallStylePiped:
		return style, nil
	default:
		return "", fmt.Errorf("%s: unsupported call style %q", path, s)
	}
}

func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
