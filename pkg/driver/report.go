package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"dicexp/interpreter-go/pkg/interpreter"
	"dicexp/interpreter-go/pkg/repr"
	"dicexp/interpreter-go/pkg/restriction"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Report is the serializable form of an evaluation result.
type Report struct {
	Status     string                 `yaml:"status" json:"status"`
	Value      any                    `yaml:"value" json:"value"`
	Error      *ReportError           `yaml:"error,omitempty" json:"error,omitempty"`
	Statistics restriction.Statistics `yaml:"statistics" json:"statistics"`
	Trace      string                 `yaml:"trace,omitempty" json:"trace,omitempty"`
	Steps      *repr.Step             `yaml:"steps,omitempty" json:"steps,omitempty"`
}

type ReportError struct {
	Kind    string `yaml:"kind" json:"kind"`
	Message string `yaml:"message" json:"message"`
}

// NewReport summarizes res with messages rendered for tag. The rendered
// trace is always included; the step tree only when steps is set.
func NewReport(res interpreter.Result, tag language.Tag, steps bool) *Report {
	report := &Report{
		Status:     StatusOK,
		Value:      res.Value,
		Statistics: res.Appendix.Statistics,
	}
	if res.Err != nil {
		report.Status = StatusError
		report.Value = nil
		report.Error = &ReportError{Kind: res.Err.Kind.String(), Message: res.Err.Message(tag)}
	}
	if res.Appendix.Representation != nil {
		report.Trace = repr.Render(res.Appendix.Representation)
		if steps {
			report.Steps = res.Appendix.Representation
		}
	}
	return report
}

// Summary is a one-line human readable form.
func (r *Report) Summary() string {
	if r.Error != nil {
		return fmt.Sprintf("%s: %s", r.Error.Kind, r.Error.Message)
	}
	return fmt.Sprint(r.Value)
}

func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("driver: encode report: %w", err)
	}
	return enc.Close()
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("driver: encode report: %w", err)
	}
	return nil
}
