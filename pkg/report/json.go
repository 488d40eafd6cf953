package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"digital.vasic.koans/pkg/koan"
)

// JSONReporter renders a run summary as JSON.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// GenerateReport renders the summary of results.
func (r *JSONReporter) GenerateReport(
	results []*koan.SuiteResult,
) ([]byte, error) {
	summary := BuildSummary(results)
	if r.pretty {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return json.Marshal(summary)
}

// WriteReport writes the JSON report to w.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	results []*koan.SuiteResult,
) error {
	return write(w, r, results)
}

// YAMLReporter renders a run summary as YAML.
type YAMLReporter struct{}

// NewYAMLReporter creates a new YAML reporter.
func NewYAMLReporter() *YAMLReporter {
	return &YAMLReporter{}
}

// GenerateReport renders the summary of results.
func (r *YAMLReporter) GenerateReport(
	results []*koan.SuiteResult,
) ([]byte, error) {
	return yaml.Marshal(BuildSummary(results))
}

// WriteReport writes the YAML report to w.
func (r *YAMLReporter) WriteReport(
	w io.Writer,
	results []*koan.SuiteResult,
) error {
	return write(w, r, results)
}
