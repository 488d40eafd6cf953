// Package report renders koan run results for the learner and
// for machines.
package report

import (
	"fmt"
	"io"

	"digital.vasic.koans/pkg/koan"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Reporter defines the interface for rendering a run.
type Reporter interface {
	// GenerateReport renders the results of a run.
	GenerateReport(results []*koan.SuiteResult) ([]byte, error)

	// WriteReport writes the rendered run to w.
	WriteReport(w io.Writer, results []*koan.SuiteResult) error
}

// ForFormat returns the reporter for format. useColor applies
// to the text format only.
func ForFormat(format string, useColor bool) (Reporter, error) {
	switch format {
	case "", FormatText:
		return NewTextReporter(useColor), nil
	case FormatJSON:
		return NewJSONReporter(true), nil
	case FormatYAML:
		return NewYAMLReporter(), nil
	}
	return nil, fmt.Errorf("unknown report format: %s", format)
}

func write(
	w io.Writer,
	r Reporter,
	results []*koan.SuiteResult,
) error {
	data, err := r.GenerateReport(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
