package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"digital.vasic.koans/pkg/assertion"
	"digital.vasic.koans/pkg/koan"
)

// TextReporter renders one line per koan and the footer that
// points the learner at the first failure.
type TextReporter struct {
	pass    *color.Color
	fail    *color.Color
	pending *color.Color
	dim     *color.Color
	bold    *color.Color
}

// NewTextReporter creates a text reporter. Colors are emitted
// only when useColor is true, regardless of the terminal.
func NewTextReporter(useColor bool) *TextReporter {
	r := &TextReporter{
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed, color.Bold),
		pending: color.New(color.FgYellow),
		dim:     color.New(color.FgCyan),
		bold:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{
		r.pass, r.fail, r.pending, r.dim, r.bold,
	} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// GenerateReport renders every suite followed by the footer.
func (r *TextReporter) GenerateReport(
	results []*koan.SuiteResult,
) ([]byte, error) {
	var buf bytes.Buffer
	for _, sr := range results {
		r.WriteSuiteHeader(&buf, sr.Topic, sr.Description)
		for _, res := range sr.Results {
			r.WriteCase(&buf, res)
		}
	}
	r.WriteFooter(&buf, results)
	return buf.Bytes(), nil
}

// WriteReport writes the text report to w.
func (r *TextReporter) WriteReport(
	w io.Writer,
	results []*koan.SuiteResult,
) error {
	return write(w, r, results)
}

// WriteSuiteHeader writes the heading shown above a suite.
func (r *TextReporter) WriteSuiteHeader(
	w io.Writer,
	topic, description string,
) {
	if description == "" {
		fmt.Fprintf(w, "%s\n", r.bold.Sprint(topic))
		return
	}
	fmt.Fprintf(w, "%s: %s\n", r.bold.Sprint(topic), description)
}

// WriteCase writes the line for a single result. Failures add
// the expected and actual values or the captured error.
func (r *TextReporter) WriteCase(w io.Writer, res *koan.Result) {
	switch res.Status {
	case koan.StatusPassed:
		fmt.Fprintf(w, "  %s %s\n", r.pass.Sprint("PASS"), res.Case)
		return
	case koan.StatusPending, koan.StatusRunning:
		fmt.Fprintf(w, "  %s %s\n", r.pending.Sprint("WAIT"), res.Case)
		return
	}

	fmt.Fprintf(w, "  %s %s", r.fail.Sprint("FAIL"), res.Case)
	if res.Location != "" {
		fmt.Fprintf(w, " %s", r.dim.Sprintf("(%s)", res.Location))
	}
	fmt.Fprintln(w)

	for _, line := range detail(res) {
		fmt.Fprintf(w, "       %s\n", line)
	}
}

func detail(res *koan.Result) []string {
	switch res.Kind {
	case koan.KindMismatch:
		return strings.Split(res.Message, "\n")
	case koan.KindBlank:
		return []string{
			res.Message,
			"actual: " + assertion.Format(res.Actual),
		}
	case koan.KindSetup:
		return []string{"setup defect: " + res.Error}
	case koan.KindError:
		return []string{"error: " + res.Error}
	}
	if res.Message != "" {
		return []string{res.Message}
	}
	return nil
}

// WriteFooter writes the progress line and, when a koan failed,
// where to meditate next. Enlightenment is only claimed when
// every koan passed.
func (r *TextReporter) WriteFooter(
	w io.Writer,
	results []*koan.SuiteResult,
) {
	passed, total := 0, 0
	for _, sr := range results {
		passed += sr.Count(koan.StatusPassed)
		total += len(sr.Results)
	}

	fmt.Fprintln(w)
	if first := koan.FirstFailure(results); first != nil {
		fmt.Fprintf(w, "%s %s/%s\n",
			r.fail.Sprint("Meditate on"), first.Topic, first.Case,
		)
		if first.Location != "" {
			fmt.Fprintf(w, "  at %s\n", r.dim.Sprint(first.Location))
		}
	} else if total > 0 && passed == total {
		fmt.Fprintln(w, r.pass.Sprint("Enlightenment reached."))
	} else if passed < total {
		fmt.Fprintln(w, r.pending.Sprint(
			"Run interrupted before every koan was attempted.",
		))
	}
	fmt.Fprintf(w, "%d of %d koans passed\n", passed, total)
}
