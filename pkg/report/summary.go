package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"digital.vasic.koans/pkg/koan"
)

// Summary aggregates a run across suites.
type Summary struct {
	ID           string         `json:"id" yaml:"id"`
	GeneratedAt  time.Time      `json:"generated_at" yaml:"generated_at"`
	Total        int            `json:"total" yaml:"total"`
	Passed       int            `json:"passed" yaml:"passed"`
	Failed       int            `json:"failed" yaml:"failed"`
	Pending      int            `json:"pending" yaml:"pending"`
	PassRate     float64        `json:"pass_rate" yaml:"pass_rate"`
	Duration     time.Duration  `json:"duration" yaml:"duration"`
	FirstFailure *koan.Result   `json:"first_failure,omitempty" yaml:"first_failure,omitempty"`
	Suites       []SuiteSummary `json:"suites" yaml:"suites"`
}

// SuiteSummary holds the counts and results of one suite.
type SuiteSummary struct {
	Topic       string         `json:"topic" yaml:"topic"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Passed      int            `json:"passed" yaml:"passed"`
	Failed      int            `json:"failed" yaml:"failed"`
	Pending     int            `json:"pending" yaml:"pending"`
	Results     []*koan.Result `json:"results" yaml:"results"`
}

// Enlightened reports whether every koan passed.
func (s *Summary) Enlightened() bool {
	return s.Total > 0 && s.Passed == s.Total
}

// BuildSummary creates a summary of a run with a fresh run id.
func BuildSummary(results []*koan.SuiteResult) *Summary {
	return buildSummary(results, uuid.NewString(), time.Now())
}

func buildSummary(
	results []*koan.SuiteResult,
	id string,
	now time.Time,
) *Summary {
	summary := &Summary{
		ID:           id,
		GeneratedAt:  now,
		FirstFailure: koan.FirstFailure(results),
		Suites:       make([]SuiteSummary, 0, len(results)),
	}

	for _, sr := range results {
		ss := SuiteSummary{
			Topic:       sr.Topic,
			Description: sr.Description,
			Passed:      sr.Count(koan.StatusPassed),
			Failed:      sr.Count(koan.StatusFailed),
			Pending:     sr.Count(koan.StatusPending),
			Results:     sr.Results,
		}
		summary.Suites = append(summary.Suites, ss)

		summary.Total += len(sr.Results)
		summary.Passed += ss.Passed
		summary.Failed += ss.Failed
		summary.Pending += ss.Pending
		for _, r := range sr.Results {
			summary.Duration += r.Duration
		}
	}

	if summary.Total > 0 {
		summary.PassRate =
			float64(summary.Passed) / float64(summary.Total)
	}
	return summary
}

// SaveSummary writes the summary as JSON and Markdown into dir
// and points latest_summary.{json,md} at them.
func SaveSummary(summary *Summary, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create summary directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(dir, fmt.Sprintf("summary_%s.json", ts))
	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write JSON summary: %w", err,
		)
	}

	mdPath := filepath.Join(dir, fmt.Sprintf("summary_%s.md", ts))
	if err := os.WriteFile(
		mdPath, []byte(summary.Markdown()), 0644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(dir, "latest_summary.json")
	latestMD := filepath.Join(dir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// Markdown renders the summary as a Markdown document.
func (s *Summary) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Koans - Path to Enlightenment\n\n")
	fmt.Fprintf(&sb, "**Run ID:** %s\n\n", s.ID)
	fmt.Fprintf(&sb,
		"**Generated:** %s\n\n",
		s.GeneratedAt.Format(time.RFC3339),
	)

	sb.WriteString("## Topics\n\n")
	sb.WriteString("| Topic | Passed | Failed | Pending |\n")
	sb.WriteString("|-------|--------|--------|---------|\n")
	for _, ss := range s.Suites {
		fmt.Fprintf(&sb,
			"| %s | %d | %d | %d |\n",
			ss.Topic, ss.Passed, ss.Failed, ss.Pending,
		)
	}

	if f := s.FirstFailure; f != nil {
		sb.WriteString("\n## Meditate On\n\n")
		fmt.Fprintf(&sb, "- **Koan:** %s/%s\n", f.Topic, f.Case)
		if f.Location != "" {
			fmt.Fprintf(&sb, "- **Location:** `%s`\n", f.Location)
		}
		fmt.Fprintf(&sb, "- **Kind:** %s\n", f.Kind)
		if f.Message != "" {
			fmt.Fprintf(&sb,
				"\n```\n%s\n```\n", strings.TrimRight(f.Message, "\n"),
			)
		}
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Koans | %d |\n", s.Total)
	fmt.Fprintf(&sb, "| Passed | %d |\n", s.Passed)
	fmt.Fprintf(&sb, "| Failed | %d |\n", s.Failed)
	fmt.Fprintf(&sb, "| Pending | %d |\n", s.Pending)
	fmt.Fprintf(&sb, "| Pass Rate | %.0f%% |\n", s.PassRate*100)
	fmt.Fprintf(&sb, "| Total Duration | %v |\n", s.Duration)

	return sb.String()
}
