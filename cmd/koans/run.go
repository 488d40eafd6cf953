package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"digital.vasic.koans/pkg/koan"
	"digital.vasic.koans/pkg/koans"
	"digital.vasic.koans/pkg/logging"
	"digital.vasic.koans/pkg/registry"
	"digital.vasic.koans/pkg/report"
	"digital.vasic.koans/pkg/runner"
)

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the koans once",
		Long: `Run the koans along the path and report the result.

By default the run stops at the first failing koan, so there is
always exactly one thing to fix next. Pass
--stop-on-first-failure=false to see every failure at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
}

// suites returns the suites selected by the path file, in path
// order.
func (a *app) suites() ([]*koan.Suite, error) {
	reg := registry.NewRegistry()
	if err := koans.Register(reg, a.cfg.FixturesDir, a.opener); err != nil {
		return nil, err
	}
	return registry.LoadOrdered(reg, a.cfg.PathFile)
}

// run walks the path once. Text output is streamed case by case;
// the other formats are written when the run is over.
func (a *app) run(ctx context.Context) error {
	suites, err := a.suites()
	if err != nil {
		return err
	}

	opts := []runner.RunnerOption{
		runner.WithLogger(a.logger),
		runner.WithMetrics(a.metrics),
		runner.WithStopOnFirstFailure(a.cfg.StopOnFirstFailure),
	}

	var text *report.TextReporter
	if a.cfg.Format == report.FormatText {
		text = report.NewTextReporter(a.useColor())
		opts = append(opts, a.streamTo(text, suites))
	}

	results, runErr := runner.NewRunner(opts...).RunAll(ctx, suites)
	if results == nil {
		return runErr
	}

	if text != nil {
		text.WriteFooter(a.out, results)
	} else {
		r, err := report.ForFormat(a.cfg.Format, false)
		if err != nil {
			return err
		}
		if err := r.WriteReport(a.out, results); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	summary := report.BuildSummary(results)
	a.logger.Debug("run_finished",
		logging.StringField("run_id", summary.ID),
		logging.IntField("passed", summary.Passed),
		logging.IntField("total", summary.Total),
	)
	if a.cfg.SummaryDir != "" {
		if err := report.SaveSummary(summary, a.cfg.SummaryDir); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if summary.FirstFailure != nil {
		return errNotEnlightened
	}
	return nil
}

// streamTo prints each result as soon as it is final, with a
// heading whenever a new topic starts.
func (a *app) streamTo(
	text *report.TextReporter,
	suites []*koan.Suite,
) runner.RunnerOption {
	descriptions := make(map[string]string, len(suites))
	for _, s := range suites {
		descriptions[s.Topic] = s.Description
	}

	current := ""
	return runner.WithPostHook(func(
		_ context.Context, _ koan.Case, res *koan.Result,
	) error {
		if res.Topic != current {
			current = res.Topic
			text.WriteSuiteHeader(a.out, current, descriptions[current])
		}
		text.WriteCase(a.out, res)
		return nil
	})
}
