package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"digital.vasic.koans/pkg/config"
	"digital.vasic.koans/pkg/logging"
	"digital.vasic.koans/pkg/watch"
)

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the koans again whenever their inputs change",
		Long: `Run the koans once, then again every time a fixture or the
path file changes. Stop with Ctrl-C.

The koans themselves are compiled into this binary, so editing
an answer under pkg/koans is not picked up by a running watch.
Restart it, or use "go run ./cmd/koans" after each edit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.watch(cmd.Context(), a.watchReady)
		},
	}
	cmd.Flags().Duration(
		"debounce", config.Default().Watch.Debounce,
		"how long changes must settle before a rerun",
	)
	return cmd
}

// watch runs the path and reruns it on every change until ctx
// is done. ready, when not nil, is closed once watching begins.
func (a *app) watch(ctx context.Context, ready chan<- struct{}) error {
	if err := a.runOnce(ctx); err != nil {
		return err
	}

	w := watch.New(
		a.cfg.Watch.Debounce, a.logger,
		a.cfg.FixturesDir, a.cfg.PathFile,
	)
	if ready != nil {
		go func() {
			select {
			case <-w.Ready():
				close(ready)
			case <-ctx.Done():
			}
		}()
	}

	a.logger.Info("watching for changes",
		logging.StringField("fixtures_dir", a.cfg.FixturesDir),
	)
	return w.Run(ctx, a.runOnce)
}

// runOnce runs the path, treating failing koans as an expected
// outcome rather than an error.
func (a *app) runOnce(ctx context.Context) error {
	err := a.run(ctx)
	a.logger.Debug("watch_rerun",
		logging.IntField("run_total", a.metrics.RunTotal()),
	)
	if err == nil || errors.Is(err, errNotEnlightened) {
		fmt.Fprintln(a.out)
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}
