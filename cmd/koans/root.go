package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"digital.vasic.koans/pkg/config"
	"digital.vasic.koans/pkg/logging"
	"digital.vasic.koans/pkg/metrics"
	"digital.vasic.koans/pkg/scope"
)

// errNotEnlightened is returned when a koan failed. The report
// already told the learner why, so it is not printed again.
var errNotEnlightened = errors.New("not yet enlightened")

// app carries what every command needs once flags and config
// are resolved.
type app struct {
	out    io.Writer
	errOut io.Writer

	// workDir is where the project config search starts.
	// Empty means the working directory.
	workDir string

	// opener reads koan fixtures. Nil means the filesystem.
	opener scope.Opener

	// watchReady, when set, is closed once watch mode is
	// observing changes.
	watchReady chan struct{}

	verbose    bool
	configPath string
	cfg        *config.Config
	logger     logging.Logger
	metrics    *metrics.MemoryRecorder
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:     out,
		errOut:  errOut,
		metrics: metrics.NewMemoryRecorder(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "koans",
		Short: "Walk the path to enlightenment",
		Long: `Koans are small tests that are wrong on purpose. Run them, read
the first failure, fix the answer, and run them again.

With no subcommand, koans runs the path once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	d := config.Default()
	pf := cmd.PersistentFlags()
	pf.String("fixtures-dir", d.FixturesDir, "directory holding the koan fixtures")
	pf.Bool("stop-on-first-failure", d.StopOnFirstFailure, "stop at the first failing koan")
	pf.String("format", d.Format, "report format: text, json or yaml")
	pf.String("path-file", d.PathFile, "YAML file ordering and skipping topics")
	pf.Bool("color", d.Color, "colorize the text report")
	pf.String("summary-dir", d.SummaryDir, "write JSON and Markdown summaries here")
	pf.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	pf.String("log-file", d.Log.File, "also write JSON logs to this file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "show debug output")
	pf.StringVar(&a.configPath, "config", "", "config file to use instead of "+config.FileName)

	cmd.AddCommand(a.runCmd())
	cmd.AddCommand(a.listCmd())
	cmd.AddCommand(a.watchCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

// setup resolves the configuration and builds the logger. An
// explicit --config file replaces the project config search.
func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFromPath(a.configPath, cmd.Flags())
	} else {
		cfg, err = config.Load(a.workDir, cmd.Flags())
	}
	if err != nil {
		return err
	}
	logger, err := logging.NewTo(
		a.errOut, cfg.Log.Level, cfg.Log.File, a.verbose,
	)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

func (a *app) useColor() bool {
	return a.cfg.Color && !color.NoColor
}

// execute runs the command tree with args and returns the
// process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	defer a.close()

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNotEnlightened):
		return 1
	}
	fmt.Fprintf(a.errOut, "Error: %v\n", err)
	return 2
}

// Execute runs the CLI against the process arguments.
func Execute() int {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	return newApp(os.Stdout, os.Stderr).execute(ctx, os.Args[1:])
}
