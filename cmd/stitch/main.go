package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"smartstitch/pkg/config"
	"smartstitch/pkg/stitcher"
)

var settings = config.Default()

var (
	output      string
	postprocess string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:          "stitch <input>",
	Short:        "Stitch and re-slice tall comic pages",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runStitch,
}

func init() {
	config.BindFlags(rootCmd.Flags(), &settings)
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output folder (default \"<input> [Stitched]\")")
	rootCmd.Flags().StringVar(&postprocess, "postprocess-dir", "", "post process folder (default \"<input> [Processed]\")")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "set debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runStitch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pipeline *stitcher.Pipeline
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Supply(settings, logger),
		fx.Provide(
			newProgress,
			newPipeline,
		),
		fx.Populate(&pipeline),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			logger.With(zap.Error(err)).Info("stop failed")
		}
	}()

	return pipeline.Stitch(ctx, args[0], output, postprocess)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func newPipeline(s config.Settings, logger *zap.Logger, p *Progress) (*stitcher.Pipeline, error) {
	return stitcher.New(s, logger,
		stitcher.WithProgress(p.Report),
		stitcher.WithConsole(p.Print),
	)
}
