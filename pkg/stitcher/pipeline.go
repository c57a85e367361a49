// Package stitcher runs work units through load, resize, combine, detect,
// slice, save and post-process.
package stitcher

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"smartstitch/pkg/compose"
	"smartstitch/pkg/config"
	"smartstitch/pkg/detect"
	"smartstitch/pkg/imageio"
	"smartstitch/pkg/postprocess"
	"smartstitch/pkg/work"
	"smartstitch/pkg/workdir"
)

// New validates s and prepares every stage. s is copied and never changed.
func New(s config.Settings, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		settings: s,
		fs:       afero.NewOsFs(),
		logger:   logger,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.detector == nil {
		d, err := detect.New(s)
		if err != nil {
			return nil, err
		}
		p.detector = d
	}

	writer, err := imageio.NewWriter(p.fs, s, logger, imageio.WithWorkers(s.PoolSize()))
	if err != nil {
		return nil, err
	}

	p.writer = writer
	p.loader = imageio.NewLoader(p.fs, logger, imageio.WithWorkers(s.PoolSize()))
	p.runner = postprocess.New(p.fs, logger)

	return p, nil
}

type Pipeline struct {
	settings config.Settings
	fs       afero.Fs
	logger   *zap.Logger

	progress work.ProgressFunc
	console  work.ConsoleFunc

	loader   *imageio.Loader
	writer   *imageio.Writer
	detector detect.Detector
	runner   *postprocess.Runner
}

// Stitch discovers the units below input and runs them. Empty output or
// postprocess select the default sibling folders.
func (p *Pipeline) Stitch(ctx context.Context, input, output, postprocess string) error {
	start := time.Now()
	p.progress.Report(0, "Exploring input directory for working directories")

	units, err := workdir.Discover(p.fs, input, output, postprocess)
	if err != nil {
		return p.fail(err)
	}

	return p.run(ctx, units, start)
}

// Run processes units one at a time and stops at the first failing unit.
// The failure is reported at 0% and returned.
func (p *Pipeline) Run(ctx context.Context, units []*work.Unit) error {
	return p.run(ctx, units, time.Now())
}

func (p *Pipeline) run(ctx context.Context, units []*work.Unit, start time.Time) error {
	logger := p.logger.With(zap.String("run", xid.New().String()))
	logger.Info("run started",
		zap.Int("units", len(units)),
		zap.String("detector", p.detector.Name()),
		zap.String("format", p.writer.Ext()),
	)

	t := newTracker(p.progress, weightsFor(p.settings.PostprocessEnable), len(units))
	t.report(fmt.Sprintf("Working - [%d] Working directories were found", len(units)))
	t.explored()

	for i, unit := range units {
		t.next(i)
		if err := p.stitch(ctx, t, unit, logger.With(zap.Stringer("unit", unit))); err != nil {
			logger.Info("run failed", zap.Int("unit", i+1), zap.Error(err))
			return p.fail(err)
		}
	}

	took := time.Since(start)
	logger.Info("run finished", zap.Duration("took", took))
	p.progress.Report(100, fmt.Sprintf("Idle - Process completed in %.3f seconds", took.Seconds()))
	return nil
}

func (p *Pipeline) fail(err error) error {
	p.progress.Report(0, "Idle - "+err.Error())
	return err
}

func (p *Pipeline) stitch(ctx context.Context, t *tracker, unit *work.Unit, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := p.settings

	t.status("Preparing & loading images into memory")
	imgs, err := p.loader.Load(ctx, unit.InputPaths(), s.FirstLayerOnly)
	if err != nil {
		return err
	}
	imgs, err = compose.Resize(ctx, imgs, s.WidthMode, s.CustomWidth, s.PoolSize())
	if err != nil {
		return err
	}
	width := lo.Max(lo.Map(imgs, func(img *image.NRGBA, _ int) int { return img.Bounds().Dx() }))
	if err := p.writer.CheckWidth(width); err != nil {
		return err
	}
	t.advance(t.w.load)

	t.status("Combining images into a single combined image")
	canvas, err := compose.Combine(imgs)
	if err != nil {
		return work.NewError(work.KindLoad, unit.InputPath, err)
	}
	logger.Debug("combined", zap.Int("width", canvas.Bounds().Dx()), zap.Int("height", canvas.Bounds().Dy()))
	t.advance(t.w.combine)

	t.status("Detecting & selecting valid slicing points")
	cuts := p.detector.Detect(canvas, s.SplitHeight)
	logger.Debug("detected", zap.Ints("cuts", cuts))
	t.advance(t.w.detect)

	t.status("Generating sliced output images in memory")
	segments, err := compose.Slice(canvas, cuts)
	if err != nil {
		return errors.Wrapf(err, "slice %s", unit)
	}
	t.advance(t.w.slice)

	t.status("Saving output images to storage")
	names, err := p.writer.Save(ctx, unit, segments)
	if err != nil {
		return err
	}
	t.advance(t.w.save)
	t.status(fmt.Sprintf("%d images saved successfully", len(names)))
	p.console.Print(fmt.Sprintf("%s: %d images saved to %s", unit, len(names), unit.OutputPath))

	if s.PostprocessEnable {
		t.status("Running post process on output files")
		if err := p.runner.Run(ctx, unit, s.PostprocessCommand, s.PostprocessArgs, p.console); err != nil {
			return err
		}
		t.advance(t.w.postprocess)
	}

	return nil
}
