package stitcher

import (
	"github.com/spf13/afero"

	"smartstitch/pkg/detect"
	"smartstitch/pkg/work"
)

type Option func(p *Pipeline)

func WithProgress(fn work.ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

func WithConsole(fn work.ConsoleFunc) Option {
	return func(p *Pipeline) {
		p.console = fn
	}
}

// WithFs replaces the operating system filesystem.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) {
		p.fs = fs
	}
}

// WithDetector overrides the detector chosen from settings.
func WithDetector(d detect.Detector) Option {
	return func(p *Pipeline) {
		p.detector = d
	}
}
