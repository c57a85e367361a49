package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/fx"
)

func newProgress(lc fx.Lifecycle) *Progress {
	p := &Progress{out: os.Stderr}
	p.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
	)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			p.Lock()
			defer p.Unlock()
			return p.bar.Clear()
		},
	})

	return p
}

// Progress renders pipeline progress as a terminal bar. Console lines and
// final states are printed above it.
type Progress struct {
	sync.Mutex
	bar *progressbar.ProgressBar
	out io.Writer
}

func (p *Progress) Report(percent float64, message string) {
	p.Lock()
	defer p.Unlock()

	if strings.HasPrefix(message, "Idle - ") {
		p.line(message)
		return
	}

	p.bar.Describe(message)
	_ = p.bar.Set(int(percent))
}

func (p *Progress) Print(line string) {
	p.Lock()
	defer p.Unlock()
	p.line(line)
}

func (p *Progress) line(s string) {
	_ = p.bar.Clear()
	_, _ = fmt.Fprintln(p.out, s)
	_ = p.bar.RenderBlank()
}
