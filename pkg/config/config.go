package config

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"smartstitch/pkg/psd"
	"smartstitch/pkg/work"
)

// WidthMode selects how images are brought to a common width before combining.
type WidthMode string

const (
	WidthNone      WidthMode = "none"
	WidthAutomatic WidthMode = "automatic"
	WidthManual    WidthMode = "manual"
)

// DetectorMode selects the cut point strategy.
type DetectorMode string

const (
	DetectorDirect DetectorMode = "direct"
	DetectorSmart  DetectorMode = "smart"
)

var (
	LayeredFormats = []string{".psd", ".psb"}
	OutputFormats  = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff", ".gif", ".psd"}
	LossyFormats   = []string{".jpg", ".jpeg", ".webp"}
)

func Default() Settings {
	return Settings{
		OutputFormat:    ".png",
		LossyQuality:    100,
		WidthMode:       WidthNone,
		CustomWidth:     720,
		DetectorMode:    DetectorSmart,
		Sensitivity:     90,
		ScanStep:        5,
		IgnorableMargin: 5,
		SplitHeight:     5000,
	}
}

// Settings is the configuration snapshot a pipeline runs with. It is copied
// into the pipeline at construction and never mutated afterwards.
type Settings struct {
	OutputFormat string
	LossyQuality int // 0-100, lossy formats only

	WidthMode   WidthMode
	CustomWidth int

	DetectorMode    DetectorMode
	Sensitivity     int // 1-100, higher is stricter
	ScanStep        int // 1-25 px
	IgnorableMargin int // columns skipped at both edges
	SplitHeight     int

	PostprocessEnable  bool
	PostprocessCommand string
	PostprocessArgs    string // may contain [stitched] and [processed]

	Workers        int // 0 uses every CPU
	FirstLayerOnly bool
}

// NormalizeFormat lower-cases an extension and adds the leading dot.
func NormalizeFormat(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (s Settings) PoolSize() int {
	return lo.Ternary(s.Workers > 0, s.Workers, runtime.NumCPU())
}

func (s Settings) IsLossy() bool {
	return lo.Contains(LossyFormats, NormalizeFormat(s.OutputFormat))
}

func (s Settings) IsLayeredOutput() bool {
	return IsLayered(s.OutputFormat)
}

// MaxSliceHeight is the tallest segment the configured detector can produce.
// SmartScan may move each cut up to half a split height either way.
func (s Settings) MaxSliceHeight() int {
	if s.DetectorMode == DetectorSmart {
		return s.SplitHeight + 2*lo.Max([]int{s.SplitHeight / 2, 1})
	}
	return s.SplitHeight
}

func IsLayered(ext string) bool {
	return lo.Contains(LayeredFormats, NormalizeFormat(ext))
}

// Validate reports the first invalid setting as a config error.
func (s Settings) Validate() error {
	fail := func(key, format string, args ...interface{}) error {
		return work.NewError(work.KindConfig, key, errors.Errorf(format, args...))
	}

	if !lo.Contains(OutputFormats, NormalizeFormat(s.OutputFormat)) {
		return fail("output-format", "unsupported format %q (use one of %s)", s.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if s.LossyQuality < 0 || s.LossyQuality > 100 {
		return fail("quality", "must be within 0-100, got %d", s.LossyQuality)
	}

	switch s.WidthMode {
	case WidthNone, WidthAutomatic:
	case WidthManual:
		if s.CustomWidth <= 0 {
			return fail("custom-width", "must be positive, got %d", s.CustomWidth)
		}
	default:
		return fail("width-mode", "unknown mode %q", s.WidthMode)
	}

	switch s.DetectorMode {
	case DetectorDirect, DetectorSmart:
	default:
		return fail("detector", "unknown detector %q", s.DetectorMode)
	}

	if s.SplitHeight <= 0 {
		return fail("split-height", "must be positive, got %d", s.SplitHeight)
	}
	if s.Sensitivity < 1 || s.Sensitivity > 100 {
		return fail("sensitivity", "must be within 1-100, got %d", s.Sensitivity)
	}
	if s.ScanStep < 1 || s.ScanStep > 25 {
		return fail("scan-step", "must be within 1-25, got %d", s.ScanStep)
	}
	if s.IgnorableMargin < 0 {
		return fail("margin", "must not be negative, got %d", s.IgnorableMargin)
	}
	if s.Workers < 0 {
		return fail("workers", "must not be negative, got %d", s.Workers)
	}

	if s.IsLayeredOutput() {
		if h := s.MaxSliceHeight(); h > psd.MaxDimension {
			return fail("split-height", "%s output holds at most %d px, segments may reach %d px", NormalizeFormat(s.OutputFormat), psd.MaxDimension, h)
		}
		if s.WidthMode == WidthManual && s.CustomWidth > psd.MaxDimension {
			return fail("custom-width", "%s output holds at most %d px, got %d", NormalizeFormat(s.OutputFormat), psd.MaxDimension, s.CustomWidth)
		}
	}

	return nil
}
