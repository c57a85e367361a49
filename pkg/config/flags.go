package config

import (
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

// BindFlags registers every setting on fs, using the current values of s as
// defaults. Parsed values are written straight into s.
func BindFlags(fs *flag.FlagSet, s *Settings) {
	fs.Var((*formatValue)(&s.OutputFormat), "output-format", "output image type ("+strings.Join(OutputFormats, ", ")+")")
	fs.IntVar(&s.LossyQuality, "quality", s.LossyQuality, "lossy output quality (0-100)")

	fs.Var((*widthModeValue)(&s.WidthMode), "width-mode", "width enforcement: none, automatic or manual")
	fs.IntVar(&s.CustomWidth, "custom-width", s.CustomWidth, "target width for manual width enforcement")

	fs.Var((*detectorValue)(&s.DetectorMode), "detector", "cut point detector: direct or smart")
	fs.IntVar(&s.Sensitivity, "sensitivity", s.Sensitivity, "smart detector strictness (1-100)")
	fs.IntVar(&s.ScanStep, "scan-step", s.ScanStep, "smart detector scan step in pixels (1-25)")
	fs.IntVar(&s.IgnorableMargin, "margin", s.IgnorableMargin, "edge columns ignored by the smart detector")
	fs.IntVar(&s.SplitHeight, "split-height", s.SplitHeight, "target output image height")

	fs.BoolVar(&s.PostprocessEnable, "postprocess", s.PostprocessEnable, "run the post process command after saving")
	fs.StringVar(&s.PostprocessCommand, "postprocess-cmd", s.PostprocessCommand, "post process executable")
	fs.StringVar(&s.PostprocessArgs, "postprocess-args", s.PostprocessArgs, "post process arguments, [stitched] and [processed] are replaced")

	fs.IntVarP(&s.Workers, "workers", "j", s.Workers, "parallel workers for load and save (0 uses every CPU)")
	fs.BoolVar(&s.FirstLayerOnly, "first-layer-only", s.FirstLayerOnly, "read only the bottom layer of layered inputs")
}

type formatValue string

func (v *formatValue) String() string { return string(*v) }
func (v *formatValue) Type() string   { return "format" }

func (v *formatValue) Set(in string) error {
	*v = formatValue(NormalizeFormat(in))
	return nil
}

type widthModeValue WidthMode

func (v *widthModeValue) String() string { return string(*v) }
func (v *widthModeValue) Type() string   { return "mode" }

func (v *widthModeValue) Set(in string) error {
	m, err := ParseWidthMode(in)
	if err != nil {
		return err
	}
	*v = widthModeValue(m)
	return nil
}

type detectorValue DetectorMode

func (v *detectorValue) String() string { return string(*v) }
func (v *detectorValue) Type() string   { return "detector" }

func (v *detectorValue) Set(in string) error {
	m, err := ParseDetectorMode(in)
	if err != nil {
		return err
	}
	*v = detectorValue(m)
	return nil
}

func ParseWidthMode(in string) (WidthMode, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "none", "off", "0":
		return WidthNone, nil
	case "automatic", "auto", "1":
		return WidthAutomatic, nil
	case "manual", "custom", "2":
		return WidthManual, nil
	}
	return "", errors.Errorf("unknown width mode %q", in)
}

func ParseDetectorMode(in string) (DetectorMode, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "direct", "none", "0":
		return DetectorDirect, nil
	case "smart", "pixel", "1":
		return DetectorSmart, nil
	}
	return "", errors.Errorf("unknown detector %q", in)
}
