// Package detect chooses the rows a tall canvas is cut at.
package detect

import (
	"image"

	"github.com/pkg/errors"

	"smartstitch/pkg/config"
	"smartstitch/pkg/work"
)

// Detector returns strictly increasing cut rows for canvas, starting at 0
// and ending at the canvas height, aiming for bands of splitHeight rows.
// Implementations are pure: the same pixels and parameters always give the
// same cuts.
type Detector interface {
	Name() string
	Detect(canvas *image.NRGBA, splitHeight int) []int
}

// New picks the strategy configured in s.
func New(s config.Settings) (Detector, error) {
	switch s.DetectorMode {
	case config.DetectorDirect:
		return Direct(), nil
	case config.DetectorSmart:
		return SmartScan(s.Sensitivity, s.ScanStep, s.IgnorableMargin), nil
	}
	return nil, work.NewError(work.KindConfig, "detector", errors.Errorf("unknown detector %q", s.DetectorMode))
}
