package compose

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Slice crops canvas into full-width bands [cuts[i], cuts[i+1]). cuts must
// start at 0, end at the canvas height and be strictly increasing. The bands
// are copies, so the canvas can be dropped once Slice returns.
func Slice(canvas *image.NRGBA, cuts []int) ([]*image.NRGBA, error) {
	if err := ValidateCuts(cuts, canvas.Bounds().Dy()); err != nil {
		return nil, err
	}

	b := canvas.Bounds()
	segments := make([]*image.NRGBA, 0, len(cuts)-1)
	for i := 1; i < len(cuts); i++ {
		rect := image.Rect(b.Min.X, b.Min.Y+cuts[i-1], b.Max.X, b.Min.Y+cuts[i])
		segments = append(segments, imaging.Crop(canvas, rect))
	}

	return segments, nil
}

func ValidateCuts(cuts []int, height int) error {
	if len(cuts) < 2 {
		return errors.Errorf("need at least two cut points, got %d", len(cuts))
	}
	if cuts[0] != 0 {
		return errors.Errorf("first cut point must be 0, got %d", cuts[0])
	}
	if last := cuts[len(cuts)-1]; last != height {
		return errors.Errorf("last cut point must be %d, got %d", height, last)
	}
	for i := 1; i < len(cuts); i++ {
		if cuts[i] <= cuts[i-1] {
			return errors.Errorf("cut points not increasing at %d: %d after %d", i, cuts[i], cuts[i-1])
		}
	}
	return nil
}
