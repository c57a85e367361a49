// Package compose brings images to a common width, stacks them into one tall
// canvas and cuts that canvas back into bands.
package compose

import (
	"context"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"smartstitch/pkg/config"
	"smartstitch/pkg/pool"
	"smartstitch/pkg/work"
)

// TargetWidth resolves the width images are scaled to. The boolean is false
// when the mode leaves images untouched.
func TargetWidth(imgs []*image.NRGBA, mode config.WidthMode, custom int) (int, bool, error) {
	switch mode {
	case config.WidthNone:
		return 0, false, nil
	case config.WidthAutomatic:
		if len(imgs) == 0 {
			return 0, false, nil
		}
		return lo.Min(lo.Map(imgs, func(img *image.NRGBA, _ int) int { return img.Bounds().Dx() })), true, nil
	case config.WidthManual:
		if custom <= 0 {
			return 0, false, work.NewError(work.KindResize, "", errors.Errorf("invalid target width %d", custom))
		}
		return custom, true, nil
	}
	return 0, false, work.NewError(work.KindConfig, "width-mode", errors.Errorf("unknown mode %q", mode))
}

// Resize scales every image whose width differs from the mode's target,
// keeping its aspect ratio. Images are independent of each other and are
// scaled on up to workers goroutines; the result keeps input order.
func Resize(ctx context.Context, imgs []*image.NRGBA, mode config.WidthMode, custom, workers int) ([]*image.NRGBA, error) {
	width, ok, err := TargetWidth(imgs, mode, custom)
	if err != nil {
		return nil, err
	}
	if !ok {
		return imgs, nil
	}

	return pool.Map(ctx, workers, imgs, func(ctx context.Context, i int, img *image.NRGBA) (*image.NRGBA, error) {
		return ResizeTo(img, width), nil
	})
}

// ResizeTo scales img to width with a Lanczos filter. The height is
// round(h * width / w); when that is not positive img is returned as is.
func ResizeTo(img *image.NRGBA, width int) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == width || w == 0 {
		return img
	}

	height := int(math.Round(float64(h) * float64(width) / float64(w)))
	if height <= 0 {
		return img
	}

	return imaging.Resize(img, width, height, imaging.Lanczos)
}
