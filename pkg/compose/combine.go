package compose

import (
	"image"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrNoImages = errors.New("no images to combine")

// Combine stacks imgs top to bottom into one canvas as wide as the widest
// image and exactly as tall as all of them together. Narrower images are
// left aligned; the uncovered area stays transparent black. Pixels are
// copied row by row without any color conversion. Each entry of imgs is set
// to nil once it has been copied.
func Combine(imgs []*image.NRGBA) (*image.NRGBA, error) {
	if len(imgs) == 0 {
		return nil, ErrNoImages
	}

	width := lo.Max(lo.Map(imgs, func(img *image.NRGBA, _ int) int { return img.Bounds().Dx() }))
	height := lo.SumBy(imgs, func(img *image.NRGBA) int { return img.Bounds().Dy() })
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))

	offset := 0
	for i, img := range imgs {
		b := img.Bounds()
		for y := 0; y < b.Dy(); y++ {
			src := img.PixOffset(b.Min.X, b.Min.Y+y)
			copy(canvas.Pix[(offset+y)*canvas.Stride:], img.Pix[src:src+b.Dx()*4])
		}
		offset += b.Dy()
		imgs[i] = nil
	}

	return canvas, nil
}
