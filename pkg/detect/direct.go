package detect

import "image"

func Direct() Detector {
	return &direct{}
}

type direct struct{}

func (d *direct) Name() string {
	return "direct"
}

// Detect cuts at every multiple of splitHeight, the last band takes the rest.
func (d *direct) Detect(canvas *image.NRGBA, splitHeight int) []int {
	height := canvas.Bounds().Dy()
	cuts := []int{0}
	if splitHeight > 0 {
		for y := splitHeight; y < height; y += splitHeight {
			cuts = append(cuts, y)
		}
	}
	return append(cuts, height)
}
