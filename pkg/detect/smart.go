package detect

import (
	"image"

	"github.com/samber/lo"
)

// SmartScan avoids cutting through content such as speech balloons. A row is
// safe when, ignoring margin columns at both edges, no two neighbouring
// pixels differ in luma by more than a threshold. Sensitivity 100 allows no
// difference at all; lower values tolerate up to 255*(100-sensitivity)/100.
//
// Each multiple of the split height is tried first. When it is not safe,
// rows step, 2*step... above and below it are tried alternately, up to half
// a split height away and never at or before the previous cut. If nothing is
// safe the multiple itself is used.
func SmartScan(sensitivity, step, margin int) Detector {
	if step < 1 {
		step = 1
	}
	if margin < 0 {
		margin = 0
	}
	return &smartScan{
		threshold: 255 * (100 - lo.Clamp(sensitivity, 0, 100)) / 100,
		step:      step,
		margin:    margin,
	}
}

type smartScan struct {
	threshold int
	step      int
	margin    int
}

func (s *smartScan) Name() string {
	return "smart"
}

func (s *smartScan) Detect(canvas *image.NRGBA, splitHeight int) []int {
	height := canvas.Bounds().Dy()
	cuts := []int{0}
	if splitHeight <= 0 {
		return append(cuts, height)
	}

	radius := lo.Max([]int{splitHeight / 2, 1})

	prev := 0
	for nominal := splitHeight; nominal < height; nominal += splitHeight {
		if nominal <= prev {
			continue
		}
		prev = s.scan(canvas, nominal, prev, height, radius)
		cuts = append(cuts, prev)
	}

	return append(cuts, height)
}

// scan returns the first safe row around nominal within (prev, height).
func (s *smartScan) scan(canvas *image.NRGBA, nominal, prev, height, radius int) int {
	if s.safe(canvas, nominal) {
		return nominal
	}

	for d := s.step; d <= radius; d += s.step {
		if up := nominal - d; up > prev && s.safe(canvas, up) {
			return up
		}
		if down := nominal + d; down < height && s.safe(canvas, down) {
			return down
		}
	}

	return nominal
}

func (s *smartScan) safe(canvas *image.NRGBA, y int) bool {
	b := canvas.Bounds()
	left, right := b.Min.X+s.margin, b.Max.X-s.margin
	if right-left < 2 {
		return true
	}

	row := canvas.Pix[canvas.PixOffset(left, b.Min.Y+y) : canvas.PixOffset(right-1, b.Min.Y+y)+4]
	last := luma(row[0:4])
	for i := 4; i < len(row); i += 4 {
		cur := luma(row[i : i+4])
		if cur-last > s.threshold || last-cur > s.threshold {
			return false
		}
		last = cur
	}

	return true
}

// luma is the 8-bit ITU-R 601 grey level of an RGBA pixel, alpha ignored.
func luma(p []uint8) int {
	return (299*int(p[0]) + 587*int(p[1]) + 114*int(p[2])) / 1000
}
