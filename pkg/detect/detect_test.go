package detect

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartstitch/pkg/config"
	"smartstitch/pkg/work"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func blank(w, h int) *image.NRGBA {
	return imaging.New(w, h, white)
}

// stripe paints alternating black and white pixels on row y in [x0, x1).
func stripe(img *image.NRGBA, y, x0, x1 int) {
	for x := x0; x < x1; x++ {
		if x%2 == 0 {
			img.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
}

func assertValidCuts(t *testing.T, cuts []int, height int) {
	t.Helper()
	require.GreaterOrEqual(t, len(cuts), 2)
	assert.Equal(t, 0, cuts[0])
	assert.Equal(t, height, cuts[len(cuts)-1])
	for i := 1; i < len(cuts); i++ {
		assert.Greater(t, cuts[i], cuts[i-1], "cuts %v", cuts)
	}
}

func TestDirect(t *testing.T) {
	d := Direct()
	assert.Equal(t, "direct", d.Name())

	assert.Equal(t, []int{0, 1000, 2000, 3000, 3100}, d.Detect(blank(1, 3100), 1000))
	assert.Equal(t, []int{0, 1000, 2000, 3000}, d.Detect(blank(1, 3000), 1000))
	assert.Equal(t, []int{0, 999}, d.Detect(blank(1, 999), 1000))
	assert.Equal(t, []int{0, 1, 2, 3}, d.Detect(blank(1, 3), 1))
}

func TestDirectSegmentCount(t *testing.T) {
	for _, tc := range []struct{ h, split int }{{3100, 1000}, {1, 5000}, {5000, 5000}, {12345, 777}} {
		cuts := Direct().Detect(blank(1, tc.h), tc.split)
		assertValidCuts(t, cuts, tc.h)
		assert.Equal(t, (tc.h+tc.split-1)/tc.split, len(cuts)-1)
		for i := 1; i < len(cuts); i++ {
			assert.LessOrEqual(t, cuts[i]-cuts[i-1], tc.split)
		}
	}
}

func TestSmartKeepsSafeNominalRows(t *testing.T) {
	d := SmartScan(90, 5, 0)
	assert.Equal(t, "smart", d.Name())
	assert.Equal(t, []int{0, 100, 200, 300, 310}, d.Detect(blank(20, 310), 100))
}

func TestSmartMovesAwayFromContent(t *testing.T) {
	canvas := blank(20, 300)
	for y := 95; y < 105; y++ {
		stripe(canvas, y, 0, 20)
	}

	// 100 and 95 are busy, 105 is the first clear row found
	assert.Equal(t, []int{0, 105, 200, 300}, SmartScan(90, 5, 0).Detect(canvas, 100))
}

func TestSmartPrefersRowsAbove(t *testing.T) {
	canvas := blank(20, 300)
	for y := 98; y < 103; y++ {
		stripe(canvas, y, 0, 20)
	}

	assert.Equal(t, []int{0, 97, 200, 300}, SmartScan(90, 3, 0).Detect(canvas, 100))
}

func TestSmartFallsBackToNominal(t *testing.T) {
	canvas := blank(20, 350)
	for y := 0; y < 350; y++ {
		stripe(canvas, y, 0, 20)
	}

	assert.Equal(t, Direct().Detect(canvas, 100), SmartScan(90, 5, 0).Detect(canvas, 100))
}

func TestSmartIgnoresMargins(t *testing.T) {
	canvas := blank(20, 200)
	stripe(canvas, 100, 0, 3)
	stripe(canvas, 100, 17, 20)

	assert.Equal(t, []int{0, 100, 200}, SmartScan(90, 5, 3).Detect(canvas, 100))
	assert.Equal(t, []int{0, 95, 200}, SmartScan(90, 5, 0).Detect(canvas, 100))
}

func TestSmartSensitivity(t *testing.T) {
	canvas := blank(20, 200)
	for x := 0; x < 20; x += 2 {
		canvas.SetNRGBA(x, 100, color.NRGBA{R: 245, G: 245, B: 245, A: 255})
	}

	// a luma step of 10 passes at 90 and fails at 100
	assert.Equal(t, []int{0, 100, 200}, SmartScan(90, 5, 0).Detect(canvas, 100))
	assert.Equal(t, []int{0, 95, 200}, SmartScan(100, 5, 0).Detect(canvas, 100))
}

func TestSmartInvariantsOnRandomCanvases(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for n := 0; n < 200; n++ {
		w, h := 1+r.Intn(30), 1+r.Intn(400)
		canvas := blank(w, h)
		for y := 0; y < h; y++ {
			if r.Intn(3) == 0 {
				stripe(canvas, y, r.Intn(w), w)
			}
		}

		split := 1 + r.Intn(120)
		d := SmartScan(1+r.Intn(100), 1+r.Intn(25), r.Intn(10))

		cuts := d.Detect(canvas, split)
		assertValidCuts(t, cuts, h)
		assert.Equal(t, cuts, d.Detect(canvas, split), "detection is deterministic")
	}
}

func TestNew(t *testing.T) {
	s := config.Default()

	s.DetectorMode = config.DetectorDirect
	d, err := New(s)
	require.NoError(t, err)
	assert.Equal(t, "direct", d.Name())

	s.DetectorMode = config.DetectorSmart
	d, err = New(s)
	require.NoError(t, err)
	assert.Equal(t, "smart", d.Name())

	s.DetectorMode = "ml"
	_, err = New(s)
	assert.True(t, work.IsKind(err, work.KindConfig))
}
