package stitcher

import (
	"fmt"
	"math"

	"smartstitch/pkg/work"
)

// weights are the shares of 100% given to each stage over a whole run.
// explore is paid once, the others are split evenly between units.
type weights struct {
	explore     float64
	load        float64
	combine     float64
	detect      float64
	slice       float64
	save        float64
	postprocess float64
}

func weightsFor(postprocess bool) weights {
	w := weights{explore: 5, load: 15, combine: 5, detect: 15, slice: 10, save: 30, postprocess: 20}
	if !postprocess {
		w.save += w.postprocess
		w.postprocess = 0
	}
	return w
}

func newTracker(fn work.ProgressFunc, w weights, units int) *tracker {
	return &tracker{fn: fn, w: w, units: units}
}

type tracker struct {
	fn      work.ProgressFunc
	w       weights
	units   int
	index   int
	percent float64
}

func (t *tracker) report(message string) {
	t.fn.Report(t.percent, message)
}

func (t *tracker) status(message string) {
	t.report(fmt.Sprintf("Working - [%d/%d] %s", t.index+1, t.units, message))
}

func (t *tracker) next(index int) {
	t.index = index
}

func (t *tracker) explored() {
	t.percent = math.Min(100, t.percent+t.w.explore)
}

func (t *tracker) advance(share float64) {
	if t.units > 0 {
		t.percent = math.Min(100, t.percent+share/float64(t.units))
	}
}
