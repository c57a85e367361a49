// Package psd reads layered Photoshop documents into flat rasters and wraps
// rasters as single-layer documents.
package psd

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/oov/psd"
	"github.com/pkg/errors"
)

var ErrNoImage = errors.New("document holds no image data")

// Composite returns the document flattened to one raster. The stored merged
// image is preferred; documents saved without one are flattened from their
// visible layers.
func Composite(data []byte) (*image.NRGBA, error) {
	doc, _, err := psd.Decode(bytes.NewReader(data), &psd.DecodeOptions{SkipLayerImage: true})
	switch {
	case err == nil && doc.Picker != nil:
		return imaging.Clone(doc.Picker), nil
	case err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF):
		return nil, errors.Wrap(err, "decode document")
	}

	return flatten(data)
}

// flatten draws the visible layers bottom to top, honouring layer opacity.
func flatten(data []byte) (*image.NRGBA, error) {
	doc, _, err := psd.Decode(bytes.NewReader(data), &psd.DecodeOptions{SkipMergedImage: true})
	if err != nil {
		return nil, errors.Wrap(err, "decode layers")
	}

	canvas := imaging.New(doc.Config.Rect.Dx(), doc.Config.Rect.Dy(), color.NRGBA{})
	drawn := 0
	walk(doc.Layer, func(l *psd.Layer) {
		if !l.Visible() {
			return
		}
		canvas = imaging.Overlay(canvas, imaging.Clone(l.Picker), l.Rect.Min, float64(l.Opacity)/255)
		drawn++
	})
	if drawn == 0 {
		return nil, ErrNoImage
	}

	return canvas, nil
}

// FirstLayer returns the raster of the bottom-most layer at the layer's own
// size. Documents without layers fall back to their composite.
func FirstLayer(data []byte) (*image.NRGBA, error) {
	doc, _, err := psd.Decode(bytes.NewReader(data), &psd.DecodeOptions{SkipMergedImage: true})
	if err != nil {
		return nil, errors.Wrap(err, "decode layers")
	}

	var first *psd.Layer
	walk(doc.Layer, func(l *psd.Layer) {
		if first == nil {
			first = l
		}
	})
	if first == nil {
		return Composite(data)
	}

	return imaging.Clone(first.Picker), nil
}

// walk visits pixel layers bottom to top, descending into groups. Layers
// without pixels are skipped.
func walk(layers []psd.Layer, fn func(l *psd.Layer)) {
	for i := range layers {
		l := &layers[i]
		if len(l.Layer) > 0 {
			walk(l.Layer, fn)
			continue
		}
		if !l.HasImage() || l.Picker == nil || l.Rect.Empty() {
			continue
		}
		fn(l)
	}
}
