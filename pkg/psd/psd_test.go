package psd

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 15), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func TestEncodeHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, gradient(7, 5)))

	bs := buf.Bytes()
	require.Greater(t, len(bs), 26)
	assert.Equal(t, "8BPS", string(bs[:4]))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(bs[4:6]))
	assert.Equal(t, uint16(3), binary.BigEndian.Uint16(bs[12:14]), "opaque images have no alpha plane")
	assert.Equal(t, uint32(5), binary.BigEndian.Uint32(bs[14:18]))
	assert.Equal(t, uint32(7), binary.BigEndian.Uint32(bs[18:22]))

	// header, three empty sections, compression flag, planes
	assert.Len(t, bs, 26+4+4+4+2+3*7*5)
}

func TestEncodeAddsAlphaPlane(t *testing.T) {
	img := gradient(4, 4)
	img.SetNRGBA(0, 0, color.NRGBA{A: 0})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))
	assert.Equal(t, uint16(4), binary.BigEndian.Uint16(buf.Bytes()[12:14]))
}

func TestEncodeRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 0, 3))))
}

func TestCompositeReadsEncodedDocument(t *testing.T) {
	src := gradient(9, 6)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src))

	got, err := Composite(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, src.Bounds().Size(), got.Bounds().Size())
	assert.Equal(t, src.Pix, got.Pix)

	first, err := FirstLayer(buf.Bytes())
	require.NoError(t, err, "documents without layers fall back to the composite")
	assert.Equal(t, src.Pix, first.Pix)
}

func TestCompositeRejectsGarbage(t *testing.T) {
	_, err := Composite([]byte("not a document"))
	assert.Error(t, err)
}

var (
	red   = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	blue  = color.NRGBA{R: 30, G: 30, B: 200, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// layers.psd is 6x4 with three layers, bottom to top: a red 4x3 layer at
// (0,0), a blue 4x3 layer at (2,1) and a hidden green layer covering
// everything. layers_nomerged.psd is the same document without the merged
// image section.
func TestFirstLayerReadsBottomLayer(t *testing.T) {
	data := fixture(t, "layers.psd")

	first, err := FirstLayer(data)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), first.Bounds())
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, red, first.NRGBAAt(x, y), "(%d,%d)", x, y)
		}
	}

	composite, err := Composite(data)
	require.NoError(t, err)
	assert.NotEqual(t, composite.Bounds(), first.Bounds())
}

func TestCompositeUsesMergedImage(t *testing.T) {
	composite, err := Composite(fixture(t, "layers.psd"))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 6, 4), composite.Bounds())

	assert.Equal(t, red, composite.NRGBAAt(0, 0))
	assert.Equal(t, blue, composite.NRGBAAt(3, 2))
	assert.Equal(t, white, composite.NRGBAAt(5, 0))
	assert.Equal(t, white, composite.NRGBAAt(0, 3))
}

func TestCompositeFlattensVisibleLayers(t *testing.T) {
	composite, err := Composite(fixture(t, "layers_nomerged.psd"))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 6, 4), composite.Bounds())

	assert.Equal(t, red, composite.NRGBAAt(0, 0))
	assert.Equal(t, red, composite.NRGBAAt(1, 2))
	assert.Equal(t, blue, composite.NRGBAAt(2, 1))
	assert.Equal(t, blue, composite.NRGBAAt(5, 3))
	// uncovered by visible layers, the hidden one is not drawn
	assert.Equal(t, color.NRGBA{}, composite.NRGBAAt(5, 0))
	assert.Equal(t, color.NRGBA{}, composite.NRGBAAt(0, 3))

	first, err := FirstLayer(fixture(t, "layers_nomerged.psd"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), first.Bounds())
}

func TestPhotoshopDocument(t *testing.T) {
	data := fixture(t, "mod2.psd")

	composite, err := Composite(data)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(256, 128), composite.Bounds().Size())

	first, err := FirstLayer(data)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(107, 105), first.Bounds().Size())
	assert.NotEqual(t, composite.Pix, first.Pix)
}
