package psd

import (
	"bufio"
	"encoding/binary"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// MaxDimension is the largest width or height a version 1 document holds.
const MaxDimension = 30000

const colorModeRGB = 3

// Encode writes img as a version 1 document holding a single image plane
// set, which opens as one background layer. An alpha plane is added only
// when img has transparent pixels.
func Encode(w io.Writer, img image.Image) error {
	src := imaging.Clone(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()

	if width <= 0 || height <= 0 {
		return errors.New("empty image")
	}
	if width > MaxDimension || height > MaxDimension {
		return errors.Errorf("image %dx%d exceeds %d px document limit", width, height, MaxDimension)
	}

	channels := 3
	if !src.Opaque() {
		channels = 4
	}

	bw := bufio.NewWriter(w)
	header := []interface{}{
		[4]byte{'8', 'B', 'P', 'S'},
		uint16(1), // version
		[6]byte{}, // reserved
		uint16(channels),
		uint32(height),
		uint32(width),
		uint16(8), // bits per channel
		uint16(colorModeRGB),
		uint32(0), // color mode data
		uint32(0), // image resources
		uint32(0), // layer and mask information
		uint16(0), // raw image data
	}
	for _, v := range header {
		if err := binary.Write(bw, binary.BigEndian, v); err != nil {
			return errors.Wrap(err, "write header")
		}
	}

	plane := make([]byte, width)
	for c := 0; c < channels; c++ {
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width*4]
			for x := 0; x < width; x++ {
				plane[x] = row[x*4+c]
			}
			if _, err := bw.Write(plane); err != nil {
				return errors.Wrap(err, "write image data")
			}
		}
	}

	return bw.Flush()
}
