package imageio

import (
	"bytes"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	_ "golang.org/x/image/webp"

	"smartstitch/pkg/config"
	"smartstitch/pkg/psd"
)

// InputFormats lists every extension the loader can decode.
var InputFormats = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff", ".gif", ".psd", ".psb"}

func IsSupportedInput(name string) bool {
	return lo.Contains(InputFormats, strings.ToLower(filepath.Ext(name)))
}

type decodeFunc func(data []byte) (*image.NRGBA, error)

type encodeFunc func(w io.Writer, img image.Image) error

func decoderFor(name string, firstLayerOnly bool) decodeFunc {
	if config.IsLayered(filepath.Ext(name)) {
		return lo.Ternary(firstLayerOnly, psd.FirstLayer, psd.Composite)
	}
	return decodeFlat
}

func decodeFlat(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// encoderFor resolves the encoder of the configured output format. The lossy
// quality applies to lossy formats only.
func encoderFor(s config.Settings) (encodeFunc, error) {
	ext := config.NormalizeFormat(s.OutputFormat)
	switch {
	case s.IsLayeredOutput():
		return psd.Encode, nil
	case ext == ".webp":
		opts := webp.Options{Quality: lo.Clamp(s.LossyQuality, 1, 100)}
		return func(w io.Writer, img image.Image) error {
			return webp.Encode(w, img, opts)
		}, nil
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, errors.Wrapf(err, "output format %s", ext)
	}

	var opts []imaging.EncodeOption
	if s.IsLossy() {
		opts = append(opts, imaging.JPEGQuality(lo.Clamp(s.LossyQuality, 1, 100)))
	}

	return func(w io.Writer, img image.Image) error {
		return imaging.Encode(w, img, format, opts...)
	}, nil
}
