package imageio

import (
	"context"
	"image"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"smartstitch/pkg/pool"
	"smartstitch/pkg/work"
)

func NewLoader(fs afero.Fs, logger *zap.Logger, opts ...Option) *Loader {
	l := &Loader{
		fs:     fs,
		logger: logger.With(zap.String("via", "loader")),
		decode: decoderFor,
	}

	for _, opt := range opts {
		opt(&l.options)
	}

	return l
}

// Loader decodes a unit's input files in parallel.
type Loader struct {
	options
	fs     afero.Fs
	logger *zap.Logger
	decode func(name string, firstLayerOnly bool) decodeFunc
}

// Load returns one raster per input path, in input order. Layered documents
// are flattened unless firstLayerOnly is set, in which case only their bottom
// layer is read. The first file that cannot be read or decoded fails the
// whole call with a load error naming it.
func (l *Loader) Load(ctx context.Context, paths []string, firstLayerOnly bool) ([]*image.NRGBA, error) {
	return pool.Map(ctx, l.workers, paths, func(ctx context.Context, i int, path string) (*image.NRGBA, error) {
		data, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return nil, work.NewError(work.KindLoad, path, err)
		}

		img, err := l.decode(path, firstLayerOnly)(data)
		if err != nil {
			return nil, work.NewError(work.KindLoad, path, err)
		}

		l.logger.With(
			zap.Int("index", i),
			zap.String("path", path),
			zap.Int("w", img.Bounds().Dx()),
			zap.Int("h", img.Bounds().Dy()),
		).Debug("decoded")

		return img, nil
	})
}
