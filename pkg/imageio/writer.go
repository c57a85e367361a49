package imageio

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"smartstitch/pkg/config"
	"smartstitch/pkg/pool"
	"smartstitch/pkg/psd"
	"smartstitch/pkg/work"
)

func NewWriter(fs afero.Fs, s config.Settings, logger *zap.Logger, opts ...Option) (*Writer, error) {
	ext := config.NormalizeFormat(s.OutputFormat)
	enc, err := encoderFor(s)
	if err != nil {
		return nil, work.NewError(work.KindConfig, "output-format", err)
	}

	w := &Writer{
		fs:       fs,
		ext:      ext,
		maxWidth: lo.Ternary(s.IsLayeredOutput(), psd.MaxDimension, 0),
		encode:   enc,
		logger: logger.With(zap.String("via", "writer"), zap.String("format", ext)),
	}

	for _, opt := range opts {
		opt(&w.options)
	}

	return w, nil
}

// Writer encodes segments in parallel and persists them as 01.ext, 02.ext...
type Writer struct {
	options
	fs       afero.Fs
	ext      string
	maxWidth int
	encode   encodeFunc
	logger   *zap.Logger
}

func (w *Writer) Ext() string {
	return w.ext
}

// CheckWidth fails when segments of the given width cannot be stored in the
// output format. Zero maxWidth means unbounded.
func (w *Writer) CheckWidth(width int) error {
	if w.maxWidth > 0 && width > w.maxWidth {
		return work.NewError(work.KindConfig, "output-format",
			errors.Errorf("%s output holds at most %d px, canvas is %d px wide", w.ext, w.maxWidth, width))
	}
	return nil
}

// Save writes segments into unit.OutputPath. The file name of a segment is
// derived from its index alone. Segments are staged under temporary names
// and only renamed into place once every one of them was written, so a
// failed Save leaves no new files behind. Successful names are appended to
// the unit's outputs. Segment entries are released as they are encoded.
func (w *Writer) Save(ctx context.Context, unit *work.Unit, segments []*image.NRGBA) ([]string, error) {
	if err := ensureDir(w.fs, unit.OutputPath); err != nil {
		return nil, work.NewError(work.KindWrite, unit.OutputPath, err)
	}

	batch := xid.New()
	names := make([]string, len(segments))
	finals := make([]string, len(segments))
	staged := make([]string, len(segments))
	for i := range segments {
		names[i] = SegmentName(i, w.ext)
		finals[i] = filepath.Join(unit.OutputPath, names[i])
		staged[i] = stagingName(batch, finals[i])
	}

	sizes, err := pool.Map(ctx, w.workers, segments, func(ctx context.Context, i int, seg *image.NRGBA) (int, error) {
		var buf bytes.Buffer
		if err := w.encode(&buf, seg); err != nil {
			return 0, work.NewError(work.KindWrite, finals[i], err)
		}
		segments[i] = nil

		if err := afero.WriteFile(w.fs, staged[i], buf.Bytes(), 0644); err != nil {
			return 0, work.NewError(work.KindWrite, finals[i], err)
		}

		return buf.Len(), nil
	})
	if err != nil {
		w.remove(staged...)
		return nil, err
	}

	for i := range staged {
		if err := w.fs.Rename(staged[i], finals[i]); err != nil {
			w.remove(finals[:i]...)
			w.remove(staged[i:]...)
			return nil, work.NewError(work.KindWrite, finals[i], err)
		}

		w.logger.With(
			zap.String("file", finals[i]),
			zap.String("size", bytesize.New(float64(sizes[i])).String()),
		).Debug("segment saved")
	}

	unit.AddOutputs(names...)
	return names, nil
}

func (w *Writer) remove(paths ...string) {
	for _, p := range paths {
		if err := w.fs.Remove(p); err != nil && !os.IsNotExist(err) {
			w.logger.With(zap.String("file", p), zap.Error(err)).Info("cleanup failed")
		}
	}
}
