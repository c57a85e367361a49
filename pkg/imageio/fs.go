package imageio

import (
	"fmt"
	"path/filepath"

	"github.com/rs/xid"
	"github.com/spf13/afero"
)

func ensureDir(fs afero.Fs, dir string) error {
	if exists, err := afero.DirExists(fs, dir); err != nil {
		return err
	} else if !exists {
		if err2 := fs.MkdirAll(dir, 0755); err2 != nil {
			return err2
		}
	}
	return nil
}

// stagingName returns a hidden per-call temporary name next to final.
func stagingName(batch xid.ID, final string) string {
	return filepath.Join(filepath.Dir(final), fmt.Sprintf(".%s.%s.tmp", batch.String(), filepath.Base(final)))
}

// SegmentName is the file name of the segment at index (zero based).
func SegmentName(index int, ext string) string {
	return fmt.Sprintf("%02d%s", index+1, ext)
}
