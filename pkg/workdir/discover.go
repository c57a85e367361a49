// Package workdir turns an input folder tree into stitch units.
package workdir

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"smartstitch/pkg/imageio"
	"smartstitch/pkg/work"
)

const (
	StitchedSuffix  = " [Stitched]"
	ProcessedSuffix = " [Processed]"
)

// Discover returns one unit per folder under input (input included) that
// holds at least one supported image. Output and postprocess default to
// sibling folders of input; each unit mirrors its path relative to input
// below them. Units and their files are in natural order.
func Discover(fs afero.Fs, input, output, postprocess string) ([]*work.Unit, error) {
	input = filepath.Clean(input)
	if exists, err := afero.DirExists(fs, input); err != nil {
		return nil, work.NewError(work.KindLoad, input, err)
	} else if !exists {
		return nil, work.NewError(work.KindLoad, input, errors.New("input folder not found"))
	}

	output = filepath.Clean(lo.Ternary(output == "", input+StitchedSuffix, output))
	postprocess = filepath.Clean(lo.Ternary(postprocess == "", input+ProcessedSuffix, postprocess))

	var units []*work.Unit
	err := afero.Walk(fs, input, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != input && (within(path, output) || within(path, postprocess)) {
			return filepath.SkipDir
		}

		files, errF := images(fs, path)
		if errF != nil {
			return errF
		}
		if len(files) == 0 {
			return nil
		}

		rel, errR := filepath.Rel(input, path)
		if errR != nil {
			return errR
		}
		units = append(units, work.NewUnit(path, files, filepath.Join(output, rel), filepath.Join(postprocess, rel)))
		return nil
	})
	if err != nil {
		return nil, work.NewError(work.KindLoad, input, errors.Wrap(err, "scan input"))
	}

	sort.SliceStable(units, func(i, j int) bool {
		return natural.Less(units[i].InputPath, units[j].InputPath)
	})

	return units, nil
}

func images(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	names := lo.FilterMap(entries, func(fi os.FileInfo, _ int) (string, bool) {
		return fi.Name(), !fi.IsDir() && !strings.HasPrefix(fi.Name(), ".") && imageio.IsSupportedInput(fi.Name())
	})
	sort.Sort(natural.StringSlice(names))

	return names, nil
}

// within reports whether path is root or below it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
