package work

import (
	"path/filepath"
	"sync"
)

func NewUnit(inputPath string, inputFiles []string, outputPath, postprocessPath string) *Unit {
	return &Unit{
		InputPath:       inputPath,
		InputFiles:      inputFiles,
		OutputPath:      outputPath,
		PostprocessPath: postprocessPath,
	}
}

// Unit is one stitch job: an ordered set of input images in a folder and
// the folders its results go to.
type Unit struct {
	InputPath       string
	InputFiles      []string
	OutputPath      string
	PostprocessPath string

	mu      sync.Mutex
	outputs []string
}

func (u *Unit) InputPaths() []string {
	paths := make([]string, len(u.InputFiles))
	for i, name := range u.InputFiles {
		paths[i] = filepath.Join(u.InputPath, name)
	}
	return paths
}

// AddOutputs records produced file names. Only the image writer calls it.
func (u *Unit) AddOutputs(names ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.outputs = append(u.outputs, names...)
}

func (u *Unit) Outputs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.outputs...)
}

func (u *Unit) String() string {
	return u.InputPath
}
