package postprocess

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"smartstitch/pkg/work"
)

func TestResolveArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-i", "/a/out", "-o", "/a/proc"},
		ResolveArgs("-i [stitched] -o [processed]", "/a/out", "/a/proc"))

	assert.Equal(t,
		[]string{`C:\Program Files\x`, "--in=/a/out", "/a/proc"},
		ResolveArgs(`  "C:\Program Files\x"   --in=[stitched]	"[processed]" `, "/a/out", "/a/proc"))

	assert.Equal(t, []string{}, ResolveArgs("", "/a/out", "/a/proc"))
	assert.Equal(t, []string{"[Stitched]"}, ResolveArgs("[Stitched]", "/a/out", "/a/proc"))
}

func TestSplitArgsKeepsQuotedWhitespace(t *testing.T) {
	assert.Equal(t, []string{`"a b"`, `c"d e"`, `f\g`}, splitArgs(`"a b" c"d e" f\g`))
}

type lines struct {
	sync.Mutex
	got []string
}

func (l *lines) sink() work.ConsoleFunc {
	return func(line string) {
		l.Lock()
		defer l.Unlock()
		l.got = append(l.got, line)
	}
}

func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	path := filepath.Join(t.TempDir(), "post.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func unitIn(t *testing.T) *work.Unit {
	dir := t.TempDir()
	return work.NewUnit(filepath.Join(dir, "in"), nil, filepath.Join(dir, "out"), filepath.Join(dir, "proc"))
}

func TestRunStreamsOutput(t *testing.T) {
	cmd := script(t, `echo "in $2"
echo "warn" 1>&2
echo "out $4"
`)
	unit := unitIn(t)
	out := &lines{}

	r := New(afero.NewOsFs(), zaptest.NewLogger(t))
	require.NoError(t, r.Run(context.Background(), unit, cmd, "-i [stitched] -o [processed]", out.sink()))

	require.Len(t, out.got, 6)
	assert.Contains(t, out.got[0], "Executing post process: "+cmd+" -i "+unit.OutputPath)
	assert.Equal(t, "Post process started!", out.got[1])
	assert.Equal(t, "in "+unit.OutputPath, out.got[2])
	assert.Equal(t, "warn", out.got[3])
	assert.Equal(t, "out "+unit.PostprocessPath, out.got[4])
	assert.Equal(t, "Post process finished successfully!", out.got[5])

	assert.DirExists(t, unit.PostprocessPath)
}

func TestRunExitCode(t *testing.T) {
	cmd := script(t, "echo failing\nexit 3\n")
	out := &lines{}

	err := New(afero.NewOsFs(), zaptest.NewLogger(t)).Run(context.Background(), unitIn(t), cmd, "", out.sink())
	require.Error(t, err)

	var e *work.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, work.KindProcess, e.Kind)
	assert.Equal(t, 3, e.Code)
	assert.Contains(t, out.got, "failing")
	assert.NotContains(t, out.got, "Post process finished successfully!")
}

func TestRunMissingExecutable(t *testing.T) {
	err := New(afero.NewOsFs(), zaptest.NewLogger(t)).
		Run(context.Background(), unitIn(t), filepath.Join(t.TempDir(), "nope"), "", nil)

	var e *work.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, -1, e.Code)
}

func TestRunSkipsWithoutCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	unit := work.NewUnit("/in", nil, "/out", "/proc")
	out := &lines{}

	require.NoError(t, New(fs, zaptest.NewLogger(t)).Run(context.Background(), unit, " ", "[stitched]", out.sink()))
	assert.Equal(t, []string{"No post process application configured. Skipping."}, out.got)

	exists, err := afero.DirExists(fs, "/proc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunSurvivesPanickingConsole(t *testing.T) {
	cmd := script(t, "echo hi\n")
	err := New(afero.NewOsFs(), zaptest.NewLogger(t)).
		Run(context.Background(), unitIn(t), cmd, "", func(string) { panic("boom") })
	assert.NoError(t, err)
}
