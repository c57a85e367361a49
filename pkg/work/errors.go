package work

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindLoad    Kind = "load"
	KindResize  Kind = "resize"
	KindWrite   Kind = "write"
	KindProcess Kind = "process"
	KindConfig  Kind = "config"
)

// Error is the single error type every pipeline stage fails with.
// Path names the file, folder or setting involved. Code is only meaningful
// for process errors: the exit status, or -1 when the command never ran.
type Error struct {
	Kind Kind
	Path string
	Code int
	Err  error
}

func NewError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func NewProcessError(command string, code int, err error) *Error {
	return &Error{Kind: KindProcess, Path: command, Code: code, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindProcess && e.Code != -1:
		return fmt.Sprintf("process %s exited with code %d: %v", e.Path, e.Code, e.Err)
	case e.Path == "":
		return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s %s failed: %v", e.Kind, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
