package dependencies

import (
	"errors"
	"fmt"
)

// ErrInvalidDeclaration is wrapped when a dependency value is neither a
// version string nor a table, or when a typed field has the wrong shape.
var ErrInvalidDeclaration = errors.New("invalid dependency declaration")

// ErrorKind classifies extraction failures.
type ErrorKind string

const (
	KindIO    ErrorKind = "io"
	KindParse ErrorKind = "parse"
)

// Error is the single error type returned by Load. It wraps the underlying
// read or decode failure.
type Error struct {
	Op   string
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func ioError(path string, err error) error {
	return &Error{Op: "read manifest", Kind: KindIO, Path: path, Err: err}
}

func parseError(path string, err error) error {
	return &Error{Op: "decode manifest", Kind: KindParse, Path: path, Err: err}
}
