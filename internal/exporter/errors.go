package exporter

import (
	"errors"
	"fmt"

	"github.com/euforicio/wikigen/internal/output"
	"github.com/euforicio/wikigen/internal/source"
	"github.com/euforicio/wikigen/internal/tags"
)

// ErrorKind classifies a build failure. Every kind is terminal for the run.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindDirectoryNotFound
	KindFileRead
	KindFileWrite
	KindTemplate
	KindUnsafeTag
	KindOutputCollision
)

func (k ErrorKind) String() string {
	switch k {
	case KindDirectoryNotFound:
		return "directory not found"
	case KindFileRead:
		return "file read failure"
	case KindFileWrite:
		return "file write failure"
	case KindTemplate:
		return "template failure"
	case KindUnsafeTag:
		return "unsafe tag"
	case KindOutputCollision:
		return "output collision"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. The first four are shared with the packages that raise them.
var (
	ErrDirectoryNotFound = source.ErrDirectoryNotFound
	ErrReadFailure       = source.ErrReadFailure
	ErrWriteFailure      = output.ErrWriteFailure
	ErrUnsafeTag         = tags.ErrUnsafeTag
	ErrTemplateFailure   = errors.New("template failure")
	ErrOutputCollision   = errors.New("output collision")
)

// Error is returned by Export. Path names the file or directory involved.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// classify maps an error from the source or output packages onto its kind.
func classify(path string, err error) error {
	switch {
	case errors.Is(err, source.ErrDirectoryNotFound):
		return newError(KindDirectoryNotFound, path, err)
	case errors.Is(err, source.ErrReadFailure):
		return newError(KindFileRead, path, err)
	case errors.Is(err, output.ErrWriteFailure), errors.Is(err, output.ErrPathEscapes):
		return newError(KindFileWrite, path, err)
	case errors.Is(err, ErrTemplateFailure):
		return newError(KindTemplate, path, err)
	case errors.Is(err, ErrOutputCollision):
		return newError(KindOutputCollision, path, err)
	case errors.Is(err, tags.ErrUnsafeTag):
		return newError(KindUnsafeTag, path, err)
	default:
		return newError(KindUnknown, path, err)
	}
}
