package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies export failures
type ErrorKind int

const (
	KindMetadataFetch ErrorKind = iota + 1
	KindBinaryFetch
	KindStorageWrite
	KindInvalidProjectState
	KindUnknownFormat
)

var (
	ErrMetadataFetch       = errors.New("asset metadata fetch failed")
	ErrBinaryFetch         = errors.New("asset binary fetch failed")
	ErrStorageWrite        = errors.New("storage write failed")
	ErrInvalidProjectState = errors.New("invalid project state")
	ErrUnknownFormat       = errors.New("unknown export format")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMetadataFetch:
		return ErrMetadataFetch
	case KindBinaryFetch:
		return ErrBinaryFetch
	case KindStorageWrite:
		return ErrStorageWrite
	case KindInvalidProjectState:
		return ErrInvalidProjectState
	case KindUnknownFormat:
		return ErrUnknownFormat
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindMetadataFetch:
		return "metadata_fetch"
	case KindBinaryFetch:
		return "binary_fetch"
	case KindStorageWrite:
		return "storage_write"
	case KindInvalidProjectState:
		return "invalid_project_state"
	case KindUnknownFormat:
		return "unknown_format"
	default:
		return "unknown"
	}
}

// ExportError is the single failure an export surfaces to its caller
type ExportError struct {
	Kind  ErrorKind
	Stage Stage
	Path  string // file or container involved, if any
	Err   error
}

// NewExportError wraps err with its kind and the stage it happened in
func NewExportError(kind ErrorKind, stage Stage, path string, err error) *ExportError {
	return &ExportError{Kind: kind, Stage: stage, Path: path, Err: err}
}

func (e *ExportError) Error() string {
	msg := "export failed"
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *ExportError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the kind of an export error, or 0 if err is not one
func KindOf(err error) ErrorKind {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return 0
}
