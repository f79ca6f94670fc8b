package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly     = errors.New("repository is in read-only mode")
	ErrNotFound     = errors.New("slot not found")
	ErrDeckNotFound = errors.New("deck not found")
	ErrCorruptStore = errors.New("persisted store is not valid JSON")
	ErrImport       = errors.New("import failed")
)

// ImportKind tells why an import was rejected.
type ImportKind int

const (
	// ImportMalformed means the input is not valid JSON.
	ImportMalformed ImportKind = iota + 1
	// ImportWrongShape means the input is valid JSON but not an object of decks.
	ImportWrongShape
)

func (k ImportKind) String() string {
	switch k {
	case ImportMalformed:
		return "malformed"
	case ImportWrongShape:
		return "wrong shape"
	default:
		return "unknown"
	}
}

// ImportError is returned by Import. The store is left untouched.
type ImportError struct {
	Kind ImportKind
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import (%s): %v", e.Kind, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// Is matches ErrImport so callers can test with errors.Is.
func (e *ImportError) Is(target error) bool { return target == ErrImport }
