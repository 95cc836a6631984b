package dataset

import (
	"errors"

	"github.com/ooddb/ooddb/internal/config"
	"github.com/ooddb/ooddb/internal/manifest"
)

var (
	// ErrInvalidArgument reports an unknown dataset identifier or bad input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedKey reports a manifest class key or class name that the
	// filename rules cannot interpret. It wraps ErrInvalidArgument.
	ErrMalformedKey error = &wrapped{msg: "malformed class key", parent: ErrInvalidArgument}
	// ErrNotFound is the manifest package's not-found error.
	ErrNotFound = manifest.ErrNotFound
	// ErrUnknownSplit reports that no manifest exists for (dataset, split, order).
	ErrUnknownSplit error = &wrapped{msg: "unknown split", parent: ErrNotFound}
	// ErrMissingEntry is returned by the default root provider when the config
	// file lacks the dataset.
	ErrMissingEntry = config.ErrMissingEntry
	// ErrRootDirMissing reports that the resolved root directory does not exist.
	ErrRootDirMissing = errors.New("root dir does not exist")
	// ErrIndexOutOfRange reports a Get index outside [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrImage reports an image that cannot be opened or decoded.
	ErrImage = errors.New("cannot load image")
)

// wrapped is a sentinel that also matches its parent under errors.Is.
type wrapped struct {
	msg    string
	parent error
}

func (e *wrapped) Error() string { return e.msg }
func (e *wrapped) Unwrap() error { return e.parent }
