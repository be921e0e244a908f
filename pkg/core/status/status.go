// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/pkgsync/pkg/errors"
)

var (
	// ErrDescriptor indicates that the package descriptor is missing or cannot be parsed
	ErrDescriptor = errors.New("invalid package descriptor")

	// ErrPackageNotFound indicates that the object describing an installed package does not exist
	ErrPackageNotFound = errors.New("package object not found")

	// ErrStoreConflict indicates that an attachment write was rejected because of a stale revision.
	// The remaining upload queue is abandoned.
	ErrStoreConflict = errors.New("store revision conflict")

	// ErrStoreIO indicates a failure to read, write or list from the store
	ErrStoreIO = errors.New("store I/O error")

	// ErrFilesystemIO indicates a failure to read from the local filesystem
	ErrFilesystemIO = errors.New("filesystem I/O error")

	// ErrRemoteFetch indicates that a remote source could not be retrieved
	ErrRemoteFetch = errors.New("cannot fetch remote source")

	// ErrUnmappablePath indicates that a local file path cannot be translated into an attachment path
	ErrUnmappablePath = errors.New("cannot map local path to an attachment path")

	// ErrInvalidTarget indicates that an upload target does not designate a namespace and a path
	ErrInvalidTarget = errors.New("invalid upload target")
)
