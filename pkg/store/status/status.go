// Copyright © 2018 One Concern

// Package status declares error constants returned by
// implementations of the Store interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/store and one
// of its implementions.
package status

import "github.com/oneconcern/pkgsync/pkg/errors"

var (
	// Sentinel errors returned by implementations of the interface defined by store

	// ErrNotFound indicates that the fetched object, attachment or state does not exist
	ErrNotFound = errors.New("not found")

	// ErrRevisionConflict indicates that a write used a revision token which is not the current one
	ErrRevisionConflict = errors.New("revision conflict")

	// ErrInvalidID indicates that an object ID or an attachment path is empty or malformed
	ErrInvalidID = errors.New("invalid object id or path")

	// ErrStorageAPI indicates any other error from the storage backend
	ErrStorageAPI = errors.New("storage API error")

	// ErrClosed indicates that the store has been closed
	ErrClosed = errors.New("store closed")
)

// ConflictError details a revision conflict on a container object
type ConflictError struct {
	ID               string
	ExpectedRevision string
	CurrentRevision  string
}

func (e *ConflictError) Error() string {
	return "revision conflict on " + e.ID + ": expected " + e.ExpectedRevision + ", current is " + e.CurrentRevision
}

// Is matches the ErrRevisionConflict sentinel
func (e *ConflictError) Is(target error) bool {
	return target == ErrRevisionConflict
}
