// Copyright © 2018 One Concern

package store

import (
	"context"

	"github.com/oneconcern/pkgsync/pkg/model"
)

// Objects is the object store collaborator: schemaless documents addressed by ID,
// attachments stored under container objects, revision-based optimistic concurrency.
type Objects interface {
	// GetObject retrieves an object, with its current revision. It returns status.ErrNotFound when absent.
	GetObject(ctx context.Context, id string) (model.Object, error)

	// SetObject creates or replaces an object and returns its new revision
	SetObject(ctx context.Context, id string, obj model.Object) (string, error)

	// ListObjects returns all objects with an ID in the range [startKey, endKey), in key order
	ListObjects(ctx context.Context, startKey, endKey string) ([]model.Object, error)

	// ReadDir lists the immediate children of a directory of attachments stored under a namespace
	ReadDir(ctx context.Context, namespace, dir string) ([]model.DirEntry, error)

	// Unlink removes an attachment
	Unlink(ctx context.Context, namespace, path string) error

	// WriteAttachment stores bytes under a container object.
	//
	// The revision must be the one returned by the previous write to the same container,
	// otherwise the write is rejected with a *status.ConflictError. The new revision is returned.
	WriteAttachment(ctx context.Context, containerID, path string, data []byte, contentType, revision string) (string, error)

	// ReadAttachment retrieves an attachment
	ReadAttachment(ctx context.Context, containerID, path string) (model.Attachment, error)
}

// States is the state store collaborator
type States interface {
	// GetState retrieves a state value. It returns status.ErrNotFound when no value is recorded.
	GetState(ctx context.Context, id string) (model.State, error)

	// SetState records a state value
	SetState(ctx context.Context, id string, state model.State) error
}

// Store knows about both objects and states
type Store interface {
	Objects
	States

	String() string
	Close() error
}
