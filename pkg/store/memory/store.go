// Package memory provides an in-memory implementation of the store interfaces,
// suitable for tests and dry runs.
package memory

import (
	"context"
	"sync"

	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/oneconcern/pkgsync/pkg/store"
	"github.com/oneconcern/pkgsync/pkg/store/status"
)

var _ store.Store = &Store{}

type record struct {
	gen int
	rev string
	obj model.Object
}

// Store keeps objects in an immutable radix tree, so ranges are cheaply iterated in key order
type Store struct {
	mu          sync.RWMutex
	objects     *iradix.Tree
	attachments map[string]map[string]model.Attachment
	states      map[string]model.State
	closed      bool
}

// New empty memory store
func New() *Store {
	return &Store{
		objects:     iradix.New(),
		attachments: make(map[string]map[string]model.Attachment),
		states:      make(map[string]model.State),
	}
}

func (s *Store) String() string {
	return "memory"
}

// Close the store. Any further operation fails.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) get(id string) (*record, bool) {
	v, ok := s.objects.Get(store.UnsafeStringToBytes(id))
	if !ok {
		return nil, false
	}
	return v.(*record), true
}

func (s *Store) put(id string, r *record) {
	s.objects, _, _ = s.objects.Insert([]byte(id), r)
}

func (r *record) view() model.Object {
	obj := r.obj.Clone()
	obj.SetRevision(r.rev)
	return obj
}

// GetObject by ID
func (s *Store) GetObject(_ context.Context, id string) (model.Object, error) {
	if id == "" {
		return nil, status.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, status.ErrClosed
	}

	r, ok := s.get(id)
	if !ok {
		return nil, status.ErrNotFound
	}
	return r.view(), nil
}

// SetObject creates or replaces an object
func (s *Store) SetObject(_ context.Context, id string, obj model.Object) (string, error) {
	if id == "" {
		return "", status.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", status.ErrClosed
	}

	gen := 0
	if r, ok := s.get(id); ok {
		gen = r.gen
	}
	next := obj.WithoutRevision().Clone()
	next.SetID(id)
	r := &record{obj: next}
	r.gen, r.rev = store.NextRevision(gen)
	s.put(id, r)
	return r.rev, nil
}

// ListObjects in the range [startKey, endKey)
func (s *Store) ListObjects(_ context.Context, startKey, endKey string) ([]model.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, status.ErrClosed
	}

	it := s.objects.Root().Iterator()
	it.SeekLowerBound([]byte(startKey))
	result := make([]model.Object, 0, 10)
	for key, v, ok := it.Next(); ok; key, v, ok = it.Next() {
		if endKey != "" && string(key) >= endKey {
			break
		}
		result = append(result, v.(*record).view())
	}
	return result, nil
}

// ReadDir lists the immediate children of a directory
func (s *Store) ReadDir(_ context.Context, namespace, dir string) ([]model.DirEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, status.ErrClosed
	}

	files, hasFiles := s.attachments[namespace]
	_, hasContainer := s.get(namespace)
	if !hasFiles && !hasContainer {
		return nil, status.ErrNotFound
	}

	c := store.NewDirCollector(dir)
	for p, att := range files {
		c.Add(p, int64(len(att.Data)))
	}
	if !c.Found() && c.Prefix() != "" {
		return nil, status.ErrNotFound
	}
	return c.Entries(), nil
}

// Unlink an attachment
func (s *Store) Unlink(_ context.Context, namespace, p string) error {
	key := store.CleanPath(p)
	if key == "" {
		return status.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return status.ErrClosed
	}

	files := s.attachments[namespace]
	if _, ok := files[key]; !ok {
		return status.ErrNotFound
	}
	delete(files, key)
	if r, ok := s.get(namespace); ok {
		bumped := &record{obj: r.obj}
		bumped.gen, bumped.rev = store.NextRevision(r.gen)
		s.put(namespace, bumped)
	}
	return nil
}

// WriteAttachment stores data under a container, provided the revision is current
func (s *Store) WriteAttachment(_ context.Context, containerID, p string, data []byte, contentType, revision string) (string, error) {
	key := store.CleanPath(p)
	if key == "" || containerID == "" {
		return "", status.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", status.ErrClosed
	}

	r, ok := s.get(containerID)
	if !ok {
		return "", status.ErrNotFound
	}
	if revision != r.rev {
		return "", &status.ConflictError{ID: containerID, ExpectedRevision: revision, CurrentRevision: r.rev}
	}

	files, ok := s.attachments[containerID]
	if !ok {
		files = make(map[string]model.Attachment)
		s.attachments[containerID] = files
	}
	files[key] = model.Attachment{Data: append([]byte(nil), data...), ContentType: contentType}

	bumped := &record{obj: r.obj}
	bumped.gen, bumped.rev = store.NextRevision(r.gen)
	s.put(containerID, bumped)
	return bumped.rev, nil
}

// ReadAttachment retrieves an attachment
func (s *Store) ReadAttachment(_ context.Context, containerID, p string) (model.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Attachment{}, status.ErrClosed
	}

	att, ok := s.attachments[containerID][store.CleanPath(p)]
	if !ok {
		return model.Attachment{}, status.ErrNotFound
	}
	return model.Attachment{Data: append([]byte(nil), att.Data...), ContentType: att.ContentType}, nil
}

// GetState by ID
func (s *Store) GetState(_ context.Context, id string) (model.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.State{}, status.ErrClosed
	}

	st, ok := s.states[id]
	if !ok {
		return model.State{}, status.ErrNotFound
	}
	return st, nil
}

// SetState records a state value
func (s *Store) SetState(_ context.Context, id string, state model.State) error {
	if id == "" {
		return status.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return status.ErrClosed
	}

	state.Val = model.CopyValue(state.Val)
	s.states[id] = state
	return nil
}
