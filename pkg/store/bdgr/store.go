// Copyright © 2018 One Concern

// Package bdgr implements the store interfaces on top of a local badger database.
package bdgr

import (
	"context"
	"sync"

	"github.com/dgraph-io/badger/v3"
	jsoniter "github.com/json-iterator/go"

	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/oneconcern/pkgsync/pkg/store"
	"github.com/oneconcern/pkgsync/pkg/store/status"
)

var _ store.Store = &Store{}

var (
	objPref = [4]byte{'o', 'b', 'j', ':'}
	attPref = [4]byte{'a', 't', 't', ':'}
	staPref = [4]byte{'s', 't', 'a', ':'}
)

const pathSep = 0

type objectRecord struct {
	Gen    int          `json:"gen"`
	Rev    string       `json:"rev"`
	Object model.Object `json:"object"`
}

type attachmentRecord struct {
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data"`
}

func badgerRewriteError(err error) error {
	switch err {
	case nil:
		return nil
	case badger.ErrKeyNotFound:
		return status.ErrNotFound
	case badger.ErrEmptyKey:
		return status.ErrInvalidID
	case badger.ErrDBClosed:
		return status.ErrClosed
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}

// Store backed by badger.
//
// Writes are serialized, so revision checks and revision bumps happen atomically.
type Store struct {
	path  string
	db    *badger.DB
	wmx   sync.Mutex
	close sync.Once
}

// Open a badger store. An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	return &Store{path: path, db: db}, nil
}

func (s *Store) String() string {
	if s.path == "" {
		return "badger(in-memory)"
	}
	return "badger(" + s.path + ")"
}

// Close the underlying database
func (s *Store) Close() error {
	var err error
	s.close.Do(func() {
		err = s.db.Close()
	})
	return err
}

func objectKey(id string) []byte {
	return append(objPref[:], store.UnsafeStringToBytes(id)...)
}

func stateKey(id string) []byte {
	return append(staPref[:], store.UnsafeStringToBytes(id)...)
}

func attachmentPrefix(namespace string) []byte {
	k := append(attPref[:], store.UnsafeStringToBytes(namespace)...)
	return append(k, pathSep)
}

func attachmentKey(namespace, p string) []byte {
	return append(attachmentPrefix(namespace), store.UnsafeStringToBytes(p)...)
}

func getJSON(txn *badger.Txn, key []byte, target interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		return badgerRewriteError(err)
	}
	return item.Value(func(val []byte) error {
		if e := jsoniter.Unmarshal(val, target); e != nil {
			return status.ErrStorageAPI.Wrap(e)
		}
		return nil
	})
}

func setJSON(txn *badger.Txn, key []byte, value interface{}) error {
	data, err := jsoniter.Marshal(value)
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return badgerRewriteError(txn.Set(key, data))
}

func (s *Store) update(fn func(*badger.Txn) error) error {
	s.wmx.Lock()
	defer s.wmx.Unlock()
	err := s.db.Update(fn)
	if err == badger.ErrDBClosed {
		return status.ErrClosed
	}
	return err
}

func (s *Store) view(fn func(*badger.Txn) error) error {
	err := s.db.View(fn)
	if err == badger.ErrDBClosed {
		return status.ErrClosed
	}
	return err
}

func (r objectRecord) view() model.Object {
	obj := r.Object
	if obj == nil {
		obj = model.Object{}
	}
	obj.SetRevision(r.Rev)
	return obj
}

// GetObject by ID
func (s *Store) GetObject(_ context.Context, id string) (model.Object, error) {
	if id == "" {
		return nil, status.ErrInvalidID
	}
	var rec objectRecord
	if err := s.view(func(txn *badger.Txn) error {
		return getJSON(txn, objectKey(id), &rec)
	}); err != nil {
		return nil, err
	}
	return rec.view(), nil
}

// SetObject creates or replaces an object
func (s *Store) SetObject(_ context.Context, id string, obj model.Object) (string, error) {
	if id == "" {
		return "", status.ErrInvalidID
	}
	var rev string
	err := s.update(func(txn *badger.Txn) error {
		var current objectRecord
		if err := getJSON(txn, objectKey(id), &current); err != nil && err != status.ErrNotFound {
			return err
		}
		next := objectRecord{Object: obj.WithoutRevision()}
		next.Object.SetID(id)
		next.Gen, next.Rev = store.NextRevision(current.Gen)
		rev = next.Rev
		return setJSON(txn, objectKey(id), next)
	})
	if err != nil {
		return "", err
	}
	return rev, nil
}

// ListObjects in the range [startKey, endKey)
func (s *Store) ListObjects(_ context.Context, startKey, endKey string) ([]model.Object, error) {
	result := make([]model.Object, 0, 10)
	end := objectKey(endKey)
	err := s.view(func(txn *badger.Txn) error {
		iter := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         objPref[:],
		})
		defer iter.Close()

		for iter.Seek(objectKey(startKey)); iter.ValidForPrefix(objPref[:]); iter.Next() {
			item := iter.Item()
			if endKey != "" && string(item.Key()) >= string(end) {
				break
			}
			var rec objectRecord
			if err := item.Value(func(val []byte) error {
				return jsoniter.Unmarshal(val, &rec)
			}); err != nil {
				return status.ErrStorageAPI.Wrap(err)
			}
			result = append(result, rec.view())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReadDir lists the immediate children of a directory
func (s *Store) ReadDir(_ context.Context, namespace, dir string) ([]model.DirEntry, error) {
	c := store.NewDirCollector(dir)
	prefix := attachmentPrefix(namespace)
	scan := append(append([]byte{}, prefix...), store.UnsafeStringToBytes(c.Prefix())...)
	hasContainer := false

	err := s.view(func(txn *badger.Txn) error {
		if _, err := txn.Get(objectKey(namespace)); err == nil {
			hasContainer = true
		} else if err != badger.ErrKeyNotFound {
			return badgerRewriteError(err)
		}

		iter := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         scan,
		})
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			var rec attachmentRecord
			if err := item.Value(func(val []byte) error {
				return jsoniter.Unmarshal(val, &rec)
			}); err != nil {
				return status.ErrStorageAPI.Wrap(err)
			}
			c.Add(string(item.Key()[len(prefix):]), rec.Size)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !c.Found() && (c.Prefix() != "" || !hasContainer) {
		return nil, status.ErrNotFound
	}
	return c.Entries(), nil
}

func bump(txn *badger.Txn, containerID string) (string, error) {
	var rec objectRecord
	if err := getJSON(txn, objectKey(containerID), &rec); err != nil {
		return "", err
	}
	rec.Gen, rec.Rev = store.NextRevision(rec.Gen)
	return rec.Rev, setJSON(txn, objectKey(containerID), rec)
}

// Unlink an attachment
func (s *Store) Unlink(_ context.Context, namespace, p string) error {
	key := store.CleanPath(p)
	if key == "" {
		return status.ErrInvalidID
	}
	return s.update(func(txn *badger.Txn) error {
		k := attachmentKey(namespace, key)
		if _, err := txn.Get(k); err != nil {
			return badgerRewriteError(err)
		}
		if err := txn.Delete(k); err != nil {
			return badgerRewriteError(err)
		}
		if _, err := bump(txn, namespace); err != nil && err != status.ErrNotFound {
			return err
		}
		return nil
	})
}

// WriteAttachment stores data under a container, provided the revision is current
func (s *Store) WriteAttachment(_ context.Context, containerID, p string, data []byte, contentType, revision string) (string, error) {
	key := store.CleanPath(p)
	if key == "" || containerID == "" {
		return "", status.ErrInvalidID
	}
	var rev string
	err := s.update(func(txn *badger.Txn) error {
		var container objectRecord
		if err := getJSON(txn, objectKey(containerID), &container); err != nil {
			return err
		}
		if container.Rev != revision {
			return &status.ConflictError{ID: containerID, ExpectedRevision: revision, CurrentRevision: container.Rev}
		}
		if err := setJSON(txn, attachmentKey(containerID, key), attachmentRecord{
			Size:        int64(len(data)),
			ContentType: contentType,
			Data:        data,
		}); err != nil {
			return err
		}
		var err error
		rev, err = bump(txn, containerID)
		return err
	})
	if err != nil {
		return "", err
	}
	return rev, nil
}

// ReadAttachment retrieves an attachment
func (s *Store) ReadAttachment(_ context.Context, containerID, p string) (model.Attachment, error) {
	var rec attachmentRecord
	if err := s.view(func(txn *badger.Txn) error {
		return getJSON(txn, attachmentKey(containerID, store.CleanPath(p)), &rec)
	}); err != nil {
		return model.Attachment{}, err
	}
	return model.Attachment{Data: rec.Data, ContentType: rec.ContentType}, nil
}

// GetState by ID
func (s *Store) GetState(_ context.Context, id string) (model.State, error) {
	var st model.State
	if err := s.view(func(txn *badger.Txn) error {
		return getJSON(txn, stateKey(id), &st)
	}); err != nil {
		return model.State{}, err
	}
	return st, nil
}

// SetState records a state value
func (s *Store) SetState(_ context.Context, id string, state model.State) error {
	if id == "" {
		return status.ErrInvalidID
	}
	return s.update(func(txn *badger.Txn) error {
		return setJSON(txn, stateKey(id), state)
	})
}
