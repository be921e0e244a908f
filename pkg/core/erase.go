package core

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/errors"
	storestatus "github.com/oneconcern/pkgsync/pkg/store/status"
	"go.uber.org/zap"
)

// erased accumulates the content found under a namespace, deduplicated by path
type erased struct {
	mx    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

func (e *erased) addFile(p string) {
	e.mx.Lock()
	e.files[p] = struct{}{}
	e.mx.Unlock()
}

// addDir reports if the directory had not been seen yet
func (e *erased) addDir(p string) bool {
	e.mx.Lock()
	defer e.mx.Unlock()
	if _, seen := e.dirs[p]; seen {
		return false
	}
	e.dirs[p] = struct{}{}
	return true
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Erase lists all the files and directories previously stored under a namespace.
//
// When not enabled, nothing is listed. The stored tree is explored level by level, listing the directories
// of a level concurrently. A directory which cannot be listed is logged and contributes no entries.
func (u *Uploader) Erase(ctx context.Context, enabled bool, namespace string) ([]string, []string) {
	if !enabled {
		return []string{}, []string{}
	}

	l := u.l.With(zap.String("namespace", namespace))
	found := &erased{
		files: make(map[string]struct{}),
		dirs:  make(map[string]struct{}),
	}

	level := []string{""}
	for len(level) > 0 {
		var (
			next []string
			nmx  sync.Mutex
		)
		g := newGroup(u.concurrency)
		for _, dir := range level {
			dir := dir
			g.Go(ctx, func(ctx context.Context) error {
				entries, err := u.store.ReadDir(ctx, namespace, dir)
				if err != nil {
					if dir == "" && errors.Is(err, storestatus.ErrNotFound) {
						// nothing stored yet
						return nil
					}
					l.Error("cannot read stored directory", zap.String("dir", dir), logError(err))
					return status.ErrStoreIO.Wrap(err)
				}

				for _, entry := range entries {
					if entry.Name == "." || entry.Name == ".." || entry.Name == "" {
						continue
					}
					p := path.Join(dir, entry.Name)
					if !entry.IsDir {
						found.addFile(p)
						continue
					}
					if found.addDir(p) {
						nmx.Lock()
						next = append(next, p)
						nmx.Unlock()
					}
				}
				return nil
			})
		}
		// listing failures are logged: the eraser only reports what it found
		_ = g.Wait()
		level = next
	}

	return sortedKeys(found.files), sortedKeys(found.dirs)
}

// EraseFiles deletes stored files one at a time. A failed deletion is logged and the next file is processed.
func (u *Uploader) EraseFiles(ctx context.Context, namespace string, files []string) error {
	var result error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return errors.Append(result, err)
		}
		if err := u.store.Unlink(ctx, namespace, file); err != nil {
			u.l.Error("cannot delete stored file", zap.String("namespace", namespace), zap.String("file", file), logError(err))
			result = errors.Append(result, status.ErrStoreIO.Wrap(err))
			continue
		}
		u.recordFile("erase", 0)
	}
	return result
}
