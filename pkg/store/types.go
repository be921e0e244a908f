package store

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/segmentio/ksuid"
)

// NextRevision builds the revision token following some generation.
//
// Tokens are opaque to clients: the generation prefix only helps humans read them.
func NextRevision(generation int) (int, string) {
	next := generation + 1
	return next, strconv.Itoa(next) + "-" + ksuid.New().String()
}

// CleanPath normalizes an attachment path or directory: no leading or trailing slash, no dot segments.
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// DirCollector accumulates the immediate children of a directory from a flat list of attachment paths
type DirCollector struct {
	prefix  string
	entries map[string]model.DirEntry
}

// NewDirCollector prepares to collect the children of dir
func NewDirCollector(dir string) *DirCollector {
	dir = CleanPath(dir)
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	return &DirCollector{
		prefix:  prefix,
		entries: make(map[string]model.DirEntry),
	}
}

// Prefix all collected paths must start with
func (c *DirCollector) Prefix() string {
	return c.prefix
}

// Add an attachment path. Paths outside of the directory are ignored.
func (c *DirCollector) Add(attachmentPath string, size int64) {
	if !strings.HasPrefix(attachmentPath, c.prefix) {
		return
	}
	rest := attachmentPath[len(c.prefix):]
	if rest == "" {
		return
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		name := rest[:i]
		c.entries[name] = model.DirEntry{Name: name, IsDir: true}
		return
	}
	if existing, ok := c.entries[rest]; ok && existing.IsDir {
		return
	}
	c.entries[rest] = model.DirEntry{Name: rest, Size: size}
}

// Entries collected so far, sorted by name
func (c *DirCollector) Entries() []model.DirEntry {
	entries := make([]model.DirEntry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Found tells if the directory has any content
func (c *DirCollector) Found() bool {
	return len(c.entries) > 0
}
