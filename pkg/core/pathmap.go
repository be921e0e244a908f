package core

import (
	"path/filepath"
	"strings"

	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/model"
)

// PathMapper translates local file paths of installed packages into attachment paths.
//
// A local path looks like ".../<prefix>.<package>/www/css/site.css": everything up to the package
// directory marker is dropped, then the package name and the tree directory ("www" or "admin").
type PathMapper struct {
	Prefix string
}

func (m PathMapper) marker() string {
	return "/" + m.Prefix + "."
}

// Map a local file path to an attachment of the container holding the content of a package
func (m PathMapper) Map(localPath, name string, admin bool) (model.FileRecord, error) {
	p := filepath.ToSlash(localPath)
	marker := m.marker()

	pos := strings.Index(p, marker)
	if pos < 0 {
		// packages may be installed under a directory not matching the case of the prefix
		pos = indexFold(p, marker)
	}
	if pos < 0 {
		return model.FileRecord{}, status.ErrUnmappablePath.Wrap(unmappable(localPath))
	}

	segments := strings.Split(p[pos+len(marker):], "/")
	if len(segments) < 3 {
		return model.FileRecord{}, status.ErrUnmappablePath.Wrap(unmappable(localPath))
	}

	return model.FileRecord{
		Namespace: model.ContainerID(name, admin),
		Path:      strings.Join(segments[2:], "/"),
	}, nil
}

// LocalPath resolves an attachment path back to the local file it was uploaded from
func (m PathMapper) LocalPath(packageDir string, admin bool, attachmentPath string) string {
	return filepath.Join(packageDir, model.TreeDir(admin), filepath.FromSlash(attachmentPath))
}

// indexFold finds the first case-insensitive occurrence of substr in s
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

type unmappable string

func (u unmappable) Error() string {
	return string(u)
}
