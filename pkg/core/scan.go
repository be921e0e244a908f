package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ignoreMarkers are files which are never uploaded
var ignoreMarkers = []string{".gitignore", ".npmignore"}

func isIgnored(file string) bool {
	for _, suffix := range ignoreMarkers {
		if strings.HasSuffix(file, suffix) {
			return true
		}
	}
	return false
}

// Scan lists all regular files under a local root, depth first, in lexical order within each directory.
//
// A missing root yields no files. Unreadable directories are logged and skipped.
func (u *Uploader) Scan(root string) []string {
	exists, err := afero.DirExists(u.fs, root)
	if err != nil || !exists {
		return []string{}
	}

	files := make([]string, 0, 100)
	u.walk(root, &files)
	return files
}

func (u *Uploader) walk(dir string, files *[]string) {
	entries, err := afero.ReadDir(u.fs, dir)
	if err != nil {
		u.l.Warn("cannot read local directory", zap.String("dir", dir), logError(err))
		return
	}

	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			// follow links
			info, err = u.fs.Stat(p)
			if err != nil {
				u.l.Warn("cannot stat local file", zap.String("file", p), logError(err))
				continue
			}
		}

		if info.IsDir() {
			u.walk(p, files)
			continue
		}
		if isIgnored(entry.Name()) {
			continue
		}
		*files = append(*files, p)
	}
}
