package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/oneconcern/pkgsync/pkg/fetch"
	"github.com/oneconcern/pkgsync/pkg/model"
	storestatus "github.com/oneconcern/pkgsync/pkg/store/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const defaultDocument = "index.html"

// ResolveTarget splits an upload target into a namespace and an attachment path.
//
// A target ending with a slash designates a directory: the base name of the source is appended,
// or "index.html" when the source name has no extension.
func ResolveTarget(source, target string) (model.FileRecord, error) {
	target = strings.ReplaceAll(target, "\\", "/")
	source = strings.ReplaceAll(source, "\\", "/")
	target = strings.TrimPrefix(target, "/")

	if strings.HasSuffix(target, "/") {
		name := source[strings.LastIndex(source, "/")+1:]
		if i := strings.IndexByte(name, '?'); i >= 0 {
			name = name[:i]
		}
		if !strings.Contains(name, ".") {
			name = defaultDocument
		}
		target += name
	}

	parts := strings.SplitN(target, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return model.FileRecord{}, status.ErrInvalidTarget.Wrap(fmt.Errorf("%q", target))
	}
	return model.FileRecord{Namespace: parts[0], Path: parts[1]}, nil
}

// UploadFile writes a single local file or remote resource as an attachment.
// It returns the uploaded location, as "<namespace>/<path>".
func (u *Uploader) UploadFile(ctx context.Context, source, target string) (location string, err error) {
	defer u.track(time.Now(), "UploadFile")(&err)

	rec, err := ResolveTarget(source, target)
	if err != nil {
		return "", err
	}
	location = rec.Namespace + "/" + rec.Path
	l := u.l.With(zap.String("source", source), zap.String("target", location))

	data, err := u.readSource(ctx, source)
	if err != nil {
		l.Error("cannot read source", logError(err))
		return location, err
	}

	container, err := u.store.GetObject(ctx, rec.Namespace)
	switch {
	case err == nil:
	case errors.Is(err, storestatus.ErrNotFound):
		container, err = u.createContainer(ctx, rec.Namespace, strings.HasSuffix(rec.Namespace, "."+model.TreeDir(true)))
		if err != nil {
			return location, err
		}
	default:
		return location, status.ErrStoreIO.Wrap(err)
	}

	if _, err := u.store.WriteAttachment(ctx, rec.Namespace, rec.Path, data, detectContentType(rec.Path, data), container.Revision()); err != nil {
		l.Error("cannot write file", logError(err))
		if errors.Is(err, storestatus.ErrRevisionConflict) {
			return location, status.ErrStoreConflict.Wrap(err)
		}
		return location, status.ErrStoreIO.Wrap(err)
	}

	u.recordFile("upload", len(data))
	l.Info("file uploaded")
	return location, nil
}

func (u *Uploader) readSource(ctx context.Context, source string) ([]byte, error) {
	if fetch.IsRemote(source) {
		data, err := u.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, status.ErrRemoteFetch.Wrap(err)
		}
		return data, nil
	}

	data, err := afero.ReadFile(u.fs, source)
	if err != nil {
		return nil, status.ErrFilesystemIO.Wrap(err)
	}
	return data, nil
}
