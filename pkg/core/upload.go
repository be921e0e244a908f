package core

import (
	"context"
	"mime"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/errors"
	storestatus "github.com/oneconcern/pkgsync/pkg/store/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Upload writes local files as attachments of a container object.
//
// Files are consumed from the end of the list. Each write must present the revision returned by the previous one:
// the first write uses the given revision. A failed write abandons the remaining files.
// The progress indicator of non-admin trees is reset once done, even after a failure.
func (u *Uploader) Upload(ctx context.Context, name string, admin bool, files []string, containerID, revision string) (err error) {
	l := u.l.With(logPackage(name), zap.String("container", containerID))
	tracker := u.newProgress(name, admin, len(files))
	defer func() {
		if e := tracker.Done(ctx); e != nil {
			err = errors.Append(err, status.ErrStoreIO.Wrap(e))
		}
	}()

	var skipped error
	rev := revision
	for remaining := len(files) - 1; remaining >= 0; remaining-- {
		if e := ctx.Err(); e != nil {
			return errors.Append(skipped, e)
		}

		file := files[remaining]
		if isIgnored(file) {
			continue
		}
		tracker.Update(ctx, len(files)-remaining)

		next, e := u.uploadStep(ctx, l, name, admin, file, containerID, rev, remaining)
		switch {
		case e == nil:
			rev = next
		case errors.Is(e, status.ErrStoreConflict), errors.Is(e, status.ErrStoreIO):
			l.Error("upload aborted", zap.String("file", file), zap.Int("remaining", remaining), logError(e))
			return errors.Append(skipped, e)
		default:
			l.Warn("file skipped", zap.String("file", file), logError(e))
			skipped = errors.Append(skipped, e)
			continue
		}

		if e := u.wait(ctx); e != nil {
			return errors.Append(skipped, e)
		}
	}
	return skipped
}

// uploadStep writes one file with the current revision, and returns the revision to use for the next write
func (u *Uploader) uploadStep(ctx context.Context, l *zap.Logger, name string, admin bool, file, containerID, rev string, remaining int) (string, error) {
	rec, err := u.mapper.Map(file, name, admin)
	if err != nil {
		return "", err
	}

	data, err := afero.ReadFile(u.fs, file)
	if err != nil {
		return "", status.ErrFilesystemIO.Wrap(err)
	}
	contentType := detectContentType(file, data)

	if sampled(remaining) {
		l.Info("upload", zap.Int("remaining", remaining), zap.String("file", file),
			zap.String("path", rec.Path), zap.String("contentType", contentType))
	}

	next, err := u.store.WriteAttachment(ctx, containerID, rec.Path, data, contentType, rev)
	if err != nil {
		if errors.Is(err, storestatus.ErrRevisionConflict) {
			return "", status.ErrStoreConflict.Wrap(err)
		}
		return "", status.ErrStoreIO.Wrap(err)
	}
	u.recordFile("upload", len(data))
	return next, nil
}

// sampled tells if the upload of a file is worth a log line, given how many files remain:
// every file when few remain, then every 10th, then every 50th.
func sampled(remaining int) bool {
	switch {
	case remaining > 100:
		return remaining%50 == 0
	case remaining > 20:
		return remaining%10 == 0
	default:
		return true
	}
}

// wait paces consecutive writes
func (u *Uploader) wait(ctx context.Context) error {
	if u.pace <= 0 {
		return nil
	}
	timer := time.NewTimer(u.pace)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// detectContentType resolves the content type from the file extension,
// then falls back to sniffing the content
func detectContentType(file string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(file)); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}
