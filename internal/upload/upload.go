// Package upload stores single-file multipart uploads on disk and hands the
// stored file's metadata to the handler through the request context.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bjaus/route"
)

// formMemory is the default part of a multipart form kept in memory before
// parts spill to temporary files.
const formMemory = 8 << 20

// File describes one stored upload.
type File struct {
	Field        string `json:"fieldname"`
	OriginalName string `json:"originalname"`
	Filename     string `json:"filename"`
	Destination  string `json:"destination"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	MIMEType     string `json:"mimetype"`
}

type fileKey struct{}

// FromContext returns the file stored by Single, or nil when the request
// carried none.
func FromContext(r *http.Request) *File {
	f, _ := r.Context().Value(fileKey{}).(*File)
	return f
}

// Disk writes uploads into Dir under random names. MaxSize caps a single
// file; zero means unlimited. Memory bounds how much of the form is held in
// memory while parsing; zero means 8MB.
type Disk struct {
	Dir     string
	MaxSize int64
	Memory  int64
}

func (d Disk) memory() int64 {
	if d.Memory > 0 {
		return d.Memory
	}
	return formMemory
}

// Single returns middleware that stores the file sent in field. A request
// without that file passes through untouched so the handler can decide how
// to answer.
func (d Disk) Single(field string) route.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d.MaxSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, d.MaxSize+d.memory())
			}

			err := r.ParseMultipartForm(d.memory())
			// The server only cleans up the form of the request it created,
			// and earlier middleware may have replaced r.
			defer func() {
				if r.MultipartForm != nil {
					_ = r.MultipartForm.RemoveAll()
				}
			}()
			if errors.Is(err, http.ErrNotMultipart) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				route.WriteError(w, formError(err))
				return
			}

			fu, err := route.ParseFileUpload(r, field)
			switch {
			case errors.Is(err, http.ErrMissingFile):
				next.ServeHTTP(w, r)
				return
			case err != nil:
				route.WriteError(w, formError(err))
				return
			}

			if d.MaxSize > 0 && fu.Size > d.MaxSize {
				route.WriteError(w, route.Errorf(http.StatusRequestEntityTooLarge,
					"file %q exceeds %d bytes", fu.Filename, d.MaxSize))
				return
			}

			stored, err := d.save(fu)
			if err != nil {
				route.WriteError(w, route.Errorf(http.StatusInternalServerError, "store upload: %v", err))
				return
			}

			ctx := context.WithValue(r.Context(), fileKey{}, stored)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (d Disk) save(fu *route.FileUpload) (*File, error) {
	if err := os.MkdirAll(d.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create %s: %w", d.Dir, err)
	}

	src, err := fu.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := uuid.NewString()
	path := filepath.Join(d.Dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, err
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return &File{
		Field:        fu.Field,
		OriginalName: fu.Filename,
		Filename:     name,
		Destination:  d.Dir,
		Path:         path,
		Size:         n,
		MIMEType:     fu.ContentType(),
	}, nil
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return route.Errorf(http.StatusRequestEntityTooLarge, "upload exceeds %d bytes", maxErr.Limit)
	}
	return route.Errorf(http.StatusBadRequest, "invalid multipart form: %v", err)
}
