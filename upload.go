package route

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// FileParam documents one multipart upload field.
type FileParam struct {
	Field       string `json:"field"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// FileUpload holds a parsed file from a multipart form upload.
type FileUpload struct {
	Field    string
	Filename string
	Size     int64
	Header   *multipart.FileHeader
	file     multipart.File
}

// Open returns a reader for the uploaded file contents.
func (f *FileUpload) Open() (io.ReadCloser, error) {
	if f.file != nil {
		return f.file, nil
	}
	if f.Header == nil {
		return nil, errors.New("no file header")
	}
	file, err := f.Header.Open()
	if err != nil {
		return nil, err
	}
	f.file = file
	return file, nil
}

// ContentType returns the part's declared media type.
func (f *FileUpload) ContentType() string {
	if f.Header == nil {
		return ""
	}
	return f.Header.Header.Get("Content-Type")
}

// ParseFileUpload extracts a file upload from a multipart form. A request
// without the field returns an error wrapping http.ErrMissingFile.
func ParseFileUpload(r *http.Request, fieldName string) (*FileUpload, error) {
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		return nil, fmt.Errorf("form file %q: %w", fieldName, err)
	}
	return &FileUpload{
		Field:    fieldName,
		Filename: header.Filename,
		Size:     header.Size,
		Header:   header,
		file:     file,
	}, nil
}
