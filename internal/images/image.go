package images

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
)

// Upload is an image file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// NewUpload sniffs data and rejects anything that is not an allowed image.
func NewUpload(filename string, data []byte, maxSize int64) (*Upload, error) {
	if len(data) == 0 {
		return nil, ErrMissingImage
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, ErrTooLarge
	}

	ct := http.DetectContentType(data)
	if !slices.Contains(allowedTypes, ct) {
		return nil, ErrInvalidImage
	}

	return &Upload{Filename: filename, ContentType: ct, Data: data}, nil
}

// FromForm reads the multipart file field from a parsed request. A missing
// field yields ErrMissingImage.
func FromForm(r *http.Request, field string, maxSize int64) (*Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrMissingImage
		}
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()

	if maxSize > 0 && header.Size > maxSize {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}

	return NewUpload(header.Filename, data, maxSize)
}

// OptionalFromForm is FromForm where an absent field is not an error.
func OptionalFromForm(r *http.Request, field string, maxSize int64) (*Upload, error) {
	up, err := FromForm(r, field, maxSize)
	if errors.Is(err, ErrMissingImage) {
		return nil, nil
	}
	return up, err
}
