// Package decode reads JSON request bodies into typed values.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBytes bounds JSON bodies when no explicit limit is given.
const DefaultMaxBytes = 1 << 20

// ErrEmptyBody is returned when the request carries no JSON document.
var ErrEmptyBody = errors.New("request body is empty")

// JSON decodes a single JSON document from r into T. Bodies larger than
// maxBytes, trailing data and malformed JSON are errors.
func JSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, error) {
	var result T

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(body)
	if err := dec.Decode(&result); err != nil {
		if errors.Is(err, io.EOF) {
			return result, ErrEmptyBody
		}
		return result, fmt.Errorf("invalid JSON body: %w", err)
	}

	if dec.More() {
		return result, fmt.Errorf("invalid JSON body: trailing data")
	}

	return result, nil
}
