package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Naming selects how upload filenames become storage keys.
type Naming string

const (
	// NamingContent keys blobs by the SHA-256 of their bytes plus the
	// upload's extension. Identical uploads share one blob.
	NamingContent Naming = "content"
	// NamingOriginal keys blobs by the sanitized upload filename. A later
	// upload with the same name replaces the earlier blob.
	NamingOriginal Naming = "original"
)

func (n Naming) Validate() error {
	switch n {
	case NamingContent, NamingOriginal:
		return nil
	default:
		return fmt.Errorf("invalid naming: %s (must be content or original)", n)
	}
}

// Key derives the storage key for an upload named filename holding data.
func (n Naming) Key(filename string, data []byte) (string, error) {
	switch n {
	case NamingContent, "":
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]) + strings.ToLower(path.Ext(SanitizeFilename(filename))), nil
	case NamingOriginal:
		name := SanitizeFilename(filename)
		if name == "" {
			return "", ErrInvalidKey
		}
		return name, nil
	default:
		return "", fmt.Errorf("invalid naming: %s", n)
	}
}

// SanitizeFilename reduces a client-supplied filename to its base name with
// path separators and special characters replaced by underscores.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return strings.TrimLeft(b.String(), ".")
}
