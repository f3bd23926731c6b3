// Package filename maps logical upload file names to the physical names
// stored on disk and derives content-addressed names for branding assets.
package filename

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

const (
	separator = "_"
	fallback  = "file"
)

// Sanitize reduces a client supplied name to a single path element.
// Names without separators are returned as is.
func Sanitize(original string) string {
	s := strings.ReplaceAll(original, "\\", "/")
	s = strings.ReplaceAll(s, "\x00", "")
	s = path.Base(s)

	if s == "." || s == ".." || s == "/" || strings.TrimSpace(s) == "" {
		return fallback
	}

	return s
}

// Prefix is the common prefix of every physical file of an upload.
func Prefix(uploadID string) string { return uploadID + separator }

// Encode: "<uploadID>_<sanitized name>"
func Encode(uploadID, original string) string {
	return Prefix(uploadID) + Sanitize(original)
}

// Decode strips the upload prefix. Names that do not carry it are returned unchanged.
func Decode(physical, uploadID string) string {
	if rest, ok := strings.CutPrefix(physical, Prefix(uploadID)); ok {
		return rest
	}
	return physical
}

// ContentHash returns the hex encoded SHA-256 of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
