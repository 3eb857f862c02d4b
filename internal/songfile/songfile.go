// Package songfile locates audio files on disk and derives serving metadata
// from them. Metadata may record a filename in either Unicode normalization
// form while the filesystem stores the other, so lookups try the recorded
// form first and then both normalizations.
package songfile

import (
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrFileNotFound signals that no normalization form of the path exists.
var ErrFileNotFound = errors.New("file not found")

// defaultContentType is served when the extension is unknown.
const defaultContentType = "audio/mpeg"

// Resolve joins rootDir with relPath and returns the first existing
// candidate: the path as given, its NFC form, then its NFD form. The lookup
// is pure and must be repeated per request — the filesystem is the source of
// truth and may be renamed out-of-band.
func Resolve(rootDir, relPath string) (string, error) {
	for _, candidate := range []string{relPath, norm.NFC.String(relPath), norm.NFD.String(relPath)} {
		full := filepath.Join(rootDir, candidate)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return full, nil
		}
	}
	return "", ErrFileNotFound
}

// ContentType maps a file extension to a MIME type, defaulting to audio/mpeg.
func ContentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return defaultContentType
}

// SanitizeFilename replaces characters that are invalid in filenames on
// common filesystems. Characters are replaced, not stripped, so distinct
// names stay distinct.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, name)
}
