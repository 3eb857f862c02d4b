// Package archive writes playlist exports as ZIP streams.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// File is one entry to pack: the display name inside the archive and the
// on-disk path to read from.
type File struct {
	Name string
	Path string
}

// WritePlaylist streams the given files into a ZIP archive on w, preserving
// the given order. The audio bytes pass through unmodified.
func WritePlaylist(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)

	for _, f := range files {
		src, err := os.Open(f.Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Path, err)
		}

		entry, err := zw.Create(f.Name)
		if err != nil {
			src.Close()
			return fmt.Errorf("create archive entry %s: %w", f.Name, err)
		}
		if _, err := io.Copy(entry, src); err != nil {
			src.Close()
			return fmt.Errorf("write archive entry %s: %w", f.Name, err)
		}
		src.Close()
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}
