package storage

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "go-image-dataset-analyzer/internal/errors"
	"go-image-dataset-analyzer/internal/logger"
)

// DirectoryScanner finds image files below a root directory.
//
// A file matches when its name ends with one of the extensions, compared as
// plain case-sensitive strings: with "jpg" configured, "bitmapjpg" matches
// and "PHOTO.JPG" does not.
//
// Symlinked directories are not followed, so a link cycle cannot make the
// walk run forever. Symlinked files still match like regular files.
type DirectoryScanner struct {
	extensions []string
}

// NewDirectoryScanner creates a scanner for the given filename suffixes
func NewDirectoryScanner(extensions []string) *DirectoryScanner {
	return &DirectoryScanner{extensions: append([]string(nil), extensions...)}
}

// Scan walks root with an explicit work list instead of recursion, so tree
// depth is not bounded by the call stack. The order of the result is
// unspecified. The first directory or entry that cannot be read aborts the
// scan with a scan error naming that path.
func (s *DirectoryScanner) Scan(root string) ([]string, error) {
	var images []string
	unvisited := []string{root}

	for len(unvisited) > 0 {
		dir := unvisited[len(unvisited)-1]
		unvisited = unvisited[:len(unvisited)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, apperrors.NewScanError(dir, err)
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			mode := entry.Type()

			if mode&os.ModeSymlink != 0 {
				info, err := os.Stat(path)
				if err != nil {
					return nil, apperrors.NewScanError(path, err)
				}
				if info.IsDir() {
					// not followed: a link back to an ancestor would never terminate
					logger.WithField("path", path).Debug("Skipping symlinked directory")
					continue
				}
				mode = info.Mode().Type()
			}

			switch {
			case mode.IsDir():
				unvisited = append(unvisited, path)
			case mode.IsRegular() && s.matches(entry.Name()):
				images = append(images, path)
			}
		}
	}

	return images, nil
}

func (s *DirectoryScanner) matches(name string) bool {
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
