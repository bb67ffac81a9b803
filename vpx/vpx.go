package vpx

import (
	"os"

	"go.uber.org/zap"

	"github.com/surtarso/vpxinfo/errors"
)

// File is an open VPX container. It is safe for concurrent reads.
type File struct {
	f    *os.File
	c    *compound
	path string
}

// Open opens and parses the container structure of a .vpx file.
// The returned File must be closed by the caller.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.OpenFailed(path, err)
	}

	c, err := parseCompound(f)
	if err != nil {
		f.Close()
		return nil, errors.OpenFailed(path, err)
	}

	Logger().Debug("container opened",
		zap.String("path", path),
		zap.Int("sector_size", c.sectorSize),
		zap.Int("dir_entries", len(c.dir)))

	return &File{f: f, c: c, path: path}, nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	return f.f.Close()
}

// Path returns the path the container was opened from.
func (f *File) Path() string {
	return f.path
}
