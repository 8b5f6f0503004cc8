package filereader

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// FSFile is a File backed by a path on an afero filesystem.
type FSFile struct {
	FS   afero.Fs
	Path string
}

// OpenFS returns a File for path on fs.
func OpenFS(fs afero.Fs, path string) *FSFile {
	return &FSFile{FS: fs, Path: path}
}

// OpenOS returns a File for path on the local filesystem.
func OpenOS(path string) *FSFile {
	return OpenFS(afero.NewOsFs(), path)
}

// Name returns the base name of the path.
func (f *FSFile) Name() string {
	return filepath.Base(f.Path)
}

// Open opens the file for reading.
func (f *FSFile) Open() (io.ReadCloser, error) {
	return f.FS.Open(f.Path)
}

// Size returns the file size in bytes.
func (f *FSFile) Size() (int64, error) {
	info, err := f.FS.Stat(f.Path)
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// MemFile is an in-memory File.
type MemFile struct {
	FileName string
	Data     []byte
}

// NewMemFile returns a File holding data under name.
func NewMemFile(name string, data []byte) *MemFile {
	return &MemFile{FileName: name, Data: data}
}

// Name returns the file name.
func (f *MemFile) Name() string { return f.FileName }

// Open returns a reader over the in-memory content.
func (f *MemFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// Size returns the content length.
func (f *MemFile) Size() (int64, error) { return int64(len(f.Data)), nil }

// Sizer is implemented by files that can report their size without reading.
type Sizer interface {
	Size() (int64, error)
}
