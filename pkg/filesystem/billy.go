package filesystem

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// Exported variables.
var (
	ErrChtimesUnsupported = errors.New("filesystem does not support changing file times")
)

// BillyFileSystem implements FileSystem on top of a go-billy filesystem.
// It is mostly used with memfs to build throwaway trees in tests.
type BillyFileSystem struct {
	fs billy.Filesystem
}

// NewBillyFileSystem wraps the given go-billy filesystem.
func NewBillyFileSystem(fsys billy.Filesystem) *BillyFileSystem {
	return &BillyFileSystem{fs: fsys}
}

// NewInMemoryFileSystem creates an empty in-memory filesystem.
func NewInMemoryFileSystem() *BillyFileSystem {
	return NewBillyFileSystem(memfs.New())
}

// Chtimes changes the access and modification times of a file, if the
// underlying filesystem supports it.
func (b *BillyFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	changer, ok := b.fs.(billy.Change)
	if !ok {
		return fmt.Errorf("failed to change times for %s: %w", path, ErrChtimesUnsupported)
	}

	err := changer.Chtimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for %s: %w", path, err)
	}

	return nil
}

// Create creates a file for writing, truncating an existing one.
func (b *BillyFileSystem) Create(path string) (File, error) {
	file, err := b.fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return &billyFile{File: file, fs: b.fs}, nil
}

// CreateNew creates a file for writing only if it does not exist yet.
func (b *BillyFileSystem) CreateNew(path string) (File, error) {
	file, err := b.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, DefaultFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return &billyFile{File: file, fs: b.fs}, nil
}

// MkdirAll creates a directory and all necessary parents.
func (b *BillyFileSystem) MkdirAll(path string, perm os.FileMode) error {
	err := b.fs.MkdirAll(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// Open opens a file for reading.
func (b *BillyFileSystem) Open(path string) (File, error) {
	file, err := b.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return &billyFile{File: file, fs: b.fs}, nil
}

// Raw returns the wrapped go-billy filesystem.
//
//nolint:ireturn // exposing the adapter target is the point
func (b *BillyFileSystem) Raw() billy.Filesystem {
	return b.fs
}

// ReadDir lists the entries of a directory.
func (b *BillyFileSystem) ReadDir(path string) ([]DirEntry, error) {
	infos, err := b.fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	result := make([]DirEntry, 0, len(infos))
	for _, info := range infos {
		result = append(result, DirEntry{
			Name: info.Name(),
			Kind: KindOf(info.Mode()),
		})
	}

	return result, nil
}

// Remove removes a file or empty directory.
func (b *BillyFileSystem) Remove(path string) error {
	err := b.fs.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

// Stat returns file information.
func (b *BillyFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}

// billyFile adds Stat to billy.File, which only knows its name.
type billyFile struct {
	billy.File

	fs billy.Filesystem
}

func (f *billyFile) Stat() (os.FileInfo, error) {
	return f.fs.Stat(f.Name())
}
