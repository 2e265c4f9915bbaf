// Package filesystem provides an abstraction layer for filesystem operations
// so the scanner, the cursor store and the copier can run against a local
// disk, a remote SFTP host or an in-memory tree.
package filesystem

import (
	"fmt"
	"io"
	"os"
	"time"
)

// EntryKind classifies a directory entry.
type EntryKind int

const (
	// KindOther is anything that is neither a regular file nor a directory
	// (symlinks, devices, sockets...).
	KindOther EntryKind = iota
	// KindFile is a regular file.
	KindFile
	// KindDir is a directory.
	KindDir
)

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// KindOf maps a file mode to an EntryKind.
func KindOf(mode os.FileMode) EntryKind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// DirEntry is one immediate child of a directory.
type DirEntry struct {
	Name string
	Kind EntryKind
}

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool { return e.Kind == KindDir }

// IsFile reports whether the entry is a regular file.
func (e DirEntry) IsFile() bool { return e.Kind == KindFile }

// File is an interface that abstracts file operations.
// This allows us to work with local, remote and in-memory files.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Stat() (os.FileInfo, error)
}

// FileSystem is an interface that abstracts filesystem operations.
type FileSystem interface {
	// ReadDir lists the immediate entries of a directory, in no particular order.
	// A missing directory yields an error matching os.ErrNotExist.
	ReadDir(path string) ([]DirEntry, error)

	Open(path string) (File, error)
	Create(path string) (File, error)
	// CreateNew creates a file for writing, failing with an error matching
	// os.ErrExist when the file is already there.
	CreateNew(path string) (File, error)
	MkdirAll(path string, perm os.FileMode) error
	Chtimes(path string, atime, mtime time.Time) error
	Remove(path string) error
	Stat(path string) (os.FileInfo, error)
}

// RealFileSystem implements FileSystem using actual os functions.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Chtimes changes the access and modification times of a file.
func (fs *RealFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	err := os.Chtimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for %s: %w", path, err)
	}

	return nil
}

// Create creates a file for writing, truncating an existing one.
func (fs *RealFileSystem) Create(path string) (File, error) {
	file, err := os.Create(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return file, nil
}

// CreateNew creates a file for writing only if it does not exist yet.
func (fs *RealFileSystem) CreateNew(path string) (File, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, DefaultFilePermissions) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return file, nil
}

// MkdirAll creates a directory and all necessary parents.
func (fs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// Open opens a file for reading.
func (fs *RealFileSystem) Open(path string) (File, error) {
	file, err := os.Open(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return file, nil
}

// ReadDir lists the entries of a local directory.
func (fs *RealFileSystem) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	result := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, DirEntry{
			Name: entry.Name(),
			Kind: KindOf(entry.Type()),
		})
	}

	return result, nil
}

// Remove removes a file or empty directory.
func (fs *RealFileSystem) Remove(path string) error {
	err := os.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

// Stat returns file information.
func (fs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}

// Exported constants.
const (
	// DefaultDirPermissions is the permission mode for created directories
	DefaultDirPermissions = 0o750
	// DefaultFilePermissions is the permission mode for created files
	DefaultFilePermissions = 0o644
)
