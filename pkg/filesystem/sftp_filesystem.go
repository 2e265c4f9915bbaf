package filesystem

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/sftp"
)

// sftpClient is the subset of *sftp.Client used by SFTPFileSystem.
type sftpClient interface {
	Chtimes(path string, atime, mtime time.Time) error
	Create(path string) (*sftp.File, error)
	MkdirAll(path string) error
	Open(path string) (*sftp.File, error)
	OpenFile(path string, f int) (*sftp.File, error)
	ReadDir(path string) ([]os.FileInfo, error)
	Remove(path string) error
	Stat(path string) (os.FileInfo, error)
}

// SFTPFileSystem implements FileSystem for SFTP connections.
// All operations go through one client sequentially: a drive is read by one
// reader at a time.
type SFTPFileSystem struct {
	client sftpClient
}

// NewSFTPFileSystem creates a new SFTP filesystem using an established connection.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return NewSFTPFileSystemFromClient(conn.Client())
}

// NewSFTPFileSystemFromClient creates a new SFTP filesystem over an existing client.
func NewSFTPFileSystemFromClient(client *sftp.Client) *SFTPFileSystem {
	return &SFTPFileSystem{client: client}
}

// Chtimes changes the access and modification times of a remote file.
func (fs *SFTPFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	err := fs.client.Chtimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for remote file %s: %w", path, err)
	}

	return nil
}

// Create creates a remote file for writing.
func (fs *SFTPFileSystem) Create(path string) (File, error) {
	file, err := fs.client.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file %s: %w", path, err)
	}

	return file, nil
}

// CreateNew creates a remote file for writing only if it does not exist yet.
func (fs *SFTPFileSystem) CreateNew(path string) (File, error) {
	file, err := fs.client.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL)
	if err != nil {
		// Servers report O_EXCL collisions as a generic failure; tell the
		// caller the file exists when it does.
		if _, statErr := fs.client.Stat(path); statErr == nil {
			return nil, fmt.Errorf("failed to create remote file %s: %w", path, os.ErrExist)
		}

		return nil, fmt.Errorf("failed to create remote file %s: %w", path, err)
	}

	return file, nil
}

// MkdirAll creates a remote directory and all necessary parents.
func (fs *SFTPFileSystem) MkdirAll(path string, _ os.FileMode) error {
	err := fs.client.MkdirAll(path)
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", path, err)
	}

	return nil
}

// Open opens a remote file for reading.
func (fs *SFTPFileSystem) Open(path string) (File, error) {
	file, err := fs.client.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", path, err)
	}

	return file, nil
}

// ReadDir lists a remote directory.
func (fs *SFTPFileSystem) ReadDir(path string) ([]DirEntry, error) {
	infos, err := fs.client.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", path, err)
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

// Remove removes a remote file or empty directory.
func (fs *SFTPFileSystem) Remove(path string) error {
	err := fs.client.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove remote file %s: %w", path, err)
	}

	return nil
}

// Stat returns file information for a remote file.
func (fs *SFTPFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := fs.client.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", path, err)
	}

	return info, nil
}
