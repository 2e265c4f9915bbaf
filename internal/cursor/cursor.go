// Package cursor persists how far a source directory has been downloaded.
//
// The cursor lives on the drive itself, next to the files it describes, in
// <source dir>/.auto-download/cursor.json:
//
//	{"sequential": {"lastProcessedFile": "DIR001/DP0003.jpg"}}
package cursor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/joe/auto-download/pkg/filesystem"
	"github.com/joe/auto-download/pkg/seqscan"
)

// Exported constants.
const (
	// BookkeepingDir holds the cursor inside a source directory. Scans must
	// ignore it.
	BookkeepingDir = ".auto-download"
	// FileName is the cursor file inside BookkeepingDir
	FileName = "cursor.json"
)

// Exported variables.
var (
	ErrEmptyCursor = errors.New("cursor has no last processed file")
)

// Cursor is the persisted progress of one source directory.
type Cursor struct {
	Sequential *Sequential `json:"sequential,omitempty"`
	// SavedAt is informational only.
	SavedAt time.Time `json:"savedAt,omitzero"`
}

// Sequential is the progress of the sequential-naming scanner.
type Sequential struct {
	// LastProcessedFile is relative to the source directory, '/'-separated.
	LastProcessedFile string `json:"lastProcessedFile"`
}

// At returns a cursor pointing at pos.
func At(pos seqscan.Position) Cursor {
	return Cursor{Sequential: &Sequential{LastProcessedFile: pos.String()}}
}

// Position returns the last processed file as a Position; a nil cursor has
// an empty one.
func (c *Cursor) Position() seqscan.Position {
	if c == nil || c.Sequential == nil {
		return nil
	}

	return seqscan.ParsePosition(c.Sequential.LastProcessedFile)
}

// Store reads and writes cursors through a FileSystem, so cursors on remote
// drives work the same way as local ones.
type Store struct {
	fs  filesystem.FileSystem
	now func() time.Time
}

// NewStore creates a Store on fsys.
func NewStore(fsys filesystem.FileSystem) *Store {
	return &Store{fs: fsys, now: time.Now}
}

// WithClock makes the store stamp cursors with now.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now

	return s
}

// Path returns the cursor file location for sourceDir.
func Path(sourceDir string) string {
	return sourceDir + "/" + BookkeepingDir + "/" + FileName
}

// Read loads the cursor of sourceDir. A directory that was never downloaded
// has no cursor: Read returns nil and no error.
func (s *Store) Read(sourceDir string) (*Cursor, error) {
	path := Path(sourceDir)

	file, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil //nolint:nilnil // no cursor yet is not an error
		}

		return nil, fmt.Errorf("failed to open cursor %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read cursor %s: %w", path, err)
	}

	var cursor Cursor

	err = json.Unmarshal(data, &cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cursor %s: %w", path, err)
	}

	return &cursor, nil
}

// Save writes the cursor of sourceDir, creating the bookkeeping directory
// when needed.
func (s *Store) Save(sourceDir string, cursor Cursor) error {
	if cursor.Sequential == nil || cursor.Sequential.LastProcessedFile == "" {
		return ErrEmptyCursor
	}

	cursor.SavedAt = s.now().UTC()

	data, err := json.MarshalIndent(cursor, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cursor: %w", err)
	}

	dir := sourceDir + "/" + BookkeepingDir

	err = s.fs.MkdirAll(dir, filesystem.DefaultDirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := Path(sourceDir)

	file, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cursor %s: %w", path, err)
	}

	_, err = file.Write(data)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write cursor %s: %w", path, err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("failed to close cursor %s: %w", path, err)
	}

	return nil
}
