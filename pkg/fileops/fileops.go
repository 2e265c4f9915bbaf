// Package fileops copies files between filesystems with progress reporting.
package fileops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/joe/auto-download/pkg/filesystem"
)

// Exported constants.
const (
	// BufferSize is the size of the buffer used for file copy operations (32KB)
	BufferSize = 32 * 1024
)

// Exported variables.
var (
	ErrCopyCancelled = errors.New("copy cancelled")
	ErrTargetExists  = errors.New("target already exists")
	ErrRenameLoop    = errors.New("rename points back at an existing target")
)

// CopyStats contains timing information about a copy operation
type CopyStats struct {
	BytesCopied int64
	ReadTime    time.Duration
	WriteTime   time.Duration
}

// ProgressCallback is called during file operations to report progress
type ProgressCallback func(bytesTransferred int64, totalBytes int64, currentFile string)

// Outcome says what Copy ended up doing.
type Outcome int

const (
	// OutcomeCopied means the content was written to the target.
	OutcomeCopied Outcome = iota
	// OutcomeSkipped means the target existed and was left alone.
	OutcomeSkipped
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// CopyResult describes one finished Copy.
type CopyResult struct {
	Source string
	// Target is where the content went; it differs from the requested
	// destination after a rename.
	Target  string
	Outcome Outcome
	Stats   CopyStats
	ModTime time.Time
}

// Action is the answer of an ExistsHandler.
type Action interface {
	isAction()
}

// ActionSkip leaves the existing target untouched.
type ActionSkip struct{}

// ActionOverwrite replaces the existing target.
type ActionOverwrite struct{}

// ActionRename copies to another target instead.
type ActionRename struct {
	To string
}

func (ActionSkip) isAction()      {}
func (ActionOverwrite) isAction() {}
func (ActionRename) isAction()    {}

// ExistsHandler decides what happens when the target of a copy already exists.
type ExistsHandler func(source, target string) (Action, error)

// SkipExisting never touches files already present at the destination.
//
//nolint:ireturn // handlers return the Action sum type
func SkipExisting(_, _ string) (Action, error) {
	return ActionSkip{}, nil
}

// Copier copies files from SourceFS to DestFS without ever clobbering a
// target unless OnTargetExists says so.
type Copier struct {
	SourceFS filesystem.FileSystem
	DestFS   filesystem.FileSystem

	// OnTargetExists is consulted when the target is already there. Without
	// one, an existing target fails the copy with ErrTargetExists.
	OnTargetExists ExistsHandler
	Progress       ProgressCallback

	createdDirs map[string]struct{}
}

// NewCopier creates a Copier between two filesystems that skips existing targets.
func NewCopier(sourceFS, destFS filesystem.FileSystem) *Copier {
	return &Copier{
		SourceFS:       sourceFS,
		DestFS:         destFS,
		OnTargetExists: SkipExisting,
	}
}

// Copy copies src to dst, creating the destination directory when needed
// and preserving the source modification time.
// A cancelled ctx aborts between chunks; the partial target is removed.
func (c *Copier) Copy(ctx context.Context, src, dst string) (*CopyResult, error) {
	return c.copy(ctx, src, dst, map[string]struct{}{})
}

func (c *Copier) copy(ctx context.Context, src, dst string, tried map[string]struct{}) (*CopyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCopyCancelled, err)
	}

	err := c.ensureDir(parentDir(dst))
	if err != nil {
		return nil, err
	}

	tried[dst] = struct{}{}

	target, err := c.DestFS.CreateNew(dst)
	if err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create destination file %s: %w", dst, err)
		}

		return c.resolveExisting(ctx, src, dst, tried)
	}

	return c.copyContent(ctx, src, dst, target)
}

func (c *Copier) resolveExisting(
	ctx context.Context, src, dst string, tried map[string]struct{},
) (*CopyResult, error) {
	if c.OnTargetExists == nil {
		return nil, fmt.Errorf("failed to copy %s: %w: %s", src, ErrTargetExists, dst)
	}

	action, err := c.OnTargetExists(src, dst)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve existing target %s: %w", dst, err)
	}

	switch action := action.(type) {
	case ActionOverwrite:
		target, err := c.DestFS.Create(dst)
		if err != nil {
			return nil, fmt.Errorf("failed to overwrite destination file %s: %w", dst, err)
		}

		return c.copyContent(ctx, src, dst, target)
	case ActionRename:
		if _, seen := tried[action.To]; seen {
			return nil, fmt.Errorf("failed to copy %s to %s: %w", src, action.To, ErrRenameLoop)
		}

		return c.copy(ctx, src, action.To, tried)
	default:
		info, err := c.SourceFS.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("failed to stat source file %s: %w", src, err)
		}

		return &CopyResult{Source: src, Target: dst, Outcome: OutcomeSkipped, ModTime: info.ModTime()}, nil
	}
}

// copyContent fills target, an already created destination file, from src.
func (c *Copier) copyContent(ctx context.Context, src, dst string, target filesystem.File) (*CopyResult, error) {
	result := &CopyResult{Source: src, Target: dst, Outcome: OutcomeCopied}

	// Track whether copy completed successfully
	copyCompleted := false

	defer func() {
		_ = target.Close()
		// If copy was cancelled or failed, delete the partial file
		if !copyCompleted {
			_ = c.DestFS.Remove(dst)
		}
	}()

	sourceFile, err := c.SourceFS.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	written, err := c.copyLoop(ctx, sourceFile, target, &result.Stats, sourceInfo.Size(), src)
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	result.Stats.BytesCopied = written

	// Close the file before setting modification time
	// This is important for network filesystems like SMB
	err = target.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	err = c.DestFS.Chtimes(dst, sourceInfo.ModTime(), sourceInfo.ModTime())
	if err != nil && !errors.Is(err, filesystem.ErrChtimesUnsupported) {
		return nil, fmt.Errorf("failed to preserve modification time for %s: %w", dst, err)
	}

	result.ModTime = sourceInfo.ModTime()
	copyCompleted = true

	return result, nil
}

// ensureDir creates dir once per Copier.
func (c *Copier) ensureDir(dir string) error {
	if dir == "" {
		return nil
	}

	if _, ok := c.createdDirs[dir]; ok {
		return nil
	}

	err := c.DestFS.MkdirAll(dir, filesystem.DefaultDirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", dir, err)
	}

	if c.createdDirs == nil {
		c.createdDirs = make(map[string]struct{})
	}

	c.createdDirs[dir] = struct{}{}

	return nil
}

// copyLoop performs the actual file copy with progress tracking and timing.
func (c *Copier) copyLoop(
	ctx context.Context, source io.Reader, dest io.Writer, stats *CopyStats, sourceSize int64, srcPath string,
) (int64, error) {
	var written int64

	buf := make([]byte, BufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("%w: %w", ErrCopyCancelled, err)
		}

		readStart := time.Now()
		nr, readErr := source.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		stats.ReadTime += time.Since(readStart)

		if nr > 0 {
			writeStart := time.Now()
			nw, err := dest.Write(buf[0:nr]) //nolint:varnamelen // nw is idiomatic for bytes written
			stats.WriteTime += time.Since(writeStart)

			if err != nil {
				return written, fmt.Errorf("failed to write to destination: %w", err)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			written += int64(nw)

			if c.Progress != nil {
				c.Progress(written, sourceSize, srcPath)
			}
		}

		if errors.Is(readErr, io.EOF) {
			return written, nil
		}

		if readErr != nil {
			return written, fmt.Errorf("failed to read from source: %w", readErr)
		}
	}
}

// parentDir returns everything before the last separator of path.
func parentDir(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i <= 0 {
		return path[:max(i, 0)]
	}

	return path[:i]
}
