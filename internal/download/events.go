package download

import (
	"time"

	"github.com/joe/auto-download/internal/config"
	"github.com/joe/auto-download/pkg/seqscan"
)

// Event is the interface implemented by all download events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// Drive events

// SourcesFound is emitted when the configured source directories present on
// a drive are known.
type SourcesFound struct {
	Drive      string
	SourceDirs []string
}

func (SourcesFound) isEvent() {}

// NoSourcesFound is emitted when none of the configured source directories
// exist on the drive.
type NoSourcesFound struct {
	Drive string
}

func (NoSourcesFound) isEvent() {}

// DownloadComplete is emitted when every source directory of a drive is done.
type DownloadComplete struct {
	Summary *Summary
}

func (DownloadComplete) isEvent() {}

// Scan phase events

// CursorMissing is emitted for a source directory that was never downloaded.
type CursorMissing struct {
	SourceDir string
}

func (CursorMissing) isEvent() {}

// ScanStarted is emitted before a source directory is scanned.
type ScanStarted struct {
	SourceDir string
	From      seqscan.Position
	Mode      config.ScanMode
}

func (ScanStarted) isEvent() {}

// ScanDecision reports how the scanner treated one directory level.
type ScanDecision struct {
	SourceDir string
	Level     seqscan.LevelPlanned
}

func (ScanDecision) isEvent() {}

// ScanComplete is emitted when the list of new files is known. In streaming
// mode that is after the last copy.
type ScanComplete struct {
	SourceDir string
	NewFiles  int
}

func (ScanComplete) isEvent() {}

// Copy phase events

// FileCopyStarted is emitted when a file copy begins. Total is zero when the
// number of new files is not known yet.
type FileCopyStarted struct {
	SourceDir string
	Path      string
	Target    string
	Index     int
	Total     int
	Size      int64
}

func (FileCopyStarted) isEvent() {}

// FileProgress is emitted while the bytes of a file are being copied.
type FileProgress struct {
	Path        string
	BytesCopied int64
	BytesTotal  int64
}

func (FileProgress) isEvent() {}

// FileCopied is emitted when a file copy finishes.
type FileCopied struct {
	SourceDir string
	Path      string
	Target    string
	Bytes     int64
	Duration  time.Duration
}

func (FileCopied) isEvent() {}

// SkipReason says why a new file was not copied.
type SkipReason int

const (
	// SkipTargetExists means the destination already had the file.
	SkipTargetExists SkipReason = iota
	// SkipFiltered means the include pattern did not match.
	SkipFiltered
	// SkipDryRun means nothing is copied in a dry run.
	SkipDryRun
)

// String returns the string representation of SkipReason
func (r SkipReason) String() string {
	switch r {
	case SkipTargetExists:
		return "target exists"
	case SkipFiltered:
		return "filtered"
	case SkipDryRun:
		return "dry run"
	default:
		return "unknown"
	}
}

// FileSkipped is emitted for a new file that was not copied.
type FileSkipped struct {
	SourceDir string
	Path      string
	Target    string
	Reason    SkipReason
}

func (FileSkipped) isEvent() {}

// CursorSaved is emitted after the cursor of a source directory is written.
// Checkpoint is set when the download stopped early.
type CursorSaved struct {
	SourceDir  string
	Position   seqscan.Position
	Checkpoint bool
}

func (CursorSaved) isEvent() {}

// SourceComplete is emitted when a source directory is done.
type SourceComplete struct {
	Result *DirResult
}

func (SourceComplete) isEvent() {}

// Error events

// ErrorOccurred is emitted when an error occurs during any phase.
type ErrorOccurred struct {
	SourceDir string
	Phase     string
	Err       error
}

func (ErrorOccurred) isEvent() {}

// levelForwarder turns scanner events into ScanDecision events.
type levelForwarder struct {
	sourceDir string
	emit      func(Event)
}

func (f levelForwarder) Emit(event seqscan.Event) {
	if planned, ok := event.(seqscan.LevelPlanned); ok {
		f.emit(ScanDecision{SourceDir: f.sourceDir, Level: planned})
	}
}
