package download

import (
	"context"
	"log/slog"

	"github.com/joe/auto-download/pkg/seqscan"
)

// maxLoggedNames bounds the entry names printed per scan decision.
const maxLoggedNames = 6

// MultiEmitter forwards every event to each of its emitters in order.
type MultiEmitter []EventEmitter

// Emit implements EventEmitter.
func (m MultiEmitter) Emit(event Event) {
	for _, emitter := range m {
		if emitter != nil {
			emitter.Emit(event)
		}
	}
}

// LogEmitter writes events as structured log records.
type LogEmitter struct {
	logger *slog.Logger
}

// NewLogEmitter creates a LogEmitter; a nil logger means slog.Default().
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogEmitter{logger: logger}
}

// Emit implements EventEmitter.
//
//nolint:cyclop,funlen // one case per event type
func (l *LogEmitter) Emit(event Event) {
	ctx := context.Background()

	switch e := event.(type) {
	case SourcesFound:
		l.logger.InfoContext(ctx, "found supported directories",
			"drive", e.Drive, "count", len(e.SourceDirs), "dirs", e.SourceDirs)
	case NoSourcesFound:
		l.logger.WarnContext(ctx, "could not find any supported directories: do nothing", "drive", e.Drive)
	case CursorMissing:
		l.logger.WarnContext(ctx, "cursor file not found: first time processing this directory",
			"source", e.SourceDir)
	case ScanStarted:
		l.logger.InfoContext(ctx, "scanning", "source", e.SourceDir, "after", e.From.String(), "mode", e.Mode.String())
	case ScanDecision:
		l.logScanDecision(ctx, e)
	case ScanComplete:
		if e.NewFiles == 0 {
			l.logger.InfoContext(ctx, "no new files found", "source", e.SourceDir)
			return
		}

		l.logger.InfoContext(ctx, "found new files", "source", e.SourceDir, "count", e.NewFiles)
	case FileCopyStarted:
		l.logger.DebugContext(ctx, "copy", "path", e.Path, "target", e.Target, "size", e.Size)
	case FileProgress:
		// too chatty for a log
	case FileCopied:
		l.logger.InfoContext(ctx, "copied", "path", e.Path, "target", e.Target,
			"bytes", e.Bytes, "duration", e.Duration)
	case FileSkipped:
		level := slog.LevelInfo
		if e.Reason == SkipTargetExists {
			level = slog.LevelWarn
		}

		l.logger.Log(ctx, level, "skipped", "path", e.Path, "target", e.Target, "reason", e.Reason.String())
	case CursorSaved:
		l.logger.InfoContext(ctx, "saved cursor position",
			"source", e.SourceDir, "position", e.Position.String(), "checkpoint", e.Checkpoint)
	case SourceComplete:
		r := e.Result
		l.logger.InfoContext(ctx, "directory done", "source", r.SourceDir,
			"new", r.NewFiles, "copied", r.Copied, "skipped", r.Skipped, "filtered", r.Filtered,
			"bytes", r.Bytes, "duration", r.Duration)
	case DownloadComplete:
		s := e.Summary
		l.logger.InfoContext(ctx, "download complete", "drive", s.Drive,
			"copied", s.Copied(), "skipped", s.Skipped(), "bytes", s.Bytes(), "duration", s.Duration())
	case ErrorOccurred:
		l.logger.ErrorContext(ctx, "download failed", "source", e.SourceDir, "phase", e.Phase, "error", e.Err)
	}
}

func (l *LogEmitter) logScanDecision(ctx context.Context, e ScanDecision) {
	lvl := e.Level

	switch lvl.Mode {
	case seqscan.ModeFull:
		l.logger.DebugContext(ctx, "directory not processed before",
			"dir", lvl.Dir, "entries", len(lvl.Unprocessed))
	case seqscan.ModeConsumed:
		l.logger.DebugContext(ctx, "directory fully processed before",
			"dir", lvl.Dir, "skipped", seqscan.SummarizeNames(lvl.Skipped, maxLoggedNames))
	default:
		l.logger.DebugContext(ctx, "directory partially processed before",
			"dir", lvl.Dir,
			"skipped", seqscan.SummarizeNames(lvl.Skipped, maxLoggedNames),
			"unprocessed", seqscan.SummarizeNames(lvl.Unprocessed, maxLoggedNames))
	}
}
