// Package download copies the files a camera added to a drive since the last
// download into per-day target directories.
package download

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joe/auto-download/internal/config"
	"github.com/joe/auto-download/internal/cursor"
	"github.com/joe/auto-download/pkg/fileops"
	"github.com/joe/auto-download/pkg/filesystem"
	"github.com/joe/auto-download/pkg/seqscan"
)

// Phases reported by ErrorOccurred.
const (
	PhaseSources = "sources"
	PhaseCursor  = "cursor"
	PhaseScan    = "scan"
	PhaseCopy    = "copy"
)

// FileSystemFactory opens the filesystem behind a local path or sftp:// URL.
// It returns the filesystem, the path to use on it and a closer that is
// never nil. filesystem.CreateFileSystem is the default.
type FileSystemFactory func(path string) (filesystem.FileSystem, string, func(), error)

// Option configures a Downloader.
type Option func(*Downloader)

// WithEventEmitter reports progress to emitter.
func WithEventEmitter(emitter EventEmitter) Option {
	return func(d *Downloader) {
		d.emitter = emitter
	}
}

// WithMode picks how the source directories are scanned.
func WithMode(mode config.ScanMode) Option {
	return func(d *Downloader) {
		d.mode = mode
	}
}

// WithDryRun plans the download without copying or saving cursors.
func WithDryRun(dryRun bool) Option {
	return func(d *Downloader) {
		d.dryRun = dryRun
	}
}

// WithDriveFactory replaces how the drive is opened.
func WithDriveFactory(factory FileSystemFactory) Option {
	return func(d *Downloader) {
		d.openDrive = factory
	}
}

// WithDestinationFactory replaces how target roots are opened.
func WithDestinationFactory(factory FileSystemFactory) Option {
	return func(d *Downloader) {
		d.openDestination = factory
	}
}

// WithExistsHandler replaces fileops.SkipExisting.
func WithExistsHandler(handler fileops.ExistsHandler) Option {
	return func(d *Downloader) {
		d.onTargetExists = handler
	}
}

// WithClock injects the time source used for durations and cursor stamps.
func WithClock(clock TimeProvider) Option {
	return func(d *Downloader) {
		d.clock = clock
	}
}

// Downloader downloads the configured source directories of a drive, one
// directory and one file at a time.
type Downloader struct {
	cfg             config.DriveConfig
	emitter         EventEmitter
	mode            config.ScanMode
	dryRun          bool
	openDrive       FileSystemFactory
	openDestination FileSystemFactory
	onTargetExists  fileops.ExistsHandler
	clock           TimeProvider
}

// NewDownloader creates a Downloader for cfg.
func NewDownloader(cfg config.DriveConfig, opts ...Option) *Downloader {
	d := &Downloader{
		cfg:             cfg,
		mode:            config.ModeEager,
		openDrive:       filesystem.CreateFileSystem,
		openDestination: filesystem.CreateFileSystem,
		onTargetExists:  fileops.SkipExisting,
		clock:           RealTimeProvider{},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// DirResult is the outcome of one source directory.
type DirResult struct {
	SourceDir string
	// From is the cursor position before the download, To after it. To
	// equals From when nothing was saved.
	From     seqscan.Position
	To       seqscan.Position
	NewFiles int
	Copied   int
	Skipped  int
	Filtered int
	// Planned counts the files a dry run would have copied.
	Planned     int
	Bytes       int64
	CursorSaved bool
	Duration    time.Duration
}

// Summary is the outcome of a whole drive.
type Summary struct {
	Drive    string
	Dirs     []*DirResult
	Started  time.Time
	Finished time.Time
}

// Copied returns the number of files copied from all directories.
func (s *Summary) Copied() int {
	return s.sum(func(r *DirResult) int { return r.Copied })
}

// Skipped returns the number of files whose target already existed.
func (s *Summary) Skipped() int {
	return s.sum(func(r *DirResult) int { return r.Skipped })
}

// Planned returns the number of files a dry run would copy.
func (s *Summary) Planned() int {
	return s.sum(func(r *DirResult) int { return r.Planned })
}

// Bytes returns the number of bytes copied.
func (s *Summary) Bytes() int64 {
	var total int64
	for _, r := range s.Dirs {
		total += r.Bytes
	}

	return total
}

// Duration returns how long the download took.
func (s *Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

func (s *Summary) sum(field func(*DirResult) int) int {
	total := 0
	for _, r := range s.Dirs {
		total += field(r)
	}

	return total
}

// DownloadAll downloads every configured source directory found on the drive
// at drivePath. The first failing directory stops the download; the summary
// then holds the directories handled so far.
func (d *Downloader) DownloadAll(ctx context.Context, drivePath string) (*Summary, error) {
	summary := &Summary{Drive: drivePath, Started: d.clock.Now()}

	drive, root, closeDrive, err := d.openDrive(drivePath)
	if err != nil {
		d.emit(ErrorOccurred{Phase: PhaseSources, Err: err})
		return summary, fmt.Errorf("failed to open drive %s: %w", drivePath, err)
	}

	defer closeDrive()

	sources, err := FindSupportedSourceDirs(drive, root, d.cfg)
	if err != nil {
		d.emit(ErrorOccurred{Phase: PhaseSources, Err: err})
		return summary, err
	}

	if len(sources) == 0 {
		d.emit(NoSourcesFound{Drive: drivePath})
		summary.Finished = d.clock.Now()

		return summary, nil
	}

	paths := make([]string, len(sources))
	for i, source := range sources {
		paths[i] = source.Path
	}

	d.emit(SourcesFound{Drive: drivePath, SourceDirs: paths})

	for _, source := range sources {
		result, err := d.DownloadDir(ctx, drive, source)
		if result != nil {
			summary.Dirs = append(summary.Dirs, result)
		}

		if err != nil {
			summary.Finished = d.clock.Now()
			return summary, err
		}
	}

	summary.Finished = d.clock.Now()
	d.emit(DownloadComplete{Summary: summary})

	return summary, nil
}

// DownloadDir downloads one source directory of drive: it reads the cursor,
// scans for files after it, copies them and saves the new cursor.
//
// The returned result is non-nil whenever scanning started, even on error.
func (d *Downloader) DownloadDir(ctx context.Context, drive filesystem.FileSystem, source Source) (*DirResult, error) {
	started := d.clock.Now()

	store := cursor.NewStore(drive).WithClock(d.clock.Now)

	saved, err := store.Read(source.Path)
	if err != nil {
		return nil, d.fail(source, PhaseCursor, err)
	}

	if saved == nil {
		d.emit(CursorMissing{SourceDir: source.Path})
	}

	filter, err := NewGlobFilter(source.Config.Include)
	if err != nil {
		return nil, d.fail(source, PhaseSources, err)
	}

	dest, destRoot, closeDest, err := d.openDestination(source.Config.Target.Root)
	if err != nil {
		return nil, d.fail(source, PhaseCopy,
			fmt.Errorf("failed to open target %s: %w", source.Config.Target.Root, err))
	}

	defer closeDest()

	copier := fileops.NewCopier(drive, dest)
	copier.OnTargetExists = d.onTargetExists

	run := &dirRun{
		Downloader: d,
		ctx:        ctx,
		source:     source,
		drive:      drive,
		store:      store,
		filter:     filter,
		placement:  GroupByDate{Root: destRoot, Layout: source.Config.Target.Layout()},
		copier:     copier,
		result: &DirResult{
			SourceDir: source.Path,
			From:      saved.Position(),
			To:        saved.Position(),
		},
	}

	scanner := seqscan.NewScanner(drive, seqscan.WithEventEmitter(levelForwarder{sourceDir: source.Path, emit: d.emit}))
	req := seqscan.Request{
		SourceDir:     source.Path,
		LastProcessed: saved.Position(),
		IgnoredDirs:   []string{cursor.BookkeepingDir},
	}

	d.emit(ScanStarted{SourceDir: source.Path, From: req.LastProcessed, Mode: d.mode})

	if d.mode == config.ModeStreaming {
		err = run.streaming(scanner.Iterate(req))
	} else {
		err = run.eager(scanner, req)
	}

	run.result.Duration = d.clock.Now().Sub(started)

	if err != nil {
		return run.result, err
	}

	d.emit(SourceComplete{Result: run.result})

	return run.result, nil
}

func (d *Downloader) emit(event Event) {
	if d.emitter != nil {
		d.emitter.Emit(event)
	}
}

func (d *Downloader) fail(source Source, phase string, err error) error {
	d.emit(ErrorOccurred{SourceDir: source.Path, Phase: phase, Err: err})
	return err
}

// dirRun is the state of one DownloadDir call.
type dirRun struct {
	*Downloader

	ctx       context.Context //nolint:containedctx // scoped to a single DownloadDir call
	source    Source
	drive     filesystem.FileSystem
	store     *cursor.Store
	filter    FileFilter
	placement Placement
	copier    *fileops.Copier
	result    *DirResult
}

// eager lists every new file before copying any; the cursor moves only when
// all of them were handled.
func (r *dirRun) eager(scanner *seqscan.Scanner, req seqscan.Request) error {
	files, err := scanner.FindNewFiles(req)
	if err != nil {
		return r.fail(r.source, PhaseScan, err)
	}

	r.result.NewFiles = len(files)
	r.emit(ScanComplete{SourceDir: r.source.Path, NewFiles: len(files)})

	for i, path := range files {
		err := r.handle(path, i+1, len(files))
		if err != nil {
			return r.fail(r.source, PhaseCopy, err)
		}
	}

	if len(files) == 0 {
		return nil
	}

	return r.saveCursor(files[len(files)-1], false)
}

// streaming copies files while the scan is still running; when it stops
// early the cursor is checkpointed at the last handled file.
func (r *dirRun) streaming(it *seqscan.Iterator) error {
	last := ""

	for {
		path, ok := it.Next()
		if !ok {
			break
		}

		r.result.NewFiles++

		err := r.handle(path, r.result.NewFiles, 0)
		if err != nil {
			return r.stopEarly(last, PhaseCopy, err)
		}

		last = path
	}

	if err := it.Err(); err != nil {
		return r.stopEarly(last, PhaseScan, err)
	}

	r.emit(ScanComplete{SourceDir: r.source.Path, NewFiles: r.result.NewFiles})

	if last == "" {
		return nil
	}

	return r.saveCursor(last, false)
}

func (r *dirRun) stopEarly(last, phase string, cause error) error {
	if last != "" {
		if err := r.saveCursor(last, true); err != nil {
			return errors.Join(r.fail(r.source, phase, cause), err)
		}
	}

	return r.fail(r.source, phase, cause)
}

// handle copies, skips or plans one new file.
func (r *dirRun) handle(path string, index, total int) error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", fileops.ErrCopyCancelled, err)
	}

	relative := seqscan.RelativePosition(r.source.Path, path).String()

	if !r.filter.ShouldInclude(relative) {
		r.result.Filtered++
		r.emit(FileSkipped{SourceDir: r.source.Path, Path: path, Reason: SkipFiltered})

		return nil
	}

	info, err := r.drive.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	target := r.placement.TargetPath(path, info.ModTime())

	if r.dryRun {
		r.result.Planned++
		r.emit(FileSkipped{SourceDir: r.source.Path, Path: path, Target: target, Reason: SkipDryRun})

		return nil
	}

	r.emit(FileCopyStarted{
		SourceDir: r.source.Path,
		Path:      path,
		Target:    target,
		Index:     index,
		Total:     total,
		Size:      info.Size(),
	})

	r.copier.Progress = func(copied, size int64, current string) {
		r.emit(FileProgress{Path: current, BytesCopied: copied, BytesTotal: size})
	}

	started := r.clock.Now()

	copied, err := r.copier.Copy(r.ctx, path, target)
	if err != nil {
		return err
	}

	if copied.Outcome == fileops.OutcomeSkipped {
		r.result.Skipped++
		r.emit(FileSkipped{SourceDir: r.source.Path, Path: path, Target: copied.Target, Reason: SkipTargetExists})

		return nil
	}

	r.result.Copied++
	r.result.Bytes += copied.Stats.BytesCopied
	r.emit(FileCopied{
		SourceDir: r.source.Path,
		Path:      path,
		Target:    copied.Target,
		Bytes:     copied.Stats.BytesCopied,
		Duration:  r.clock.Now().Sub(started),
	})

	return nil
}

func (r *dirRun) saveCursor(lastPath string, checkpoint bool) error {
	if r.dryRun {
		return nil
	}

	pos := seqscan.RelativePosition(r.source.Path, lastPath)

	err := r.store.Save(r.source.Path, cursor.At(pos))
	if err != nil {
		return r.fail(r.source, PhaseCursor, err)
	}

	r.result.To = pos
	r.result.CursorSaved = true
	r.emit(CursorSaved{SourceDir: r.source.Path, Position: pos, Checkpoint: checkpoint})

	return nil
}
