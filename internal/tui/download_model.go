// Package tui is the terminal front-end of auto-download.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/auto-download/internal/download"
	"github.com/joe/auto-download/internal/tui/shared"
	"github.com/joe/auto-download/pkg/fileops"
)

// Exported constants.
const (
	// ActivityLogCapacity is how many activity lines are kept
	ActivityLogCapacity = 200
	// ActivityLogVisible is how many activity lines are shown
	ActivityLogVisible = 8
)

// RunFunc runs a download, reporting to emitter.
type RunFunc func(ctx context.Context, emitter download.EventEmitter) (*download.Summary, error)

// DownloadModel shows a running download: one progress bar for the current
// source directory, the file being copied and recent activity.
type DownloadModel struct {
	run    RunFunc
	bridge *shared.EventBridge
	ctx    context.Context //nolint:containedctx // cancelled by ctrl+c
	cancel context.CancelFunc

	progress progress.Model
	activity *shared.ActivityLog
	width    int

	started time.Time
	now     time.Time

	sourceDir   string
	fileIndex   int
	fileTotal   int
	currentFile string
	bytesCopied int64
	bytesTotal  int64
	copied      int
	skipped     int

	summary   *download.Summary
	err       error
	done      bool
	cancelled bool
}

// NewDownloadModel creates a model that runs run once started.
func NewDownloadModel(ctx context.Context, run RunFunc) *DownloadModel {
	ctx, cancel := context.WithCancel(ctx)

	return &DownloadModel{
		run:      run,
		bridge:   shared.NewEventBridge(),
		ctx:      ctx,
		cancel:   cancel,
		progress: shared.NewProgressModel(shared.ProgressBarWidth),
		activity: shared.NewActivityLog(ActivityLogCapacity),
	}
}

// Init implements tea.Model
func (m *DownloadModel) Init() tea.Cmd {
	m.started = time.Now()
	m.now = m.started

	return tea.Batch(m.startCmd(), m.bridge.ListenCmd(), shared.TickCmd())
}

// startCmd runs the download in the command goroutine.
func (m *DownloadModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.run(m.ctx, m.bridge)
		m.bridge.Close()

		return shared.DownloadDoneMsg{Summary: summary, Err: err}
	}
}

// Update implements tea.Model
func (m *DownloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(min(msg.Width-shared.DefaultPadding*4, shared.MaxProgressBarWidth), shared.DefaultPadding)

		return m, nil
	case shared.DownloadEventMsg:
		m.apply(msg.Event)

		return m, m.bridge.ListenCmd()
	case shared.DownloadDoneMsg:
		m.done = true
		m.summary = msg.Summary
		m.err = msg.Err
		m.cancel()

		return m, tea.Quit
	case shared.TickMsg:
		m.now = time.Time(msg)
		if m.done {
			return m, nil
		}

		return m, shared.TickCmd()
	}

	return m, nil
}

func (m *DownloadModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != shared.KeyCtrlC {
		return m, nil
	}

	if m.done {
		return m, tea.Quit
	}

	if !m.cancelled {
		// the download stops at the next file and reports back through DownloadDoneMsg
		m.cancelled = true
		m.cancel()
		m.activity.Add(shared.RenderWarning(shared.WarningSymbol() + " cancelling..."))
	}

	return m, nil
}

//nolint:cyclop,funlen // one case per event type
func (m *DownloadModel) apply(event download.Event) {
	switch e := event.(type) {
	case download.SourcesFound:
		m.activity.Add(fmt.Sprintf("found %d source %s on %s",
			len(e.SourceDirs), plural(len(e.SourceDirs), "directory", "directories"), e.Drive))
	case download.NoSourcesFound:
		m.activity.Add(shared.RenderWarning(shared.WarningSymbol() + " no supported directories on " + e.Drive))
	case download.CursorMissing:
		m.activity.Add("first download from " + e.SourceDir)
	case download.ScanStarted:
		m.sourceDir = e.SourceDir
		m.fileIndex, m.fileTotal = 0, 0
		m.currentFile = ""
		m.bytesCopied, m.bytesTotal = 0, 0

		after := "the beginning"
		if !e.From.IsEmpty() {
			after = e.From.String()
		}

		m.activity.Add(fmt.Sprintf("scanning %s after %s", e.SourceDir, after))
	case download.ScanComplete:
		m.fileTotal = max(m.fileTotal, e.NewFiles)
		m.activity.Add(fmt.Sprintf("%d new %s in %s", e.NewFiles, plural(e.NewFiles, "file", "files"), e.SourceDir))
	case download.FileCopyStarted:
		m.fileIndex = e.Index
		if e.Total > 0 {
			m.fileTotal = e.Total
		}

		m.currentFile = e.Path
		m.bytesCopied, m.bytesTotal = 0, e.Size
	case download.FileProgress:
		if e.Path == m.currentFile {
			m.bytesCopied, m.bytesTotal = e.BytesCopied, e.BytesTotal
		}
	case download.FileCopied:
		m.copied++
		m.bytesCopied = m.bytesTotal
		m.activity.Add(shared.RenderSuccess(shared.SuccessSymbol()) + " " + path.Base(e.Path) + " → " + e.Target)
	case download.FileSkipped:
		m.applySkip(e)
	case download.CursorSaved:
		kind := "saved position"
		if e.Checkpoint {
			kind = "checkpointed position"
		}

		m.activity.Add(fmt.Sprintf("%s %s in %s", kind, e.Position.String(), e.SourceDir))
	case download.SourceComplete:
		m.currentFile = ""
	case download.ErrorOccurred:
		m.activity.Add(shared.RenderError(shared.ErrorSymbol() + " " + e.Err.Error()))
	}
}

func (m *DownloadModel) applySkip(e download.FileSkipped) {
	switch e.Reason {
	case download.SkipTargetExists:
		m.skipped++
		m.activity.Add(shared.RenderWarning(shared.SkipSymbol()) + " " + path.Base(e.Path) + " already in " + path.Dir(e.Target))
	case download.SkipDryRun:
		m.activity.Add(shared.RenderDim("would copy " + path.Base(e.Path) + " → " + e.Target))
	case download.SkipFiltered:
		m.activity.Add(shared.RenderDim(shared.SkipSymbol() + " " + path.Base(e.Path) + " not included"))
	}
}

// View implements tea.Model
func (m *DownloadModel) View() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderTitle("auto-download"))
	builder.WriteString("\n")

	if m.sourceDir != "" {
		fmt.Fprintf(&builder, "%s %s\n\n", shared.RenderLabel("Source:"), m.sourceDir)
		builder.WriteString(shared.RenderProgress(m.progress, m.percent()))
		builder.WriteString("\n")
		builder.WriteString(m.fileLine())
		builder.WriteString("\n\n")
	}

	builder.WriteString(shared.RenderActivityLog("Activity", m.activity.Entries(), ActivityLogVisible))
	builder.WriteString("\n\n")

	if m.done {
		builder.WriteString(m.renderResult())
		return builder.String()
	}

	builder.WriteString(shared.RenderDim(fmt.Sprintf("elapsed %s · ctrl+c to cancel",
		shared.FormatDuration(m.now.Sub(m.started)))))
	builder.WriteString("\n")

	return builder.String()
}

// percent is the share of the current source directory done, counting the
// current file by its bytes.
func (m *DownloadModel) percent() float64 {
	fileShare := 0.0
	if m.bytesTotal > 0 {
		fileShare = float64(m.bytesCopied) / float64(m.bytesTotal)
	}

	if m.fileTotal == 0 {
		return fileShare
	}

	return (float64(max(m.fileIndex-1, 0)) + fileShare) / float64(m.fileTotal)
}

func (m *DownloadModel) fileLine() string {
	if m.currentFile == "" {
		return shared.RenderDim("waiting for files")
	}

	counter := fmt.Sprintf("file %d", m.fileIndex)
	if m.fileTotal > 0 {
		counter = fmt.Sprintf("file %d/%d", m.fileIndex, m.fileTotal)
	}

	name := m.currentFile
	if m.width > 0 {
		name = shared.TruncatePath(name, m.width/2) //nolint:mnd // half the screen for the path
	}

	return fmt.Sprintf("%s  %s  %s / %s", counter, name,
		shared.FormatBytes(m.bytesCopied), shared.FormatBytes(m.bytesTotal))
}

func (m *DownloadModel) renderResult() string {
	if m.err != nil {
		if m.cancelled && errors.Is(m.err, fileops.ErrCopyCancelled) {
			return shared.RenderWarning("Download cancelled.") + "\n" + m.renderCounts() + "\n"
		}

		return shared.RenderErrorDetails(m.err, m.width) + "\n" + m.renderCounts() + "\n"
	}

	if m.summary != nil && m.summary.Planned() > 0 {
		return shared.RenderBox(fmt.Sprintf("Dry run: %d %s would be copied",
			m.summary.Planned(), plural(m.summary.Planned(), "file", "files"))) + "\n"
	}

	return shared.RenderBox(shared.RenderSuccess("Download complete") + "\n" + m.renderCounts()) + "\n"
}

func (m *DownloadModel) renderCounts() string {
	if m.summary == nil {
		return fmt.Sprintf("Copied: %d  Skipped: %d", m.copied, m.skipped)
	}

	return fmt.Sprintf("Copied: %d  Skipped: %d  Bytes: %s  Time: %s",
		m.summary.Copied(), m.summary.Skipped(),
		shared.FormatBytes(m.summary.Bytes()), shared.FormatDuration(m.summary.Duration()))
}

// Summary returns what the download reported once it finished.
func (m *DownloadModel) Summary() *download.Summary {
	return m.summary
}

// Err returns the download error once it finished.
func (m *DownloadModel) Err() error {
	return m.err
}

// Done reports whether the download returned.
func (m *DownloadModel) Done() bool {
	return m.done
}

// Cancelled reports whether the user asked to stop.
func (m *DownloadModel) Cancelled() bool {
	return m.cancelled
}

// Context returns the context the download runs with.
func (m *DownloadModel) Context() context.Context {
	return m.ctx
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
