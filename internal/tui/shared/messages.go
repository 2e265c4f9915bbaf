package shared

import (
	"github.com/joe/auto-download/internal/download"
)

// DownloadEventMsg wraps a download.Event for use as a tea.Msg.
type DownloadEventMsg struct {
	Event download.Event
}

// DownloadDoneMsg is sent when the download returned.
type DownloadDoneMsg struct {
	Summary *download.Summary
	Err     error
}
