package tui_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // Dot import is idiomatic for Ginkgo
	. "github.com/onsi/gomega"    //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/auto-download/internal/download"
	"github.com/joe/auto-download/internal/tui"
	"github.com/joe/auto-download/internal/tui/shared"
	"github.com/joe/auto-download/pkg/fileops"
	"github.com/joe/auto-download/pkg/seqscan"
)

const sourceDir = "/card/DCIM"

func idle(context.Context, download.EventEmitter) (*download.Summary, error) {
	return &download.Summary{}, nil
}

func send(model *tui.DownloadModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = model.Update(msg)
	}

	return cmd
}

func events(evts ...download.Event) []tea.Msg {
	msgs := make([]tea.Msg, len(evts))
	for i, evt := range evts {
		msgs[i] = shared.DownloadEventMsg{Event: evt}
	}

	return msgs
}

func view(model *tui.DownloadModel) string {
	return ansi.Strip(model.View())
}

var _ = Describe("DownloadModel", func() {
	var model *tui.DownloadModel

	BeforeEach(func() {
		model = tui.NewDownloadModel(context.Background(), idle)
	})

	It("starts the download, the event listener and the clock", func() {
		Expect(model.Init()).ToNot(BeNil())
	})

	It("keeps listening after each event", func() {
		cmd := send(model, events(download.CursorMissing{SourceDir: sourceDir})...)
		Expect(cmd).ToNot(BeNil())
	})

	Describe("progress", func() {
		BeforeEach(func() {
			send(model, events(
				download.ScanStarted{SourceDir: sourceDir, From: seqscan.Position{"DIR001", "DP0003.jpg"}},
				download.ScanComplete{SourceDir: sourceDir, NewFiles: 3},
				download.FileCopyStarted{
					SourceDir: sourceDir, Path: sourceDir + "/DIR001/DP0004.jpg",
					Target: "/photos/2024-05-17/DP0004.jpg", Index: 1, Total: 3, Size: 100,
				},
				download.FileProgress{Path: sourceDir + "/DIR001/DP0004.jpg", BytesCopied: 50, BytesTotal: 100},
			)...)
		})

		It("shows the source directory and where the scan resumed", func() {
			Expect(view(model)).To(ContainSubstring("Source: " + sourceDir))
			Expect(view(model)).To(ContainSubstring("scanning /card/DCIM after DIR001/DP0003.jpg"))
			Expect(view(model)).To(ContainSubstring("3 new files in /card/DCIM"))
		})

		It("shows the current file and its bytes", func() {
			Expect(view(model)).To(ContainSubstring("file 1/3  /card/DCIM/DIR001/DP0004.jpg  50 B / 100 B"))
		})

		It("ignores progress of other files", func() {
			send(model, events(download.FileProgress{Path: "/elsewhere", BytesCopied: 99, BytesTotal: 100})...)
			Expect(view(model)).To(ContainSubstring("50 B / 100 B"))
		})

		It("logs copied and skipped files", func() {
			send(model, events(
				download.FileCopied{
					SourceDir: sourceDir, Path: sourceDir + "/DIR001/DP0004.jpg",
					Target: "/photos/2024-05-17/DP0004.jpg", Bytes: 100,
				},
				download.FileSkipped{
					SourceDir: sourceDir, Path: sourceDir + "/DIR001/DP0005.jpg",
					Target: "/photos/2024-05-17/DP0005.jpg", Reason: download.SkipTargetExists,
				},
				download.FileSkipped{
					SourceDir: sourceDir, Path: sourceDir + "/DIR001/DP0006.arw", Reason: download.SkipFiltered,
				},
				download.CursorSaved{SourceDir: sourceDir, Position: seqscan.Position{"DIR001", "DP0006.arw"}},
			)...)

			out := view(model)
			Expect(out).To(ContainSubstring(shared.SuccessSymbol() + " DP0004.jpg → /photos/2024-05-17/DP0004.jpg"))
			Expect(out).To(ContainSubstring(shared.SkipSymbol() + " DP0005.jpg already in /photos/2024-05-17"))
			Expect(out).To(ContainSubstring("DP0006.arw not included"))
			Expect(out).To(ContainSubstring("saved position DIR001/DP0006.arw in /card/DCIM"))
		})

		It("shows only the most recent activity", func() {
			for i := range 20 {
				send(model, events(download.FileCopied{
					Path: fmt.Sprintf("%s/DIR001/DP%04d.jpg", sourceDir, i), Target: "/photos",
				})...)
			}

			out := view(model)
			Expect(out).To(ContainSubstring("DP0019.jpg"))
			Expect(out).ToNot(ContainSubstring("DP0010.jpg"))
		})
	})

	Describe("cancellation", func() {
		It("cancels the download context on ctrl+c and waits for it", func() {
			cmd := send(model, tea.KeyMsg{Type: tea.KeyCtrlC})

			Expect(cmd).To(BeNil())
			Expect(model.Cancelled()).To(BeTrue())
			Expect(model.Context().Err()).To(MatchError(context.Canceled))
			Expect(view(model)).To(ContainSubstring("cancelling..."))
		})

		It("reports a cancelled download as such", func() {
			send(model, tea.KeyMsg{Type: tea.KeyCtrlC})

			cmd := send(model, shared.DownloadDoneMsg{
				Summary: &download.Summary{},
				Err:     fmt.Errorf("%w: %w", fileops.ErrCopyCancelled, context.Canceled),
			})

			Expect(cmd()).To(Equal(tea.QuitMsg{}))
			Expect(view(model)).To(ContainSubstring("Download cancelled."))
		})

		It("quits right away once the download is done", func() {
			send(model, shared.DownloadDoneMsg{Summary: &download.Summary{}})

			cmd := send(model, tea.KeyMsg{Type: tea.KeyCtrlC})
			Expect(cmd()).To(Equal(tea.QuitMsg{}))
		})
	})

	Describe("result", func() {
		It("summarises a finished download", func() {
			start := time.Date(2024, 5, 18, 9, 0, 0, 0, time.UTC)
			send(model, shared.DownloadDoneMsg{Summary: &download.Summary{
				Dirs:     []*download.DirResult{{Copied: 3, Skipped: 1, Bytes: 2048}},
				Started:  start,
				Finished: start.Add(90 * time.Second),
			}})

			Expect(model.Done()).To(BeTrue())
			out := view(model)
			Expect(out).To(ContainSubstring("Download complete"))
			Expect(out).To(ContainSubstring("Copied: 3  Skipped: 1  Bytes: 2.0 KB  Time: 1m 30s"))
			Expect(out).ToNot(ContainSubstring("ctrl+c to cancel"))
		})

		It("summarises a dry run", func() {
			send(model, shared.DownloadDoneMsg{Summary: &download.Summary{
				Dirs: []*download.DirResult{{Planned: 4}},
			}})

			Expect(view(model)).To(ContainSubstring("Dry run: 4 files would be copied"))
		})

		It("explains failures", func() {
			failure := fmt.Errorf("failed to read directory /card/DCIM: %w", fs.ErrPermission)
			send(model, shared.DownloadDoneMsg{Summary: &download.Summary{}, Err: failure})

			Expect(model.Err()).To(MatchError(fs.ErrPermission))
			out := view(model)
			Expect(out).To(ContainSubstring("failed to read directory /card/DCIM"))
			Expect(out).To(ContainSubstring("Suggestions:"))
		})
	})

	Describe("RunDownload", func() {
		It("runs the download to completion headlessly", func() {
			run := func(_ context.Context, emitter download.EventEmitter) (*download.Summary, error) {
				emitter.Emit(download.ScanStarted{SourceDir: sourceDir})
				emitter.Emit(download.FileCopied{Path: sourceDir + "/DIR001/DP0001.jpg", Target: "/photos"})

				return &download.Summary{Dirs: []*download.DirResult{{Copied: 1}}}, nil
			}

			var out bytes.Buffer

			summary, err := tui.RunDownload(context.Background(), run,
				tea.WithInput(nil), tea.WithOutput(&out), tea.WithoutSignalHandler())
			Expect(err).ToNot(HaveOccurred())
			Expect(summary.Copied()).To(Equal(1))
		})

		It("returns the download error", func() {
			broken := errors.New("card removed")
			run := func(context.Context, download.EventEmitter) (*download.Summary, error) {
				return &download.Summary{}, broken
			}

			_, err := tui.RunDownload(context.Background(), run,
				tea.WithInput(nil), tea.WithOutput(&bytes.Buffer{}), tea.WithoutSignalHandler())
			Expect(err).To(MatchError(broken))
		})
	})
})
