package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/auto-download/internal/download"
)

// Exported variables.
var (
	ErrPromptCancelled = errors.New("prompt cancelled")
)

// RunDownload runs a download under the terminal UI and returns what it
// reported. Ctrl+c cancels ctx for the download.
func RunDownload(ctx context.Context, run RunFunc, opts ...tea.ProgramOption) (*download.Summary, error) {
	model := NewDownloadModel(ctx, run)

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run terminal UI: %w", err)
	}

	result, ok := final.(*DownloadModel)
	if !ok {
		return nil, fmt.Errorf("failed to run terminal UI: unexpected model %T", final)
	}

	return result.Summary(), result.Err()
}

// RunPrompt asks question until validate accepts the answer.
func RunPrompt(question, initial string, validate func(string) error, opts ...tea.ProgramOption) (string, error) {
	model := NewPromptModel(question, initial, validate)
	model.SetValue(initial)

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return "", fmt.Errorf("failed to run prompt: %w", err)
	}

	result, ok := final.(*PromptModel)
	if !ok || result.Cancelled() || !result.Done() {
		return "", ErrPromptCancelled
	}

	return result.Value(), nil
}
