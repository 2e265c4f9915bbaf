// Package main is the entry point for the auto-download application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/auto-download/internal/config"
	"github.com/joe/auto-download/internal/download"
	"github.com/joe/auto-download/internal/tui"
	pkgerrors "github.com/joe/auto-download/pkg/errors"
	"github.com/joe/auto-download/pkg/filesystem"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Sentinel errors.
var (
	errConfigExists     = errors.New("configuration already exists")
	errTargetRootNeeded = errors.New("--target-root is required when not running in a terminal")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, interactive)

	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer, interactive bool) int {
	args, err := config.ParseArgs(argv, stdout)

	switch {
	case errors.Is(err, config.ErrHelpShown), errors.Is(err, config.ErrVersionShown):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if args.Init != nil {
		err = runInit(args.Init, stdout, interactive)
	} else {
		err = runDownload(ctx, args.Download, stdout, stderr, interactive)
	}

	if err != nil {
		printError(stderr, err)
		return exitError
	}

	return exitOK
}

func runInit(cmd *config.InitCmd, stdout io.Writer, interactive bool) error {
	dir, err := config.ResolveConfigDir(cmd.ConfigDir)
	if err != nil {
		return err
	}

	if config.ConfigExists(dir) && !cmd.Force {
		return fmt.Errorf("%w at %s: use --force to replace it", errConfigExists, dir)
	}

	root := cmd.TargetRoot
	if root == "" {
		if !interactive {
			return errTargetRootNeeded
		}

		root, err = tui.RunPrompt("Where should downloaded files go?", "", validateTargetRoot)
		if err != nil {
			return err
		}
	}

	cfg := config.DriveConfig{cmd.SourceDir: {Target: config.Target{Root: root}}}

	err = config.WriteDriveConfig(dir, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote %s: %s on the drive goes to %s\n", dir, cmd.SourceDir, root)

	return nil
}

func validateTargetRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: target root is empty", config.ErrInvalidConfig)
	}

	_, err := filesystem.ParsePath(root)

	return err
}

func runDownload(ctx context.Context, cmd *config.DownloadCmd, stdout, stderr io.Writer, interactive bool) error {
	dir, err := config.ResolveConfigDir(cmd.ConfigDir)
	if err != nil {
		return err
	}

	cfg, err := config.ReadDriveConfig(dir)
	if err != nil {
		return err
	}

	opts := []download.Option{download.WithMode(cmd.Mode), download.WithDryRun(cmd.DryRun)}

	if interactive && !cmd.Plain {
		_, err = tui.RunDownload(ctx, func(ctx context.Context, emitter download.EventEmitter) (*download.Summary, error) {
			return download.NewDownloader(cfg, append(opts, download.WithEventEmitter(emitter))...).
				DownloadAll(ctx, cmd.DrivePath)
		}, tea.WithContext(ctx))

		return err
	}

	level := slog.LevelInfo
	if cmd.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	summary, err := download.NewDownloader(cfg, append(opts, download.WithEventEmitter(download.NewLogEmitter(logger)))...).
		DownloadAll(ctx, cmd.DrivePath)
	if err != nil {
		return err
	}

	if cmd.DryRun {
		fmt.Fprintf(stdout, "%d files would be copied\n", summary.Planned())
		return nil
	}

	fmt.Fprintf(stdout, "%d copied, %d skipped\n", summary.Copied(), summary.Skipped())

	return nil
}

func printError(w io.Writer, err error) {
	enriched := pkgerrors.NewEnricher().Enrich(err, "")

	fmt.Fprintf(w, "Error: %v\n", enriched)

	if suggestions := pkgerrors.FormatSuggestions(enriched); suggestions != "" {
		fmt.Fprintf(w, "\nSuggestions:\n%s\n", suggestions)
	}
}
