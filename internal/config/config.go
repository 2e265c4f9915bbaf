// Package config handles command-line parsing and the per-user drive configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/joe/auto-download/pkg/filesystem"
)

// Exported variables.
var (
	ErrNoCommand    = errors.New("no command given")
	ErrHelpShown    = errors.New("help shown")
	ErrVersionShown = errors.New("version shown")
)

// ScanMode selects how new files are produced during a download.
type ScanMode int

const (
	// ModeEager lists every new file before copying anything.
	ModeEager ScanMode = iota
	// ModeStreaming copies each file as soon as the scan reaches it.
	ModeStreaming
)

// String returns the string representation of ScanMode
func (m ScanMode) String() string {
	switch m {
	case ModeEager:
		return "eager"
	case ModeStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// ParseScanMode parses a string into a ScanMode
func ParseScanMode(s string) (ScanMode, error) {
	switch strings.ToLower(s) {
	case "eager", "list":
		return ModeEager, nil
	case "streaming", "stream":
		return ModeStreaming, nil
	default:
		return ModeEager, fmt.Errorf("invalid scan mode: %s (valid: eager, streaming)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (m *ScanMode) UnmarshalText(text []byte) error {
	parsed, err := ParseScanMode(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Args is the command line.
type Args struct {
	Download *DownloadCmd `arg:"subcommand:download" help:"copy new files from a memory card or drive"`
	Init     *InitCmd     `arg:"subcommand:init" help:"create the configuration"`
}

// DownloadCmd holds the arguments of "auto-download download".
type DownloadCmd struct {
	DrivePath string   `arg:"positional,required" help:"where the drive is mounted (E:, /media/joe/SD_CARD or sftp://user@host/path)"`
	ConfigDir string   `arg:"--config-dir,env:AUTO_DOWNLOAD_CONFIG_DIR" help:"directory holding config.json"`
	Mode      ScanMode `arg:"--mode" default:"eager" help:"eager lists everything first, streaming copies while scanning (aliases: list|stream)"`
	DryRun    bool     `arg:"-n,--dry-run" help:"show what would be copied without copying"`
	Plain     bool     `arg:"--plain" help:"log lines instead of the terminal UI"`
	Verbose   bool     `arg:"-v,--verbose" help:"log every scan decision"`
}

// InitCmd holds the arguments of "auto-download init".
type InitCmd struct {
	ConfigDir  string `arg:"--config-dir,env:AUTO_DOWNLOAD_CONFIG_DIR" help:"directory holding config.json"`
	TargetRoot string `arg:"-t,--target-root" help:"where downloaded files go; asked for when omitted"`
	SourceDir  string `arg:"--source-dir" default:"DCIM" help:"directory on the drive to download from"`
	Force      bool   `arg:"--force" help:"replace an existing configuration"`
}

// Description returns the program description for go-arg
func (Args) Description() string {
	return "Copies the photos and videos a camera added to a memory card since the last download"
}

// Version returns the version string for go-arg
func (Args) Version() string {
	return "auto-download 1.0.0"
}

// ParseArgs parses argv (without the program name). Help and version
// requests are written to out and reported as ErrHelpShown/ErrVersionShown.
func ParseArgs(argv []string, out io.Writer) (*Args, error) {
	args := &Args{}

	parser, err := arg.NewParser(arg.Config{Program: "auto-download"}, args)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	err = parser.Parse(argv)

	switch {
	case errors.Is(err, arg.ErrHelp):
		_ = parser.WriteHelpForSubcommand(out, parser.SubcommandNames()...)
		return nil, ErrHelpShown
	case errors.Is(err, arg.ErrVersion):
		_, _ = fmt.Fprintln(out, args.Version())
		return nil, ErrVersionShown
	case err != nil:
		return nil, fmt.Errorf("%w\n%s", err, usage(parser))
	case parser.Subcommand() == nil:
		return nil, fmt.Errorf("%w\n%s", ErrNoCommand, usage(parser))
	}

	return PostProcessArgs(args)
}

// PostProcessArgs validates what go-arg cannot.
func PostProcessArgs(args *Args) (*Args, error) {
	if args.Download != nil {
		if _, err := filesystem.ParsePath(args.Download.DrivePath); err != nil {
			return nil, fmt.Errorf("invalid drive path: %w", err)
		}
	}

	if args.Init != nil && args.Init.SourceDir == "" {
		args.Init.SourceDir = DefaultSourceDir
	}

	return args, nil
}

func usage(parser *arg.Parser) string {
	var builder strings.Builder

	_ = parser.WriteUsageForSubcommand(&builder, parser.SubcommandNames()...)

	return strings.TrimRight(builder.String(), "\n")
}
