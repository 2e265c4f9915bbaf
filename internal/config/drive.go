package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joe/auto-download/pkg/filesystem"
)

// Exported constants.
const (
	// AppDirName is the per-user directory holding the configuration
	AppDirName = "auto-download"
	// ConfigFileName is the configuration file inside the config directory
	ConfigFileName = "config.json"
	// DefaultSourceDir is where cameras put their files
	DefaultSourceDir = "DCIM"
	// DefaultDateLayout names the per-day target directories, e.g. 2024-05-17
	DefaultDateLayout = "2006-01-02"
)

// Exported variables.
var (
	ErrConfigMissing = errors.New("configuration not found")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Target says where the files of one source directory go.
type Target struct {
	// Root is a local directory or an sftp:// URL.
	Root string `json:"root"`
	// DateLayout is a Go time layout for the per-day directory.
	DateLayout string `json:"dateLayout,omitempty"`
}

// Layout returns the date layout, defaulting to DefaultDateLayout.
func (t Target) Layout() string {
	if t.DateLayout == "" {
		return DefaultDateLayout
	}

	return t.DateLayout
}

// SourceConfig is the download configuration of one source directory.
type SourceConfig struct {
	Target Target `json:"target"`
	// Include is an optional doublestar pattern, relative to the source
	// directory; files it does not match are not copied.
	Include string `json:"include,omitempty"`
}

// DriveConfig maps source directories, relative to the drive root, to their
// configuration:
//
//	{"DCIM": {"target": {"root": "/home/joe/Pictures"}}}
type DriveConfig map[string]SourceConfig

// DefaultDriveConfig downloads DCIM into targetRoot.
func DefaultDriveConfig(targetRoot string) DriveConfig {
	return DriveConfig{
		DefaultSourceDir: {Target: Target{Root: targetRoot}},
	}
}

// SourceNames returns the configured source directories in byte order.
func (c DriveConfig) SourceNames() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Validate checks every source directory entry.
func (c DriveConfig) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no source directories", ErrInvalidConfig)
	}

	for _, name := range c.SourceNames() {
		source := c[name]

		if strings.Trim(name, `/\`) == "" {
			return fmt.Errorf("%w: empty source directory name", ErrInvalidConfig)
		}

		if source.Target.Root == "" {
			return fmt.Errorf("%w: %s has no target root", ErrInvalidConfig, name)
		}

		if _, err := filesystem.ParsePath(source.Target.Root); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
		}

		if source.Include != "" && !doublestar.ValidatePattern(source.Include) {
			return fmt.Errorf("%w: %s: bad include pattern %q", ErrInvalidConfig, name, source.Include)
		}
	}

	return nil
}

// ResolveConfigDir returns override when set, otherwise the per-user
// application data directory: %LOCALAPPDATA% on Windows,
// ~/Library/Preferences on macOS and ~/.local/share elsewhere.
func ResolveConfigDir(override string) (string, error) {
	return resolveConfigDir(override, runtime.GOOS, os.Getenv, os.UserHomeDir)
}

func resolveConfigDir(
	override, goos string, getenv func(string) string, homeDir func() (string, error),
) (string, error) {
	if override != "" {
		return override, nil
	}

	if goos == "windows" {
		if local := getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, AppDirName), nil
		}
	}

	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}

	if goos == "darwin" {
		return filepath.Join(home, "Library", "Preferences", AppDirName), nil
	}

	return filepath.Join(home, ".local", "share", AppDirName), nil
}

// ReadDriveConfig loads and validates dir/config.json.
func ReadDriveConfig(dir string) (DriveConfig, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path) // #nosec G304 - config location chosen by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s: run 'auto-download init' first", ErrConfigMissing, path)
		}

		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	var cfg DriveConfig

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration %s: %w", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// WriteDriveConfig validates cfg and stores it as dir/config.json.
func WriteDriveConfig(dir string, cfg DriveConfig) error {
	err := cfg.Validate()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	err = os.MkdirAll(dir, filesystem.DefaultDirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create configuration directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ConfigFileName)

	err = os.WriteFile(path, append(data, '\n'), 0o600)
	if err != nil {
		return fmt.Errorf("failed to write configuration %s: %w", path, err)
	}

	return nil
}

// ConfigExists reports whether dir already holds a configuration.
func ConfigExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
