package download

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joe/auto-download/internal/config"
	"github.com/joe/auto-download/pkg/filesystem"
)

// Source is a configured source directory present on a drive.
type Source struct {
	// Name is the configuration key, relative to the drive root.
	Name string
	// Path is where the directory is on the drive filesystem.
	Path   string
	Config config.SourceConfig
}

// FindSupportedSourceDirs returns the configured source directories that
// exist on the drive rooted at drivePath, in name order. Missing ones are
// skipped; any other failure to stat them is returned.
func FindSupportedSourceDirs(drive filesystem.FileSystem, drivePath string, cfg config.DriveConfig) ([]Source, error) {
	var sources []Source

	for _, name := range cfg.SourceNames() {
		path := joinPath(drivePath, name)

		info, err := drive.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to check source directory %s: %w", path, err)
		}

		if !info.IsDir() {
			continue
		}

		sources = append(sources, Source{Name: name, Path: path, Config: cfg[name]})
	}

	return sources, nil
}
