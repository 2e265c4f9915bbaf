//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package seqscan_test

import (
	"fmt"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/joe/auto-download/pkg/filesystem"
	"github.com/joe/auto-download/pkg/seqscan"
)

// newCard builds an in-memory tree. Names ending in "/" are created as empty
// directories, everything else as files.
func newCard(t *testing.T, paths ...string) *filesystem.BillyFileSystem {
	t.Helper()

	fsys := filesystem.NewInMemoryFileSystem()
	addFiles(t, fsys, paths...)

	return fsys
}

func addFiles(t *testing.T, fsys filesystem.FileSystem, paths ...string) {
	t.Helper()

	for _, p := range paths {
		if strings.HasSuffix(p, "/") {
			if err := fsys.MkdirAll(strings.TrimSuffix(p, "/"), 0o755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", p, err)
			}

			continue
		}

		if err := fsys.MkdirAll(path.Dir(p), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", p, err)
		}

		file, err := fsys.Create(p)
		if err != nil {
			t.Fatalf("Failed to create file %s: %v", p, err)
		}

		_ = file.Close()
	}
}

// dcimFiles returns root/DIR001/DP0001.jpg..DP0005.jpg and root/DIR002/DP0001.jpg..DP0003.jpg.
func dcimFiles(root string) []string {
	var files []string

	for i := 1; i <= 5; i++ {
		files = append(files, fmt.Sprintf("%s/DIR001/DP000%d.jpg", root, i))
	}

	for i := 1; i <= 3; i++ {
		files = append(files, fmt.Sprintf("%s/DIR002/DP000%d.jpg", root, i))
	}

	return files
}

// recordingLister serves a fixed tree and records every directory it lists.
type recordingLister struct {
	tree   map[string][]filesystem.DirEntry
	errs   map[string]error
	listed []string
}

func (l *recordingLister) ReadDir(dir string) ([]filesystem.DirEntry, error) {
	l.listed = append(l.listed, dir)

	if err, ok := l.errs[dir]; ok {
		return nil, err
	}

	entries, ok := l.tree[dir]
	if !ok {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, os.ErrNotExist)
	}

	return entries, nil
}

func file(name string) filesystem.DirEntry {
	return filesystem.DirEntry{Name: name, Kind: filesystem.KindFile}
}

func dir(name string) filesystem.DirEntry {
	return filesystem.DirEntry{Name: name, Kind: filesystem.KindDir}
}

// eventRecorder collects scanner events.
type eventRecorder struct {
	events []seqscan.LevelPlanned
}

func (r *eventRecorder) Emit(event seqscan.Event) {
	if planned, ok := event.(seqscan.LevelPlanned); ok {
		r.events = append(r.events, planned)
	}
}

// scanBoth runs the eager and the lazy scan and fails the test when they differ.
func scanBoth(t *testing.T, lister seqscan.Lister, req seqscan.Request) []string {
	t.Helper()

	scanner := seqscan.NewScanner(lister)

	eager, err := scanner.FindNewFiles(req)
	if err != nil {
		t.Fatalf("FindNewFiles failed: %v", err)
	}

	lazy, err := scanner.Iterate(req).Collect()
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}

	if strings.Join(eager, "\n") != strings.Join(lazy, "\n") {
		t.Fatalf("eager and lazy scans differ:\neager: %v\nlazy:  %v", eager, lazy)
	}

	return eager
}
