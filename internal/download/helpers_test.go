//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package download_test

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/joe/auto-download/internal/config"
	"github.com/joe/auto-download/internal/download"
	"github.com/joe/auto-download/pkg/filesystem"
)

const driveRoot = "/card"

// shotAt is the modification time of every photo put on a test card.
var shotAt = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

// day is the per-day directory shotAt lands in.
func day() string {
	return shotAt.In(time.Local).Format(config.DefaultDateLayout)
}

// putFiles writes each path with its own name as content.
func putFiles(t *testing.T, fsys filesystem.FileSystem, paths ...string) {
	t.Helper()

	for _, p := range paths {
		if err := fsys.MkdirAll(path.Dir(p), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", p, err)
		}

		file, err := fsys.Create(p)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", p, err)
		}

		if _, err := io.WriteString(file, path.Base(p)); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}

		_ = file.Close()

		if err := fsys.Chtimes(p, shotAt, shotAt); err != nil {
			t.Fatalf("Failed to set times of %s: %v", p, err)
		}
	}
}

func readFile(t *testing.T, fsys filesystem.FileSystem, p string) string {
	t.Helper()

	file, err := fsys.Open(p)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", p, err)
	}

	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", p, err)
	}

	return string(data)
}

// cardShots returns DCIM/DIR<d>/DP000<n>.jpg paths on the test card.
func cardShots(dirNum int, shots ...int) []string {
	paths := make([]string, len(shots))
	for i, shot := range shots {
		paths[i] = fmt.Sprintf("%s/DCIM/DIR%03d/DP%04d.jpg", driveRoot, dirNum, shot)
	}

	return paths
}

func dcimConfig() config.DriveConfig {
	return config.DriveConfig{"DCIM": {Target: config.Target{Root: "/photos"}}}
}

// fixture is a card and a photo library, both in memory.
type fixture struct {
	card   *filesystem.BillyFileSystem
	photos filesystem.FileSystem
	events *eventRecorder
}

func newFixture(t *testing.T, cardFiles ...string) *fixture {
	t.Helper()

	f := &fixture{
		card:   filesystem.NewInMemoryFileSystem(),
		photos: filesystem.NewInMemoryFileSystem(),
		events: &eventRecorder{},
	}
	putFiles(t, f.card, cardFiles...)

	return f
}

func (f *fixture) downloader(cfg config.DriveConfig, opts ...download.Option) *download.Downloader {
	base := []download.Option{
		download.WithEventEmitter(f.events),
		download.WithClock(&stepClock{now: shotAt.Add(24 * time.Hour)}),
		download.WithDriveFactory(func(p string) (filesystem.FileSystem, string, func(), error) {
			return f.card, p, func() {}, nil
		}),
		download.WithDestinationFactory(func(p string) (filesystem.FileSystem, string, func(), error) {
			return f.photos, p, func() {}, nil
		}),
	}

	return download.NewDownloader(cfg, append(base, opts...)...)
}

// photo returns where a card file named name lands in /photos.
func photo(name string) string {
	return "/photos/" + day() + "/" + name
}

type eventRecorder struct {
	mu     sync.Mutex
	events []download.Event
}

func (r *eventRecorder) Emit(event download.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func eventsOf[E download.Event](r *eventRecorder) []E {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found []E

	for _, event := range r.events {
		if e, ok := event.(E); ok {
			found = append(found, e)
		}
	}

	return found
}

// stepClock moves one second forward on every reading.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)

	return c.now
}

// failingFS fails chosen operations of an underlying filesystem.
type failingFS struct {
	filesystem.FileSystem

	createNewErr map[string]error
	statErr      map[string]error
}

func (f *failingFS) CreateNew(p string) (filesystem.File, error) {
	if err, ok := f.createNewErr[p]; ok {
		return nil, err
	}

	return f.FileSystem.CreateNew(p)
}

func (f *failingFS) Stat(p string) (os.FileInfo, error) {
	if err, ok := f.statErr[p]; ok {
		return nil, err
	}

	return f.FileSystem.Stat(p)
}
