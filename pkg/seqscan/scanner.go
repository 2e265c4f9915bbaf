package seqscan

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/joe/auto-download/pkg/filesystem"
)

// Exported variables.
var (
	ErrSourceNotFound = errors.New("source not found")
)

// Lister lists the immediate entries of a directory. filesystem.FileSystem
// implementations satisfy it.
type Lister interface {
	ReadDir(path string) ([]filesystem.DirEntry, error)
}

// Request describes one scan.
type Request struct {
	// SourceDir is the root of the tree to scan.
	SourceDir string
	// LastProcessed is the last file produced by a previous scan, relative
	// to SourceDir. Empty means everything is new.
	LastProcessed Position
	// IgnoredDirs are directory names pruned at every level, e.g. the
	// folder holding the cursor file.
	IgnoredDirs []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithEventEmitter reports traversal decisions to emitter.
func WithEventEmitter(emitter EventEmitter) Option {
	return func(s *Scanner) {
		s.emitter = emitter
	}
}

// Scanner finds the files of a tree that come after a Position.
// A Scanner holds no state between scans and may be reused.
type Scanner struct {
	lister  Lister
	emitter EventEmitter
}

// NewScanner creates a Scanner reading directories through lister.
func NewScanner(lister Lister, opts ...Option) *Scanner {
	s := &Scanner{lister: lister}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FindNewFiles traverses the whole tree and returns every new file path in
// ascending order.
func (s *Scanner) FindNewFiles(req Request) ([]string, error) {
	var files []string

	err := s.walk(&files, rootDir(req.SourceDir), req.LastProcessed, ignoreSet(req.IgnoredDirs))
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Iterate returns a single-pass iterator producing the same paths as
// FindNewFiles, one directory listing at a time.
func (s *Scanner) Iterate(req Request) *Iterator {
	return &Iterator{
		scanner: s,
		root:    rootDir(req.SourceDir),
		rootPos: req.LastProcessed,
		ignored: ignoreSet(req.IgnoredDirs),
	}
}

// level is one listed directory with its resume point resolved.
type level struct {
	dir     string
	entries []filesystem.DirEntry
	// start is the index of the first entry not processed before.
	start int
	// resumed is set when entries[start] is the directory named by the
	// position; resume is then threaded into it.
	resumed bool
	resume  Position
}

// planLevel lists dir and works out which of its entries are new.
func (s *Scanner) planLevel(dir string, pos Position, ignored map[string]struct{}) (*level, error) {
	entries, err := s.list(dir, ignored)
	if err != nil {
		return nil, err
	}

	lvl := &level{dir: dir, entries: entries}

	head, ok := pos.Head()

	switch {
	case !ok:
		s.emitLevel(lvl, ModeFull)
	case len(entries) == 0:
		s.emitLevel(lvl, ModeConsumed)
	default:
		next := IndexOfNext(entries, resumeProbe(head))
		if next == NotFound {
			lvl.start = len(entries)
			s.emitLevel(lvl, ModeConsumed)

			break
		}

		lvl.start = next
		if candidate := entries[next]; candidate.IsDir() && candidate.Name == head {
			lvl.resumed = true
			lvl.resume = pos.Tail()
		}

		if next == 0 && !lvl.resumed {
			s.emitLevel(lvl, ModeFull)
		} else {
			s.emitLevel(lvl, ModeResume)
		}
	}

	return lvl, nil
}

// list reads dir, drops ignored directories and sorts what is left.
func (s *Scanner) list(dir string, ignored map[string]struct{}) ([]filesystem.DirEntry, error) {
	listed, err := s.lister.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, dir, err)
		}

		return nil, err
	}

	entries := make([]filesystem.DirEntry, 0, len(listed))

	for _, entry := range listed {
		if _, skip := ignored[entry.Name]; skip && entry.IsDir() {
			continue
		}

		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b filesystem.DirEntry) int {
		return Compare(a.Name, b.Name)
	})

	return entries, nil
}

func (s *Scanner) emitLevel(lvl *level, mode LevelMode) {
	if s.emitter == nil {
		return
	}

	s.emitter.Emit(LevelPlanned{
		Dir:         lvl.dir,
		Mode:        mode,
		Skipped:     names(lvl.entries[:lvl.start]),
		Unprocessed: names(lvl.entries[lvl.start:]),
	})
}

// walk is the recursive traversal behind FindNewFiles.
func (s *Scanner) walk(files *[]string, dir string, pos Position, ignored map[string]struct{}) error {
	lvl, err := s.planLevel(dir, pos, ignored)
	if err != nil {
		return err
	}

	for i := lvl.start; i < len(lvl.entries); i++ {
		entry := lvl.entries[i]

		switch entry.Kind {
		case filesystem.KindDir:
			err := s.walk(files, joinPath(dir, entry.Name), lvl.resumeFor(i), ignored)
			if err != nil {
				return err
			}
		case filesystem.KindFile:
			*files = append(*files, joinPath(dir, entry.Name))
		case filesystem.KindOther:
			// neither a plain file nor a directory
		}
	}

	return nil
}

// resumeFor returns the position to thread into the entry at index i.
func (l *level) resumeFor(i int) Position {
	if l.resumed && i == l.start {
		return l.resume
	}

	return nil
}

// resumeProbe compares entries against the head of a position. An entry with
// the same name counts as greater only when it is a directory: a directory
// may have gained files since it was last visited, a file is done for good.
func resumeProbe(head string) ProbeFunc[filesystem.DirEntry] {
	return func(candidate filesystem.DirEntry) int {
		if result := Compare(head, candidate.Name); result != 0 {
			return result
		}

		if candidate.IsDir() {
			return -1
		}

		return 0
	}
}

func ignoreSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return set
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}

	return dir + "/" + name
}

func names(entries []filesystem.DirEntry) []string {
	result := make([]string, len(entries))
	for i, entry := range entries {
		result[i] = entry.Name
	}

	return result
}

// rootDir trims trailing separators so joinPath never doubles them.
func rootDir(sourceDir string) string {
	if sourceDir == "" {
		return "."
	}

	trimmed := strings.TrimRightFunc(sourceDir, isSeparator)
	if trimmed == "" {
		// the filesystem root itself
		return sourceDir[:1]
	}

	return trimmed
}
