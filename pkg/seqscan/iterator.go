package seqscan

import (
	"iter"

	"github.com/joe/auto-download/pkg/filesystem"
)

// Iterator produces new file paths one at a time.
//
// Traversal state is an explicit stack of listed directory levels. A level
// is listed only when Next reaches it, so deeper directories are not read
// before the caller asks for the path that needs them. Listings are read
// whole; nothing stays open between calls, and a caller may stop calling
// Next at any point.
//
// An Iterator is single-pass and cannot be restarted.
type Iterator struct {
	scanner *Scanner
	root    string
	rootPos Position
	ignored map[string]struct{}

	stack   []*frame
	started bool
	done    bool
	err     error
}

// frame is a level being traversed.
type frame struct {
	*level

	next int
}

// Next advances to the next new file and returns its path.
// Returns ("", false) when done or on error.
// Check Err() after Next() returns false to distinguish between end-of-scan and error.
func (it *Iterator) Next() (string, bool) {
	if it.done {
		return "", false
	}

	if !it.started {
		it.started = true

		if err := it.push(it.root, it.rootPos); err != nil {
			it.fail(err)
			return "", false
		}
	}

	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		if top.next >= len(top.entries) {
			it.stack[len(it.stack)-1] = nil
			it.stack = it.stack[:len(it.stack)-1]

			continue
		}

		index := top.next
		top.next++
		entry := top.entries[index]

		switch entry.Kind {
		case filesystem.KindFile:
			return joinPath(top.dir, entry.Name), true
		case filesystem.KindDir:
			if err := it.push(joinPath(top.dir, entry.Name), top.resumeFor(index)); err != nil {
				it.fail(err)
				return "", false
			}
		case filesystem.KindOther:
			// neither a plain file nor a directory
		}
	}

	it.done = true

	return "", false
}

// Err returns any error that occurred during scanning.
// Should be checked after Next() returns false.
func (it *Iterator) Err() error {
	return it.err
}

// All adapts the iterator to range-over-func. A listing error is yielded
// once, with an empty path, as the last element. Ranging again continues
// where the previous loop stopped.
func (it *Iterator) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			path, ok := it.Next()
			if !ok {
				if err := it.Err(); err != nil {
					yield("", err)
				}

				return
			}

			if !yield(path, nil) {
				return
			}
		}
	}
}

// Collect drains the iterator.
func (it *Iterator) Collect() ([]string, error) {
	var files []string

	for path, ok := it.Next(); ok; path, ok = it.Next() {
		files = append(files, path)
	}

	if err := it.Err(); err != nil {
		return nil, err
	}

	return files, nil
}

func (it *Iterator) fail(err error) {
	it.err = err
	it.done = true
	it.stack = nil
}

func (it *Iterator) push(dir string, pos Position) error {
	lvl, err := it.scanner.planLevel(dir, pos, it.ignored)
	if err != nil {
		return err
	}

	it.stack = append(it.stack, &frame{level: lvl, next: lvl.start})

	return nil
}
