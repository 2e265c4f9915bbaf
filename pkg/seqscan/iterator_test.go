//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package seqscan_test

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/fs"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/auto-download/pkg/filesystem"
	"github.com/joe/auto-download/pkg/seqscan"
)

func TestIterator_ListsOnlyWhatIsNeeded(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lister := &recordingLister{tree: map[string][]filesystem.DirEntry{
		"/r":        {dir("A"), dir("B"), dir("C")},
		"/r/A":      {file("1"), dir("deep")},
		"/r/A/deep": {file("2")},
		"/r/B":      {file("3")},
		"/r/C":      {file("4")},
	}}

	it := seqscan.NewScanner(lister).Iterate(seqscan.Request{SourceDir: "/r"})
	g.Expect(lister.listed).To(BeEmpty())

	path, ok := it.Next()
	g.Expect(ok).To(BeTrue())
	g.Expect(path).To(Equal("/r/A/1"))
	g.Expect(lister.listed).To(Equal([]string{"/r", "/r/A"}))

	path, ok = it.Next()
	g.Expect(ok).To(BeTrue())
	g.Expect(path).To(Equal("/r/A/deep/2"))
	g.Expect(lister.listed).To(Equal([]string{"/r", "/r/A", "/r/A/deep"}))
}

func TestIterator_SkipsListingConsumedSubtrees(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lister := &recordingLister{tree: map[string][]filesystem.DirEntry{
		"/r":   {dir("A"), dir("B"), dir("C")},
		"/r/A": {file("1")},
		"/r/B": {file("1"), file("2")},
		"/r/C": {file("1")},
	}}

	files, err := seqscan.NewScanner(lister).Iterate(seqscan.Request{
		SourceDir:     "/r",
		LastProcessed: seqscan.PositionOf("B", "1"),
	}).Collect()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(files).To(Equal([]string{"/r/B/2", "/r/C/1"}))
	g.Expect(lister.listed).To(Equal([]string{"/r", "/r/B", "/r/C"}))
}

func TestIterator_StaysDoneAfterExhaustion(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	it := seqscan.NewScanner(newCard(t, dcimFiles(cardRoot)...)).Iterate(seqscan.Request{
		SourceDir:     cardRoot,
		LastProcessed: seqscan.ParsePosition("DIR002/DP0002.jpg"),
	})

	path, ok := it.Next()
	g.Expect(ok).To(BeTrue())
	g.Expect(path).To(Equal(cardRoot + "/DIR002/DP0003.jpg"))

	for range 3 {
		_, ok = it.Next()
		g.Expect(ok).To(BeFalse())
		g.Expect(it.Err()).ShouldNot(HaveOccurred())
	}
}

func TestIterator_AllStopsWhenCallerBreaks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	all := dcimFiles(cardRoot)
	it := seqscan.NewScanner(newCard(t, all...)).Iterate(seqscan.Request{SourceDir: cardRoot})

	var first []string

	for path, err := range it.All() {
		g.Expect(err).ShouldNot(HaveOccurred())

		first = append(first, path)
		if len(first) == 2 {
			break
		}
	}

	g.Expect(first).To(Equal(all[:2]))

	// the rest is still there
	rest, err := it.Collect()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(rest).To(Equal(all[2:]))
}

func TestIterator_AllYieldsErrorLast(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lister := &recordingLister{
		tree: map[string][]filesystem.DirEntry{
			"/r":   {dir("A"), dir("B")},
			"/r/A": {file("1")},
		},
		errs: map[string]error{"/r/B": os.ErrPermission},
	}

	var (
		paths []string
		errs  []error
	)

	for path, err := range seqscan.NewScanner(lister).Iterate(seqscan.Request{SourceDir: "/r"}).All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}

		paths = append(paths, path)
	}

	g.Expect(paths).To(Equal([]string{"/r/A/1"}))
	g.Expect(errs).To(HaveLen(1))
	g.Expect(errs[0]).To(MatchError(os.ErrPermission))
}

// randomTree builds a tree of up to depth levels with a few files and
// directories per level, some of them empty.
func randomTree(rng *rand.Rand, lister *recordingLister, dirPath string, depth int) {
	entries := []filesystem.DirEntry{}

	for i := range rng.IntN(4) {
		entries = append(entries, file(fmt.Sprintf("f%02d.jpg", rng.IntN(50)+i*50)))
	}

	if depth > 0 {
		for i := range rng.IntN(3) {
			name := fmt.Sprintf("d%02d", rng.IntN(50)+i*50)
			entries = append(entries, dir(name))
			randomTree(rng, lister, dirPath+"/"+name, depth-1)
		}
	}

	// listings come back unordered
	rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
	lister.tree[dirPath] = entries
}

func TestFindNewFiles_ResumesFromEveryProducedPath(t *testing.T) {
	t.Parallel()

	for seed := range uint64(20) {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			lister := &recordingLister{tree: map[string][]filesystem.DirEntry{}}
			randomTree(rand.New(rand.NewPCG(seed, seed+1)), lister, "/r", 3) //nolint:gosec // deterministic test data

			all := scanBoth(t, lister, seqscan.Request{SourceDir: "/r"})

			for i := 1; i < len(all); i++ {
				g.Expect(all[i-1] < all[i]).To(BeTrue(), "%s before %s", all[i-1], all[i])
			}

			for i, path := range all {
				got := scanBoth(t, lister, seqscan.Request{
					SourceDir:     "/r",
					LastProcessed: seqscan.RelativePosition("/r", path),
				})

				if i == len(all)-1 {
					g.Expect(got).To(BeEmpty())
				} else {
					g.Expect(got).To(Equal(all[i+1:]))
				}
			}
		})
	}
}

func TestFindNewFiles_MatchesLexicalWalkOnDisk(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	disk := filesystem.NewRealFileSystem()
	addFiles(t, disk,
		root+"/100CANON/IMG_0001.JPG",
		root+"/100CANON/IMG_0002.CR2",
		root+"/100CANON/IMG_0002.JPG",
		root+"/101CANON/MVI_0003.MP4",
		root+"/101CANON/sub/IMG_0004.JPG",
		root+"/MISC/info.txt",
		root+"/empty/",
		root+"/readme.txt",
	)

	// kr/fs walks in lexical order, so the files it visits are the expected
	// full scan
	var expected []string

	walker := fs.Walk(root)
	for walker.Step() {
		g.Expect(walker.Err()).ShouldNot(HaveOccurred())

		if walker.Stat().Mode().IsRegular() {
			expected = append(expected, filepath.ToSlash(walker.Path()))
		}
	}

	got, err := seqscan.NewScanner(disk).FindNewFiles(seqscan.Request{SourceDir: filepath.ToSlash(root)})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(got).To(Equal(expected))
	g.Expect(got).To(HaveLen(7))
}
