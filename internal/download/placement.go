package download

import (
	"strings"
	"time"
)

// Placement decides where a downloaded file goes.
type Placement interface {
	TargetPath(sourcePath string, modTime time.Time) string
}

// GroupByDate puts every file into a per-day directory named after its
// modification time: <Root>/<modTime formatted with Layout>/<file name>.
type GroupByDate struct {
	Root   string
	Layout string
	// Location is the time zone of the day boundary; nil means local time.
	Location *time.Location
}

// TargetPath implements Placement.
func (g GroupByDate) TargetPath(sourcePath string, modTime time.Time) string {
	loc := g.Location
	if loc == nil {
		loc = time.Local
	}

	return joinPath(joinPath(g.Root, modTime.In(loc).Format(g.Layout)), baseName(sourcePath))
}

// joinPath joins with '/', which every supported filesystem accepts.
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}

	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`) {
		return dir + name
	}

	return dir + "/" + name
}

func baseName(path string) string {
	return path[strings.LastIndexAny(path, `/\`)+1:]
}
