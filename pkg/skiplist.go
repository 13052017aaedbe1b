package fsdiag

import (
	"path/filepath"
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// manifestContext tags every record inserted from a manifest
const manifestContext = "manifest"

// manifestIndex is a path-ordered index over manifest records
type manifestIndex struct {
	skiplist *zcsl.ZeroCopySkiplist[Record, string, string]
}

// newManifestIndex creates an empty index
func newManifestIndex(maxLevels int) *manifestIndex {
	if maxLevels < 8 {
		maxLevels = 16
	}

	getKeyFromItem := func(record *Record) string {
		return record.Path
	}

	getItemSize := func(record *Record) int {
		return len(record.Path) + len(record.Digest)
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	return &manifestIndex{
		skiplist: zcsl.MakeZeroCopySkiplist[Record, string, string](
			maxLevels,
			getKeyFromItem,
			getItemSize,
			cmpKey,
		),
	}
}

// indexKey is the absolute form of path, so "data/a" and "/srv/data/a" name
// the same entry
func indexKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// indexRecords builds an index from records, keyed by absolute path. A path
// listed twice keeps its first record.
func indexRecords(records []Record) *manifestIndex {
	index := newManifestIndex(16)
	for _, record := range records {
		record.Path = indexKey(record.Path)
		if !index.Insert(record) {
			VerboseLog(2, "duplicate manifest entry for %s", record.Path)
		}
	}
	return index
}

// Insert adds record unless its path is already present
func (mi *manifestIndex) Insert(record Record) bool {
	if mi.Contains(record.Path) {
		return false
	}
	return mi.skiplist.Insert(&record, manifestContext)
}

// Find returns the record stored for path
func (mi *manifestIndex) Find(path string) (*Record, bool) {
	itemPtr, _ := mi.skiplist.Find(path)
	if itemPtr == nil {
		return nil, false
	}
	return itemPtr.Item(), true
}

// Contains reports whether path is in the index
func (mi *manifestIndex) Contains(path string) bool {
	_, ok := mi.Find(path)
	return ok
}

// ContainsFile reports whether path, in any spelling, names an indexed file
func (mi *manifestIndex) ContainsFile(path string) bool {
	return mi.Contains(indexKey(path))
}

// Length returns the number of indexed paths
func (mi *manifestIndex) Length() int {
	return mi.skiplist.Length()
}

// ForEach visits the records in path order until callback returns false
func (mi *manifestIndex) ForEach(callback func(*Record) bool) {
	for current := mi.skiplist.First(); current != nil; current = current.Next() {
		if !callback(current.Item()) {
			break
		}
	}
}
