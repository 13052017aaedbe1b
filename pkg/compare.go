package fsdiag

import (
	"os"
	"strings"
)

// CompareResult holds the outcome of checking a manifest against the disk
type CompareResult struct {
	Checked   int      `json:"checked"`
	Modified  []string `json:"modified"`
	Removed   []string `json:"removed"`
	Untracked []string `json:"untracked,omitempty"` // Only filled with untracked reporting on
}

// Changed returns how many checked entries were modified or removed
func (cr *CompareResult) Changed() int {
	return len(cr.Modified) + len(cr.Removed)
}

// HasChanges returns true if any checked entry no longer matches
func (cr *CompareResult) HasChanges() bool {
	return cr.Changed() > 0
}

// Compare re-hashes every manifest entry whose path contains RootDir and
// reports the files that were modified or can no longer be opened. With
// untracked set, files under the root that the manifest does not list are
// reported as well; they never count as changes.
func (d *Diag) Compare(manifestPath string, untracked bool) (*CompareResult, error) {
	defer VerboseEnter()()

	records, err := ReadManifest(manifestPath, d.format)
	if err != nil {
		return nil, err
	}

	// Substring match, so "/data" also selects "/database/x"
	var entries []Record
	for _, record := range records {
		if strings.Contains(record.Path, d.RootDir) {
			entries = append(entries, record)
		}
	}
	if len(entries) == 0 {
		return nil, ErrNoMatchingEntries
	}
	VerboseLog(1, "checking %d of %d manifest entries", len(entries), len(records))

	result := &CompareResult{}
	for _, entry := range entries {
		result.Checked++
		switch d.checkEntry(entry) {
		case entryRemoved:
			d.console.Failure("File %s - removed or renamed.", entry.Path)
			result.Removed = append(result.Removed, entry.Path)
		case entryModified:
			d.console.Failure("File %s was modified.", entry.Path)
			result.Modified = append(result.Modified, entry.Path)
		}
	}

	if untracked {
		if err := d.reportUntracked(manifestPath, entries, result); err != nil {
			return nil, err
		}
	}

	if result.HasChanges() {
		d.console.Success("All other files were not changed.")
	} else {
		d.console.Success("No files were modified.")
	}
	return result, nil
}

type entryState int

const (
	entryUnchanged entryState = iota
	entryModified
	entryRemoved
)

// checkEntry recomputes the digest of entry.Path with the algorithm the
// recorded digest was made with
func (d *Diag) checkEntry(entry Record) entryState {
	file, err := os.Open(entry.Path)
	if err != nil {
		DebugLog("compare", "open %s: %v", entry.Path, err)
		return entryRemoved
	}
	defer file.Close()

	algorithm, ok := AlgorithmForDigest(entry.Digest)
	if !ok {
		VerboseLog(2, "unrecognised digest for %s, using %s", entry.Path, d.algorithm.Name)
		algorithm = d.algorithm
	}

	digest, err := HashReader(file, algorithm, d.bufferSize)
	if err != nil {
		DebugLog("compare", "read %s: %v", entry.Path, err)
		return entryModified
	}

	if digest != entry.Digest {
		DebugLog("compare", "%s: recorded %s, now %s", entry.Path, entry.Digest, digest)
		return entryModified
	}
	return entryUnchanged
}

// reportUntracked walks the root and records every file missing from entries
func (d *Diag) reportUntracked(manifestPath string, entries []Record, result *CompareResult) error {
	defer VerboseEnter()()

	index := indexRecords(entries)
	VerboseLog(2, "indexed %d manifest paths", index.Length())

	return d.walk(func(path string) error {
		if samePath(path, manifestPath) || index.ContainsFile(path) {
			return nil
		}
		d.console.Found("File %s - not in manifest.", path)
		result.Untracked = append(result.Untracked, path)
		return nil
	})
}
