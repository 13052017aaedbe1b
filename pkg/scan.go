package fsdiag

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// visitFunc is called for every candidate regular file found by walk.
// Returning an error stops the walk.
type visitFunc func(path string) error

// ScanResult is the outcome of a successful scan
type ScanResult struct {
	Output  string   // Manifest that was written
	Records []Record // Records in traversal order
}

// walk enumerates the regular files under RootDir in directory order.
// Symbolic links are never followed or reported, directories below the root
// that cannot be read are skipped, and ignored paths are left out.
func (d *Diag) walk(visit visitFunc) error {
	defer VerboseEnter()()
	return d.walkDir(d.RootDir, true, visit)
}

// walkDir recurses into dir. Only a failure to read the root is fatal.
func (d *Diag) walkDir(dir string, isRoot bool, visit visitFunc) error {
	f, err := os.Open(dir)
	if err != nil {
		if isRoot {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		VerboseLog(2, "skipping unreadable directory %s: %v", dir, err)
		return nil
	}

	// File.ReadDir keeps the order the filesystem returns entries in
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		if isRoot && len(entries) == 0 {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		VerboseLog(2, "partial read of directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		path := joinPath(dir, entry.Name())
		mode := entry.Type()

		switch {
		case mode&fs.ModeSymlink != 0:
			DebugLog("walk", "skipping symlink %s", path)

		case entry.IsDir():
			if d.isIgnored(path, true) {
				DebugLog("walk", "ignoring directory %s", path)
				continue
			}
			if err := d.walkDir(path, false, visit); err != nil {
				return err
			}

		case mode.IsRegular():
			if d.isIgnored(path, false) {
				DebugLog("walk", "ignoring file %s", path)
				continue
			}
			DebugLog("walk", "found %s", path)
			if err := visit(path); err != nil {
				return err
			}

		default:
			// FIFOs, sockets and devices could block a read forever
			DebugLog("walk", "skipping special file %s", path)
		}
	}

	return nil
}

// isIgnored checks path, made relative to the root, against the ignore patterns
func (d *Diag) isIgnored(path string, isDir bool) bool {
	if !d.ignoreManager.HasPatterns() {
		return false
	}
	relPath, err := filepath.Rel(d.RootDir, path)
	if err != nil {
		return false
	}
	return d.ignoreManager.ShouldIgnore(relPath, isDir)
}

// samePath reports whether a and b name the same location once made absolute
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// Scan hashes every regular file under the root whose path ends with
// extension (all files when extension is empty) and writes the manifest named
// by the output configuration. Nothing is written when no file qualifies.
func (d *Diag) Scan(extension string) (*ScanResult, error) {
	defer VerboseEnter()()

	output := d.config.GetOutputConfig().File

	var paths []string
	err := d.walk(func(path string) error {
		// Plain suffix match, "txt" also matches "notes.mytxt"
		if extension != "" && !strings.HasSuffix(path, extension) {
			return nil
		}
		// A manifest left under the root by an earlier scan is not content
		if samePath(path, output) {
			VerboseLog(2, "skipping manifest %s", path)
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	VerboseLog(1, "hashing %d files with %s", len(paths), d.algorithm.Name)

	records := make([]Record, 0, len(paths))
	for _, path := range paths {
		digest, err := HashFile(path, d.algorithm, d.bufferSize)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{Path: path, Digest: digest})
	}

	if err := WriteManifest(output, records, d.format); err != nil {
		return nil, err
	}

	d.console.Success("%s - successfully created. Contains: %d items.", output, len(records))
	return &ScanResult{Output: output, Records: records}, nil
}
