package fsdiag

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// newTestDiag builds a Diag for root with colour off. The manifest goes to a
// separate temp directory unless an override names another file.
func newTestDiag(t *testing.T, root string, overrides ...string) (*Diag, *bytes.Buffer) {
	t.Helper()

	cfg := DefaultConfig()
	all := append([]string{
		"color:never",
		"file:" + filepath.Join(t.TempDir(), DefaultOutputFile),
	}, overrides...)
	if err := cfg.ApplyOverrides(all); err != nil {
		t.Fatalf("Failed to apply overrides: %v", err)
	}

	var out bytes.Buffer
	d, err := NewDiag(root, cfg, &out)
	if err != nil {
		t.Fatalf("Failed to create diag: %v", err)
	}
	return d, &out
}

// writeFiles creates each relative path under root with the given content
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

func recordPaths(records []Record) []string {
	paths := make([]string, 0, len(records))
	for _, r := range records {
		paths = append(paths, r.Path)
	}
	sort.Strings(paths)
	return paths
}

func sorted(paths ...string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}
