package fsdiag

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// scanFixture writes files under a fresh root, scans it and returns the root
// and manifest path
func scanFixture(t *testing.T, files map[string]string, overrides ...string) (string, string) {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, files)

	d, _ := newTestDiag(t, root, overrides...)
	result, err := d.Scan("")
	require.NoError(t, err)
	return root, result.Output
}

func TestCompareUnchanged(t *testing.T) {
	root, manifest := scanFixture(t, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
	})

	d, out := newTestDiag(t, root)
	result, err := d.Compare(manifest, false)
	require.NoError(t, err)

	require.Equal(t, 2, result.Checked)
	require.Zero(t, result.Changed())
	require.False(t, result.HasChanges())
	require.Equal(t, "[+] No files were modified.\n", out.String())
}

func TestCompareModifiedAndRemoved(t *testing.T) {
	root, manifest := scanFixture(t, map[string]string{
		"keep.txt":   "same",
		"edit.txt":   "before",
		"gone.txt":   "bye",
		"moved.txt":  "here",
		"dir/in.txt": "nested",
	})

	edit := filepath.Join(root, "edit.txt")
	gone := filepath.Join(root, "gone.txt")
	moved := filepath.Join(root, "moved.txt")
	require.NoError(t, os.WriteFile(edit, []byte("after"), 0644))
	require.NoError(t, os.Remove(gone))
	require.NoError(t, os.Rename(moved, filepath.Join(root, "renamed.txt")))

	d, out := newTestDiag(t, root)
	result, err := d.Compare(manifest, false)
	require.NoError(t, err)

	require.Equal(t, 5, result.Checked)
	require.Equal(t, []string{edit}, result.Modified)
	require.ElementsMatch(t, []string{gone, moved}, result.Removed)
	require.Equal(t, 3, result.Changed())
	require.Empty(t, result.Untracked)

	text := out.String()
	require.Contains(t, text, "[-] File "+edit+" was modified.\n")
	require.Contains(t, text, "[-] File "+gone+" - removed or renamed.\n")
	require.Contains(t, text, "[-] File "+moved+" - removed or renamed.\n")
	require.True(t, strings.HasSuffix(text, "[+] All other files were not changed.\n"))
	require.NotContains(t, text, "renamed.txt")
}

func TestCompareSubstringFilter(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"data/a.txt":     "1",
		"database/b.txt": "2",
		"other/c.txt":    "3",
	})

	d, _ := newTestDiag(t, root)
	result, err := d.Scan("")
	require.NoError(t, err)

	// Literal substring, so "data" also selects "database"
	sub, out := newTestDiag(t, filepath.Join(root, "data"))
	cmp, err := sub.Compare(result.Output, false)
	require.NoError(t, err)
	require.Equal(t, 2, cmp.Checked)
	require.Equal(t, "[+] No files were modified.\n", out.String())
}

func TestCompareNoMatchingEntries(t *testing.T) {
	_, manifest := scanFixture(t, map[string]string{"a.txt": "1"})

	d, out := newTestDiag(t, "/no/such/prefix")
	_, err := d.Compare(manifest, false)
	require.ErrorIs(t, err, ErrNoMatchingEntries)
	require.Empty(t, out.String())
}

func TestCompareManifestErrors(t *testing.T) {
	root := t.TempDir()
	d, _ := newTestDiag(t, root)

	_, err := d.Compare(filepath.Join(root, "missing.log"), false)
	var openErr *ManifestOpenError
	require.ErrorAs(t, err, &openErr)

	bad := filepath.Join(t.TempDir(), "bad.log")
	require.NoError(t, os.WriteFile(bad, []byte(root+"/a[=]x\nno delimiter here\n"), 0644))
	_, err = d.Compare(bad, false)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 2, parseErr.Line)
}

func TestCompareInfersAlgorithm(t *testing.T) {
	root, manifest := scanFixture(t, map[string]string{"a.txt": "hello world"}, "default:sha256")

	records, err := ReadManifest(manifest, FormatPlain)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", records[0].Digest)

	// Configured algorithm is md5, the recorded digest decides
	d, out := newTestDiag(t, root)
	result, err := d.Compare(manifest, false)
	require.NoError(t, err)
	require.Zero(t, result.Changed())
	require.Equal(t, "[+] No files were modified.\n", out.String())
}

func TestCompareJSONL(t *testing.T) {
	root, manifest := scanFixture(t, map[string]string{
		"a.txt": "1",
		"b.txt": "2",
	}, "format:jsonl")

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("22"), 0644))

	d, _ := newTestDiag(t, root, "format:jsonl")
	result, err := d.Compare(manifest, false)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "b.txt")}, result.Modified)

	// A jsonl manifest is not a plain one
	plain, _ := newTestDiag(t, root)
	_, err = plain.Compare(manifest, false)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestCompareUnreadableIsModified(t *testing.T) {
	root := t.TempDir()
	// A directory opens fine but cannot be read
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0755))
	manifest := filepath.Join(t.TempDir(), "fsdiag.log")
	require.NoError(t, WriteManifest(manifest, []Record{
		{Path: filepath.Join(root, "dir"), Digest: "d41d8cd98f00b204e9800998ecf8427e"},
	}, FormatPlain))

	d, _ := newTestDiag(t, root)
	result, err := d.Compare(manifest, false)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "dir")}, result.Modified)
	require.Empty(t, result.Removed)
}

func TestCompareUntracked(t *testing.T) {
	root, manifest := scanFixture(t, map[string]string{
		"a.txt":     "1",
		"sub/b.txt": "2",
	})

	added := filepath.Join(root, "sub", "new.txt")
	require.NoError(t, os.WriteFile(added, []byte("3"), 0644))

	d, out := newTestDiag(t, root)
	result, err := d.Compare(manifest, true)
	require.NoError(t, err)

	require.Equal(t, []string{added}, result.Untracked)
	require.Zero(t, result.Changed())
	require.Contains(t, out.String(), "[+] File "+added+" - not in manifest.\n")
	require.True(t, strings.HasSuffix(out.String(), "[+] No files were modified.\n"))

	// Without the flag nothing is reported
	d, out = newTestDiag(t, root)
	result, err = d.Compare(manifest, false)
	require.NoError(t, err)
	require.Empty(t, result.Untracked)
	require.NotContains(t, out.String(), "not in manifest")
}

func TestCompareUntrackedSkipsManifest(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "1"})

	manifest := filepath.Join(root, "fsdiag.log")
	d, _ := newTestDiag(t, root, "file:"+manifest)
	_, err := d.Scan("")
	require.NoError(t, err)

	result, err := d.Compare(manifest, true)
	require.NoError(t, err)
	require.Empty(t, result.Untracked)
}

func TestCompareUntrackedRelativeRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "data")
	writeFiles(t, root, map[string]string{
		"a.txt": "1",
		"b.txt": "2",
	})

	d, _ := newTestDiag(t, root)
	scanned, err := d.Scan("")
	require.NoError(t, err)

	// Same tree, root spelled relative to the working directory
	t.Chdir(parent)
	rel, out := newTestDiag(t, "data")
	result, err := rel.Compare(scanned.Output, true)
	require.NoError(t, err)

	require.Equal(t, 2, result.Checked)
	require.Zero(t, result.Changed())
	require.Empty(t, result.Untracked)
	require.Equal(t, "[+] No files were modified.\n", out.String())
}

func TestCompareSingleByteFlip(t *testing.T) {
	root, manifest := scanFixture(t, map[string]string{
		"a.txt": "the quick brown fox",
		"b.txt": "jumps over the lazy dog",
	})

	path := filepath.Join(root, "b.txt")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content[len(content)/2] ^= 0x01
	require.NoError(t, os.WriteFile(path, content, 0644))

	d, _ := newTestDiag(t, root)
	result, err := d.Compare(manifest, false)
	require.NoError(t, err)
	require.Equal(t, []string{path}, result.Modified)
	require.Empty(t, result.Removed)
}

func TestCompareDigestCaseSensitive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "hello world"})
	path := filepath.Join(root, "a.txt")

	// Correct md5 of the content, but not as scan writes it
	manifest := filepath.Join(t.TempDir(), "fsdiag.log")
	require.NoError(t, WriteManifest(manifest, []Record{
		{Path: path, Digest: "5EB63BBBE01EEED093CB22BB8F5ACDC3"},
	}, FormatPlain))

	d, _ := newTestDiag(t, root)
	result, err := d.Compare(manifest, false)
	require.NoError(t, err)
	require.Equal(t, []string{path}, result.Modified)
}
