// Package fsdiag walks a directory tree, records a content digest for every
// regular file in a manifest, and later checks those files against the
// manifest to find modified, removed or renamed files.
//
// # Core API
//
// The entry point is Diag, bound to a root directory:
//
//	cfg, _ := fsdiag.LoadConfig("")
//	d, err := fsdiag.NewDiag("/srv/www", cfg, os.Stdout)
//
// Record a manifest (optionally only files ending in a suffix):
//
//	result, err := d.Scan("")
//	fmt.Printf("%d files in %s\n", len(result.Records), result.Output)
//
// Check the files under the root against a manifest:
//
//	cmp, err := d.Compare("fsdiag.log", false)
//	if cmp.Changed() > 0 {
//		fmt.Println(cmp.Modified, cmp.Removed)
//	}
//
// List files created in the last N days:
//
//	found, err := d.ReportNew("7")
//
// # Manifest format
//
// A plain manifest holds one record per line, "<path>[=]<digest>". The
// delimiter is not escaped; scan refuses paths that contain it. The jsonl
// format writes one {"path":...,"digest":...} object per line instead.
//
// # Errors
//
// Library functions never exit the process. Fatal conditions are returned as
// errors that can be classified with errors.Is against ErrNoFiles,
// ErrNoMatchingEntries, ErrBadDays and ErrDelimiterInPath, or with errors.As
// against *ParseError and *ManifestOpenError.
package fsdiag
