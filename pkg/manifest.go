package fsdiag

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// maxManifestLine bounds a single manifest line; paths are limited to
// PATH_MAX by the kernel, so this leaves plenty of room
const maxManifestLine = 1024 * 1024

// Record is one manifest entry: a path and the hex digest of its contents
type Record struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

// encodeRecord renders r as one manifest line including the newline
func encodeRecord(r Record, format string) ([]byte, error) {
	switch format {
	case FormatJSONL:
		data, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatPlain, "":
		if strings.Contains(r.Path, RecordDelimiter) {
			return nil, fmt.Errorf("%w: %s", ErrDelimiterInPath, r.Path)
		}
		return []byte(r.Path + RecordDelimiter + r.Digest + "\n"), nil
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", format)
	}
}

// decodeRecord parses one manifest line without its newline. The returned
// string describes why the line was rejected.
func decodeRecord(line, format string) (Record, string) {
	switch format {
	case FormatJSONL:
		var r Record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return Record{}, err.Error()
		}
		if r.Path == "" {
			return Record{}, "missing path"
		}
		return r, ""
	default:
		// Split on the first delimiter only
		path, digest, found := strings.Cut(line, RecordDelimiter)
		if !found {
			return Record{}, "missing " + RecordDelimiter + " delimiter"
		}
		return Record{Path: path, Digest: digest}, ""
	}
}

// WriteManifest truncates or creates outputPath and writes records to it in
// order. With no records nothing is created and ErrNoFiles is returned. For
// the plain format every path is checked for the delimiter before the file is
// touched.
func WriteManifest(outputPath string, records []Record, format string) error {
	defer VerboseEnter()()

	if len(records) == 0 {
		return ErrNoFiles
	}

	lines := make([][]byte, 0, len(records))
	for _, record := range records {
		line, err := encodeRecord(record, format)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create manifest %s: %w", outputPath, err)
	}

	if err := writeLines(file, lines); err != nil {
		file.Close()
		return fmt.Errorf("failed to write manifest %s: %w", outputPath, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close manifest %s: %w", outputPath, err)
	}

	DebugLog("manifest", "wrote %d records to %s", len(records), outputPath)
	return nil
}

// ReadManifest loads every record of a manifest in file order. Blank lines are
// skipped; any other line that cannot be decoded fails the whole read with a
// *ParseError.
func ReadManifest(manifestPath string, format string) ([]Record, error) {
	defer VerboseEnter()()

	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, &ManifestOpenError{Path: manifestPath, Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxManifestLine)

	var records []Record
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		record, reason := decodeRecord(line, format)
		if reason != "" {
			return nil, &ParseError{File: manifestPath, Line: lineNum, Reason: reason}
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest %s: %w", manifestPath, err)
	}

	DebugLog("manifest", "read %d records from %s", len(records), manifestPath)
	return records, nil
}
