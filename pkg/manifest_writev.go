package fsdiag

import (
	"fmt"
	"os"
	"syscall"

	"github.com/google/vectorio"
)

// maxIovecs is IOV_MAX on Linux, the most iovecs one writev call accepts
const maxIovecs = 1024

// writeLines writes all lines to file with writev, one iovec per line,
// chunked to maxIovecs. A chunk that is only partly
// written has its remainder finished with a plain write.
func writeLines(file *os.File, lines [][]byte) error {
	nonEmpty := lines[:0:0]
	for _, line := range lines {
		if len(line) > 0 {
			nonEmpty = append(nonEmpty, line)
		}
	}
	lines = nonEmpty

	iovecs := make([]syscall.Iovec, 0, len(lines))
	for _, line := range lines {
		iovec := syscall.Iovec{Base: &line[0]}
		iovec.SetLen(len(line))
		iovecs = append(iovecs, iovec)
	}

	totalWritten := 0
	for offset := 0; offset < len(iovecs); offset += maxIovecs {
		end := min(offset+maxIovecs, len(iovecs))
		chunk := iovecs[offset:end]

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), chunk)
		if err != nil {
			return fmt.Errorf("writev failed: %w", err)
		}
		totalWritten += nw

		if rest := remainderAfter(lines[offset:end], nw); len(rest) > 0 {
			DebugLog("manifest", "short writev (%d bytes), writing %d remaining", nw, len(rest))
			n, err := file.Write(rest)
			totalWritten += n
			if err != nil {
				return err
			}
		}
	}

	expected := 0
	for _, line := range lines {
		expected += len(line)
	}
	if totalWritten != expected {
		return fmt.Errorf("manifest write incomplete: wrote %d bytes, expected %d", totalWritten, expected)
	}
	return nil
}

// remainderAfter returns the bytes of lines that follow the first written
// bytes, or nil when everything was written
func remainderAfter(lines [][]byte, written int) []byte {
	var rest []byte
	for _, line := range lines {
		if written >= len(line) {
			written -= len(line)
			continue
		}
		rest = append(rest, line[written:]...)
		written = 0
	}
	return rest
}
