package fsdiag

import (
	"fmt"
	"strconv"
)

// ReportNew prints every file under the root created within days days of now
// and returns how many were printed. Files are reported as they are found.
//
// days is parsed when the first file is reached, so an empty tree accepts
// any argument. A file whose creation time cannot be read aborts the report.
func (d *Diag) ReportNew(days string) (int, error) {
	defer VerboseEnter()()

	var threshold int64
	parsed := false
	found := 0

	err := d.walk(func(path string) error {
		if !parsed {
			n, err := strconv.ParseInt(days, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrBadDays, days)
			}
			threshold, parsed = n, true
		}

		created, err := fileCreationTime(path)
		if err != nil {
			return err
		}

		age := ageInDays(d.now(), created)
		DebugLog("walk", "%s is %d days old", path, age)
		if threshold >= age {
			d.console.Found("Found file - %s", path)
			found++
		}
		return nil
	})

	return found, err
}
