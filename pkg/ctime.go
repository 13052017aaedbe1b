package fsdiag

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// fileCreationTime returns when path was created. The birth time from statx
// is used when the filesystem records one; otherwise the inode change time
// stands in for it.
func fileCreationTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW,
		unix.STATX_BTIME|unix.STATX_CTIME, &stx)
	if err == nil {
		if stx.Mask&unix.STATX_BTIME != 0 {
			return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
		}
		return time.Unix(stx.Ctime.Sec, int64(stx.Ctime.Nsec)), nil
	}

	// Kernels before 4.11 have no statx
	if err != unix.ENOSYS {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	sec, nsec := st.Ctim.Unix()
	return time.Unix(sec, nsec), nil
}

// ageInDays is the whole number of days between created and now, truncated
// towards zero
func ageInDays(now, created time.Time) int64 {
	return (now.Unix() - created.Unix()) / SecondsPerDay
}
