package scan

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the inode change time, the closest portable analogue
// to a creation timestamp on Linux filesystems.
func creationTime(path string, _ fs.FileInfo) (time.Time, bool) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return time.Time{}, false
	}
	return time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec)), true
}
