//go:build !linux

package scan

import (
	"io/fs"
	"time"
)

func creationTime(_ string, info fs.FileInfo) (time.Time, bool) {
	if info == nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
