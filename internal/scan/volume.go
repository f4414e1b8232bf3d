package scan

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// VolumeStats reports capacity for the filesystem backing a path.
type VolumeStats struct {
	TotalBytes uint64 `json:"total_bytes"`
	FreeBytes  uint64 `json:"free_bytes"`
	UsedBytes  uint64 `json:"used_bytes"`
}

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

var statfs statfsFunc = realStatfs

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}

// Volume returns capacity stats for the filesystem holding path.
func Volume(path string) (VolumeStats, error) {
	total, free, err := statfs(path)
	if err != nil {
		return VolumeStats{}, fmt.Errorf("scan: statfs %s: %w", path, err)
	}
	used := uint64(0)
	if total > free {
		used = total - free
	}
	return VolumeStats{TotalBytes: total, FreeBytes: free, UsedBytes: used}, nil
}
