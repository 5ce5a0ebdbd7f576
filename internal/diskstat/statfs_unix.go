//go:build linux || darwin

package diskstat

import (
	"fmt"
	"syscall"
)

// Usage reports utilization of the filesystem containing path via
// statfs. The percentage follows df semantics: used relative to the
// space reachable by unprivileged writers (used + Bavail), not the raw
// block count, so reserved blocks do not mask real pressure.
func (statfsProvider) Usage(path string) (Usage, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return Usage{}, fmt.Errorf("statfs %s: %w", path, err)
	}

	blockSize := uint64(stat.Bsize)
	total := stat.Blocks * blockSize
	avail := stat.Bavail * blockSize
	used := (stat.Blocks - stat.Bfree) * blockSize

	u := Usage{
		TotalBytes: total,
		FreeBytes:  avail,
		UsedBytes:  used,
	}

	reachable := used + avail
	if reachable > 0 {
		u.UsedPercent = int((used*100 + reachable - 1) / reachable)
	}
	if u.UsedPercent > 100 {
		u.UsedPercent = 100
	}

	return u, nil
}
