package sweeper

import "fmt"

// MetricUnknown marks a before/after measurement that could not be
// collected. The sweep itself is unaffected.
const MetricUnknown int64 = -1

// Report summarizes one sweep. The before/after numbers are coarse
// snapshots taken around the deletion passes and may be stale under
// concurrent writers; FilesDeleted and BytesFreed count what this run
// actually removed.
type Report struct {
	SizeBefore  int64
	SizeAfter   int64
	FilesBefore int64
	FilesAfter  int64

	FilesDeleted int64
	BytesFreed   int64
	SoftErrors   int64
}

// Summary renders the report as a single log line.
func (r Report) Summary() string {
	return fmt.Sprintf("size %s -> %s, files %s -> %s, deleted %d files (%s freed), %d soft errors",
		formatSize(r.SizeBefore), formatSize(r.SizeAfter),
		formatCount(r.FilesBefore), formatCount(r.FilesAfter),
		r.FilesDeleted, formatBytes(r.BytesFreed), r.SoftErrors)
}

func formatSize(v int64) string {
	if v == MetricUnknown {
		return "unknown"
	}
	return formatBytes(v)
}

func formatCount(v int64) string {
	if v == MetricUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%d", v)
}

func formatBytes(b int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
		tb = 1024 * gb
	)

	switch {
	case b >= tb:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(tb))
	case b >= gb:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
