// Package diskstat reports utilization of the filesystem holding the
// data directory.
package diskstat

// Usage describes the filesystem containing a path.
type Usage struct {
	TotalBytes  uint64
	FreeBytes   uint64
	UsedBytes   uint64
	UsedPercent int
}

// Provider answers disk usage queries. Extracted as an interface so the
// sweep pipeline can be exercised without a real filesystem backend.
type Provider interface {
	Usage(path string) (Usage, error)
}

type statfsProvider struct{}

// New returns the platform statfs-backed provider.
func New() Provider {
	return statfsProvider{}
}
