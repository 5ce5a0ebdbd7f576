//go:build linux || darwin

package diskstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageOfTempDir(t *testing.T) {
	u, err := New().Usage(t.TempDir())
	require.NoError(t, err, "statfs of a live directory should succeed")

	assert.Greater(t, u.TotalBytes, uint64(0), "filesystem should report a size")
	assert.GreaterOrEqual(t, u.UsedPercent, 0)
	assert.LessOrEqual(t, u.UsedPercent, 100)
}

func TestUsageMissingPath(t *testing.T) {
	_, err := New().Usage("/definitely/not/a/mountpoint")
	require.Error(t, err, "statfs of a missing path should fail")
}
