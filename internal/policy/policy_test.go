package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCriticalBand(t *testing.T) {
	table := DefaultTable()
	for usage := 90; usage <= 100; usage++ {
		p := table.Classify(usage)
		assert.Equal(t, 60*time.Minute, p.General, "usage %d should hit the critical band", usage)
		assert.Equal(t, "critical", p.Tier)
	}
}

func TestClassifyLowBand(t *testing.T) {
	table := DefaultTable()
	for usage := 0; usage <= 59; usage++ {
		p := table.Classify(usage)
		assert.Equal(t, 2160*time.Minute, p.General, "usage %d should hit the low band", usage)
		assert.Equal(t, 360*time.Minute, p.Hot, "usage %d should keep the relaxed hot window", usage)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	table := DefaultTable()

	p := table.Classify(80)
	assert.Equal(t, 360*time.Minute, p.General, "usage 80 lands in the high band")
	assert.Equal(t, 180*time.Minute, p.Hot, "usage 80 tightens the hot window")

	p = table.Classify(79)
	assert.Equal(t, 720*time.Minute, p.General, "usage 79 lands in the elevated band")
	assert.Equal(t, 360*time.Minute, p.Hot, "usage 79 keeps the relaxed hot window")
}

func TestHotBandIsIndependent(t *testing.T) {
	table := DefaultTable()

	// Every general band at or above 80 shares the tightened hot window,
	// every band below keeps the relaxed one.
	for _, usage := range []int{80, 85, 90, 95, 100} {
		assert.Equal(t, 180*time.Minute, table.Classify(usage).Hot, "usage %d", usage)
	}
	for _, usage := range []int{0, 59, 60, 70, 79} {
		assert.Equal(t, 360*time.Minute, table.Classify(usage).Hot, "usage %d", usage)
	}
}

func TestClassifyClampsOutOfRange(t *testing.T) {
	table := DefaultTable()

	p := table.Classify(-20)
	assert.Equal(t, 2160*time.Minute, p.General, "negative usage behaves as 0")

	p = table.Classify(140)
	assert.Equal(t, 60*time.Minute, p.General, "usage above 100 behaves as 100")
	assert.Equal(t, 180*time.Minute, p.Hot)
}

func TestNewTableNormalizesOrder(t *testing.T) {
	table, err := NewTable(
		[]Band{
			{MinUsage: 0, Retention: 48 * time.Hour, Name: "low"},
			{MinUsage: 90, Retention: time.Hour, Name: "critical"},
		},
		[]Band{
			{MinUsage: 0, Retention: 6 * time.Hour},
			{MinUsage: 80, Retention: 3 * time.Hour},
		},
	)
	require.NoError(t, err, "table with shuffled bands should normalize")

	assert.Equal(t, time.Hour, table.Classify(95).General)
	assert.Equal(t, 48*time.Hour, table.Classify(10).General)
}

func TestNewTableRejectsMissingCatchAll(t *testing.T) {
	_, err := NewTable(
		[]Band{{MinUsage: 60, Retention: time.Hour}},
		[]Band{{MinUsage: 0, Retention: time.Hour}},
	)
	require.Error(t, err, "table without a usage-0 band is invalid")
}
