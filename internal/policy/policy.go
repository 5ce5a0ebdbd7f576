// Package policy maps current disk utilization to retention durations.
//
// Two independent band tables are evaluated per run: one for the general
// data tree and one for the high-churn hourly subdirectory. The hot table
// is deliberately not derived from the general tier; its bands are
// evaluated against the raw usage percentage on their own.
package policy

import (
	"fmt"
	"sort"
	"time"
)

// Policy holds the retention windows selected for one run. Files strictly
// older than the window are eligible for deletion.
type Policy struct {
	General time.Duration
	Hot     time.Duration

	// Tier is the name of the general band that matched, for logging.
	Tier string
}

// Band maps a minimum usage percentage to a retention window. A band
// matches when usagePercent >= MinUsage; the highest matching MinUsage
// wins.
type Band struct {
	MinUsage  int
	Retention time.Duration
	Name      string
}

// Table holds the ordered general and hot band lists.
type Table struct {
	General []Band
	Hot     []Band
}

// DefaultTable returns the built-in pressure tiers.
func DefaultTable() Table {
	return Table{
		General: []Band{
			{MinUsage: 90, Retention: 60 * time.Minute, Name: "critical"},
			{MinUsage: 80, Retention: 360 * time.Minute, Name: "high"},
			{MinUsage: 70, Retention: 720 * time.Minute, Name: "elevated"},
			{MinUsage: 60, Retention: 1440 * time.Minute, Name: "moderate"},
			{MinUsage: 0, Retention: 2160 * time.Minute, Name: "low"},
		},
		Hot: []Band{
			{MinUsage: 80, Retention: 180 * time.Minute},
			{MinUsage: 0, Retention: 360 * time.Minute},
		},
	}
}

// NewTable builds a table from explicit bands, normalizing order so that
// the most severe band is evaluated first.
func NewTable(general, hot []Band) (Table, error) {
	t := Table{
		General: append([]Band(nil), general...),
		Hot:     append([]Band(nil), hot...),
	}
	for _, bands := range [][]Band{t.General, t.Hot} {
		if len(bands) == 0 {
			return Table{}, fmt.Errorf("policy table needs at least one band")
		}
		sort.Slice(bands, func(i, j int) bool {
			return bands[i].MinUsage > bands[j].MinUsage
		})
		if bands[len(bands)-1].MinUsage != 0 {
			return Table{}, fmt.Errorf("policy table needs a catch-all band at usage 0, lowest is %d", bands[len(bands)-1].MinUsage)
		}
	}
	return t, nil
}

// Classify selects the retention policy for the given disk usage
// percentage. Values outside [0,100] are clamped to the nearest valid
// band: negative usage behaves as 0 (the most conservative band), usage
// above 100 behaves as 100 (the most aggressive band). Classify never
// fails.
func (t Table) Classify(usagePercent int) Policy {
	usage := clamp(usagePercent)

	p := Policy{}
	for _, band := range t.General {
		if usage >= band.MinUsage {
			p.General = band.Retention
			p.Tier = band.Name
			break
		}
	}
	for _, band := range t.Hot {
		if usage >= band.MinUsage {
			p.Hot = band.Retention
			break
		}
	}
	return p
}

func clamp(usagePercent int) int {
	if usagePercent < 0 {
		return 0
	}
	if usagePercent > 100 {
		return 100
	}
	return usagePercent
}
