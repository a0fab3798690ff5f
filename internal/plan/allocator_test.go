package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Populations chosen so NetsNeeded(pop, 5) yields 100, 150, 80.
func threeWards() []Ward {
	return []Ward{
		{WardName: "Alpha", Rank: 1, Population: 180, HasPopulationData: true},
		{WardName: "Bravo", Rank: 2, Population: 270, HasPopulationData: true},
		{WardName: "Charlie", Rank: 3, Population: 144, HasPopulationData: true},
	}
}

func TestNetsNeeded(t *testing.T) {
	tests := []struct {
		name       string
		population float64
		household  float64
		want       int
	}{
		{"headcount dominates", 180, 5, 100},
		{"exact headcount boundary", 144, 5, 80},
		{"zero population", 0, 5, 0},
		{"fractional rounds up", 100, 5, 56}, // max(55.56, 20) -> 56
		{"default household when zero", 270, 0, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NetsNeeded(tt.population, tt.household))
		})
	}

	// Household estimate wins when households are large relative to 1.8.
	// 9 people: headcount 5, households of size 1 -> 9 nets.
	assert.Equal(t, 9, NetsNeeded(9, 1))
}

func TestAllocateGreedySweep(t *testing.T) {
	records := Allocate(threeWards(), Parameters{TotalSupply: 200, AvgHouseholdSize: 5})
	require.Len(t, records, 3)

	assert.Equal(t, 100, records[0].NetsAllocated)
	assert.Equal(t, PhaseFull, records[0].Phase)
	assert.Equal(t, 100.0, records[0].CoveragePct)

	assert.Equal(t, 100, records[1].NetsAllocated)
	assert.Equal(t, PhasePartial, records[1].Phase)
	assert.InDelta(t, 66.7, records[1].CoveragePct, 0.05)

	assert.Equal(t, 0, records[2].NetsAllocated)
	assert.Equal(t, PhaseNone, records[2].Phase)
	assert.Equal(t, 0.0, records[2].CoveragePct)

	stats := Summarize(records, 200)
	assert.Equal(t, 200, stats.TotalAllocated)
	assert.Equal(t, 0, stats.Remaining)
}

func TestAllocateZeroSupply(t *testing.T) {
	records := Allocate(threeWards(), Parameters{TotalSupply: 0, AvgHouseholdSize: 5})
	for _, rec := range records {
		assert.Equal(t, 0, rec.NetsAllocated)
		assert.Equal(t, PhaseNone, rec.Phase)
		assert.Equal(t, 0.0, rec.CoveragePct)
	}

	stats := Summarize(records, 0)
	assert.Equal(t, 0, stats.TotalAllocated)
	assert.Equal(t, 0.0, stats.CoveragePct)
}

func TestAllocateSurplusSupply(t *testing.T) {
	records := Allocate(threeWards(), Parameters{TotalSupply: 1000, AvgHouseholdSize: 5})

	total := 0
	for _, rec := range records {
		assert.Equal(t, PhaseFull, rec.Phase)
		assert.Equal(t, rec.NetsNeeded, rec.NetsAllocated)
		total += rec.NetsAllocated
	}

	// Never spends more than the sum of needs.
	assert.Equal(t, 330, total)
	stats := Summarize(records, 1000)
	assert.Equal(t, 330, stats.TotalAllocated)
	assert.Equal(t, 670, stats.Remaining)
}

func TestAllocateSingleWardExceedsSupply(t *testing.T) {
	wards := []Ward{{WardName: "Alpha", Rank: 1, Population: 1800}} // needs 1000
	records := Allocate(wards, Parameters{TotalSupply: 400, AvgHouseholdSize: 5})

	require.Len(t, records, 1)
	assert.Equal(t, 400, records[0].NetsAllocated)
	assert.Equal(t, PhasePartial, records[0].Phase)
	assert.InDelta(t, 40.0, records[0].CoveragePct, 1e-9)
}

func TestAllocateRespectsRankOrder(t *testing.T) {
	// Input deliberately unsorted; rank 1 must be served first.
	wards := []Ward{
		{WardName: "Charlie", Rank: 3, Population: 144},
		{WardName: "Alpha", Rank: 1, Population: 180},
		{WardName: "Bravo", Rank: 2, Population: 270},
	}
	records := Allocate(wards, Parameters{TotalSupply: 120, AvgHouseholdSize: 5})

	require.Len(t, records, 3)
	assert.Equal(t, "Alpha", records[0].WardName)
	assert.Equal(t, PhaseFull, records[0].Phase)
	assert.Equal(t, "Bravo", records[1].WardName)
	assert.Equal(t, PhasePartial, records[1].Phase)
	assert.Equal(t, "Charlie", records[2].WardName)
	assert.Equal(t, PhaseNone, records[2].Phase)

	// If a lower-ranked ward received anything, every higher-risk ward
	// before it is fully covered, and at most one ward is partial.
	partials := 0
	for i, rec := range records {
		if rec.NetsAllocated > 0 && i > 0 {
			assert.Equal(t, PhaseFull, records[i-1].Phase)
		}
		if rec.Phase == PhasePartial {
			partials++
		}
	}
	assert.LessOrEqual(t, partials, 1)
}

func TestAllocateZeroNeedWards(t *testing.T) {
	// A ward with no demand reads fully covered while supply lasts, but once
	// supply is exhausted it reads none, same as under zero supply.
	wards := []Ward{
		{WardName: "Alpha", Rank: 1, Population: 0},
		{WardName: "Bravo", Rank: 2, Population: 180}, // needs 100
		{WardName: "Charlie", Rank: 3, Population: 0},
	}

	records := Allocate(wards, Parameters{TotalSupply: 100, AvgHouseholdSize: 5})
	require.Len(t, records, 3)
	assert.Equal(t, PhaseFull, records[0].Phase)
	assert.Equal(t, 100.0, records[0].CoveragePct)
	assert.Equal(t, PhaseFull, records[1].Phase)
	assert.Equal(t, PhaseNone, records[2].Phase)
	assert.Equal(t, 0.0, records[2].CoveragePct)

	records = Allocate(wards, Parameters{TotalSupply: 0, AvgHouseholdSize: 5})
	for _, rec := range records {
		assert.Equal(t, PhaseNone, rec.Phase)
	}
}

func TestAllocateNeverOverAllocates(t *testing.T) {
	wards := threeWards()
	for _, supply := range []int{0, 1, 50, 99, 100, 101, 199, 200, 250, 329, 330, 331, 10000} {
		records := Allocate(wards, Parameters{TotalSupply: supply, AvgHouseholdSize: 5})
		total := 0
		for _, rec := range records {
			assert.LessOrEqual(t, rec.NetsAllocated, rec.NetsNeeded)
			total += rec.NetsAllocated
		}
		assert.LessOrEqual(t, total, supply, "supply %d", supply)
	}
}
