// Package plan turns a reconciled, risk-ranked ward table and a fixed net
// supply into a per-ward allocation plus coverage statistics. The allocation
// is a single greedy sweep in rank order: priority is policy (highest risk
// first), not a throughput-maximizing knapsack.
package plan

import (
	"math"
	"sort"
)

// PeoplePerNet is the planning assumption for net capacity: one
// insecticide-treated net covers 1.8 people.
const PeoplePerNet = 1.8

// DefaultHouseholdSize is used when the caller does not supply an average
// household size.
const DefaultHouseholdSize = 5.0

// Phase tags the allocation outcome for one ward.
type Phase string

const (
	PhaseFull    Phase = "full"
	PhasePartial Phase = "partial"
	PhaseNone    Phase = "none"
)

// Parameters configure a planning run.
type Parameters struct {
	TotalSupply      int
	AvgHouseholdSize float64 // falls back to DefaultHouseholdSize when <= 0
}

// Ward is the planner's input row: a ranked ward with its reconciled
// population.
type Ward struct {
	WardName          string
	WardCode          string
	LGAName           string
	Rank              int
	RiskScore         float64
	RiskCategory      string
	UrbanPct          float64
	Population        float64
	HasPopulationData bool
}

// Record is a ward enriched with its allocation outcome.
type Record struct {
	Ward
	NetsNeeded    int
	NetsAllocated int
	CoveragePct   float64
	Phase         Phase
}

// NetsNeeded computes per-ward demand. Nets are sized primarily by headcount
// (one net per 1.8 people) but a ward receives at least one net per
// household, so demand is the larger of the two estimates, rounded up.
func NetsNeeded(population, avgHouseholdSize float64) int {
	if population <= 0 {
		return 0
	}
	if avgHouseholdSize <= 0 {
		avgHouseholdSize = DefaultHouseholdSize
	}
	byHeadcount := population / PeoplePerNet
	byHousehold := math.Ceil(population / avgHouseholdSize)
	return int(math.Ceil(math.Max(byHeadcount, byHousehold)))
}

// Allocate runs the greedy sweep. Wards are processed in ascending rank
// order (rank 1 first, input order breaking unexpected ties); each ward
// receives its full need while supply lasts, the first ward whose need
// exceeds the remainder takes everything left as a partial allocation, and
// later wards receive nothing. Every input ward appears in the result, in
// rank order, including zero-allocation wards. The sweep never allocates
// more than the sum of needs.
func Allocate(wards []Ward, params Parameters) []Record {
	records := make([]Record, len(wards))
	for i, w := range wards {
		records[i] = Record{
			Ward:       w,
			NetsNeeded: NetsNeeded(w.Population, params.AvgHouseholdSize),
			Phase:      PhaseNone,
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Rank < records[j].Rank })

	allocated := 0
	for i := range records {
		rec := &records[i]
		remaining := params.TotalSupply - allocated
		if remaining <= 0 {
			// Covers zero supply too: every ward past exhaustion stays at
			// phase none, whether or not it has demand.
			continue
		}

		if rec.NetsNeeded == 0 {
			// A ward with no demand is fully covered without spending supply.
			rec.Phase = PhaseFull
			rec.CoveragePct = 100
			continue
		}

		if rec.NetsNeeded <= remaining {
			rec.NetsAllocated = rec.NetsNeeded
			rec.Phase = PhaseFull
			rec.CoveragePct = 100
			allocated += rec.NetsAllocated
			continue
		}

		// Supply exhausts here: this ward takes the remainder. At most one
		// ward in a plan is partial; everything after it stays at zero.
		rec.NetsAllocated = remaining
		rec.Phase = PhasePartial
		rec.CoveragePct = float64(rec.NetsAllocated) / float64(rec.NetsNeeded) * 100
		allocated = params.TotalSupply
	}

	return records
}
