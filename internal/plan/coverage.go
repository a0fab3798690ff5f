package plan

// CoverageStats aggregates an allocation result. Pure derivation, no side
// effects; recompute it whenever the plan is recomputed.
type CoverageStats struct {
	TotalNetsNeeded   int
	TotalAllocated    int
	Remaining         int // unspent supply
	TotalPopulation   float64
	CoveredPopulation float64
	CoveragePct       float64 // covered / total population, 0 when no population
	FullyCovered      int
	PartiallyCovered  int
	// Per-ward coverage spread among wards that received any allocation.
	MinWardCoveragePct float64
	AvgWardCoveragePct float64
	MaxWardCoveragePct float64
}

// Summarize derives coverage statistics from an allocation. Covered
// population assumes PeoplePerNet per allocated net, capped at each ward's
// population so a fully supplied ward never counts more people than it has.
func Summarize(records []Record, totalSupply int) CoverageStats {
	stats := CoverageStats{Remaining: totalSupply}

	allocatedWards := 0
	var coverageSum float64
	for _, rec := range records {
		stats.TotalNetsNeeded += rec.NetsNeeded
		stats.TotalAllocated += rec.NetsAllocated
		stats.TotalPopulation += rec.Population

		covered := float64(rec.NetsAllocated) * PeoplePerNet
		if covered > rec.Population {
			covered = rec.Population
		}
		stats.CoveredPopulation += covered

		switch rec.Phase {
		case PhaseFull:
			stats.FullyCovered++
		case PhasePartial:
			stats.PartiallyCovered++
		}

		if rec.NetsAllocated > 0 {
			if allocatedWards == 0 || rec.CoveragePct < stats.MinWardCoveragePct {
				stats.MinWardCoveragePct = rec.CoveragePct
			}
			if rec.CoveragePct > stats.MaxWardCoveragePct {
				stats.MaxWardCoveragePct = rec.CoveragePct
			}
			coverageSum += rec.CoveragePct
			allocatedWards++
		}
	}

	stats.Remaining = totalSupply - stats.TotalAllocated
	if stats.TotalPopulation > 0 {
		stats.CoveragePct = stats.CoveredPopulation / stats.TotalPopulation * 100
	}
	if allocatedWards > 0 {
		stats.AvgWardCoveragePct = coverageSum / float64(allocatedWards)
	}

	return stats
}
