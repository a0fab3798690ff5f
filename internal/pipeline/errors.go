package pipeline

import (
	"fmt"
	"strings"
)

// The pipeline's failure modes are expected business conditions, not bugs,
// so each is a typed error value the caller can branch on. None of them are
// transient: retrying without different input does nothing.

// RegionUnresolvedError: no candidate field resolved to a known region.
// Fatal; no further steps run.
type RegionUnresolvedError struct {
	Candidates []string
}

func (e *RegionUnresolvedError) Error() string {
	return fmt.Sprintf("could not resolve a region from candidates [%s]", strings.Join(e.Candidates, ", "))
}

// PopulationUnavailableError: the region resolved but no population source
// has data for it. Available lists the regions that do, for upstream
// diagnostics.
type PopulationUnavailableError struct {
	Region    string
	Available []string
}

func (e *PopulationUnavailableError) Error() string {
	return fmt.Sprintf("no population data available for %s (have: %s)", e.Region, strings.Join(e.Available, ", "))
}

// NoMatchesError: population data exists but zero ranked wards matched any
// record. Allocation would be meaningless.
type NoMatchesError struct {
	Region string
	Wards  int
}

func (e *NoMatchesError) Error() string {
	return fmt.Sprintf("none of the %d ranked wards matched population records for %s", e.Wards, e.Region)
}
