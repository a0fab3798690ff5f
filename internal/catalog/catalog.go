// Package catalog loads and caches per-state ward population records. Two
// on-disk layouts are supported: a unified layout with one aggregated row
// per ward, and a legacy layout with one row per distribution point that
// must be rolled up by (ward, LGA). Sources are tried in order and the first
// one that yields data wins.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/region"
)

// Record is one ward (or ward+LGA pair where ward names repeat across LGAs)
// with its population and optional centroid. Records are read-only after
// loading.
type Record struct {
	WardName   string
	WardCode   string
	LGAName    string
	Population float64
	Latitude   *float64
	Longitude  *float64
}

// Source is a single population data layout for some set of regions.
type Source interface {
	// Name identifies the layout, e.g. "unified" or "legacy".
	Name() string
	// Load returns the ward records for a region, or ErrNoData when the
	// source has nothing for it.
	Load(r region.Region) ([]Record, error)
	// Regions lists the regions this source has data for.
	Regions() ([]region.Region, error)
}

// NotFoundError reports that no source had data for a region. Available
// carries the regions that do have data so callers can surface a useful
// diagnostic.
type NotFoundError struct {
	Region    string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no population data for %s (no regions loaded)", e.Region)
	}
	return fmt.Sprintf("no population data for %s (available: %s)", e.Region, strings.Join(e.Available, ", "))
}

type cacheKey struct {
	regionCode string
	layout     string
}

// Catalog owns the population sources and a read-through cache keyed by
// (region, layout). Construct one per pipeline and pass it by reference;
// there is no package-level state. Loads are pure and deterministic, so the
// mutex only prevents duplicate I/O, not corruption.
type Catalog struct {
	mu      sync.Mutex
	sources []Source
	cache   map[cacheKey][]Record
	log     *zap.Logger
}

// New creates a catalog over the given sources, tried in order.
func New(sources []Source, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		sources: sources,
		cache:   make(map[cacheKey][]Record),
		log:     log,
	}
}

// Load returns the ward population records for a region. Repeated calls for
// the same region are served from cache without re-reading or re-aggregating.
// When no source yields data a *NotFoundError is returned listing the
// regions that do have data.
func (c *Catalog) Load(r region.Region) ([]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, src := range c.sources {
		key := cacheKey{regionCode: r.Code, layout: src.Name()}
		if records, ok := c.cache[key]; ok {
			return records, nil
		}

		records, err := src.Load(r)
		if err != nil {
			if err != ErrNoData {
				c.log.Warn("population source failed",
					zap.String("region", r.Name),
					zap.String("layout", src.Name()),
					zap.Error(err))
			}
			continue
		}
		if len(records) == 0 {
			continue
		}

		c.cache[key] = records
		c.log.Info("population data loaded",
			zap.String("region", r.Name),
			zap.String("layout", src.Name()),
			zap.Int("wards", len(records)))
		return records, nil
	}

	return nil, &NotFoundError{Region: r.Name, Available: c.availableLocked()}
}

// Regions returns the union of regions covered by any source, sorted by name.
func (c *Catalog) Regions() []region.Region {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]region.Region)
	for _, src := range c.sources {
		regions, err := src.Regions()
		if err != nil {
			continue
		}
		for _, r := range regions {
			seen[r.Code] = r
		}
	}

	out := make([]region.Region, 0, len(seen))
	for _, r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// availableLocked lists region names with data; callers hold c.mu.
func (c *Catalog) availableLocked() []string {
	seen := make(map[string]bool)
	var names []string
	for _, src := range c.sources {
		regions, err := src.Regions()
		if err != nil {
			continue
		}
		for _, r := range regions {
			if !seen[r.Name] {
				seen[r.Name] = true
				names = append(names, r.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}
