// Package pipeline composes the planning flow: region resolution, population
// loading, ward reconciliation, greedy allocation, and coverage summary. A
// run is a pure function of its inputs; rerunning with identical inputs
// yields an identical result.
package pipeline

import (
	"errors"

	"go.uber.org/zap"

	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/catalog"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/plan"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/reconcile"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/region"
)

// Input is one planning request.
type Input struct {
	// Ranking is the risk-ranked ward table, rank 1 first or in any order;
	// the planner sorts by rank.
	Ranking []reconcile.RankedWard
	// RegionCandidates are checked in priority order: shapefile-derived
	// field, explicit code, dataset column, session hint.
	RegionCandidates []string
	Params           plan.Parameters
}

// Result is the full outcome of a planning run.
type Result struct {
	Region  region.Region
	Records []plan.Record
	Stats   plan.CoverageStats
	Report  reconcile.Report
}

// Pipeline owns the population catalog (no ambient global state) and the
// reconciler configuration.
type Pipeline struct {
	catalog    *catalog.Catalog
	reconciler *reconcile.Reconciler
	thresholds reconcile.Thresholds
	log        *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger injects a logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithThresholds overrides the reconciler's fuzzy thresholds.
func WithThresholds(t reconcile.Thresholds) Option {
	return func(p *Pipeline) { p.thresholds = t }
}

// New builds a pipeline over a population catalog.
func New(cat *catalog.Catalog, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalog: cat,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.reconciler = reconcile.New(p.thresholds, p.log)
	return p
}

// Run executes the full flow and returns the allocation result or one of
// the typed failures (RegionUnresolvedError, PopulationUnavailableError,
// NoMatchesError).
func (p *Pipeline) Run(in Input) (*Result, error) {
	r, err := region.Resolve(in.RegionCandidates...)
	if err != nil {
		return nil, &RegionUnresolvedError{Candidates: in.RegionCandidates}
	}
	p.log.Info("region resolved", zap.String("region", r.Name), zap.String("code", r.Code))

	records, err := p.catalog.Load(r)
	if err != nil {
		var notFound *catalog.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &PopulationUnavailableError{Region: notFound.Region, Available: notFound.Available}
		}
		return nil, err
	}

	reconciled, report, err := p.reconciler.Reconcile(in.Ranking, records)
	if err != nil {
		if errors.Is(err, reconcile.ErrNoMatches) {
			return nil, &NoMatchesError{Region: r.Name, Wards: len(in.Ranking)}
		}
		return nil, err
	}

	wards := make([]plan.Ward, 0, len(reconciled))
	for _, rw := range reconciled {
		wards = append(wards, plan.Ward{
			WardName:          rw.WardName,
			WardCode:          rw.WardCode,
			LGAName:           rw.LGAName,
			Rank:              rw.Rank,
			RiskScore:         rw.RiskScore,
			RiskCategory:      rw.RiskCategory,
			UrbanPct:          rw.UrbanPct,
			Population:        rw.Population,
			HasPopulationData: rw.HasPopulationData,
		})
	}

	allocation := plan.Allocate(wards, in.Params)
	stats := plan.Summarize(allocation, in.Params.TotalSupply)

	p.log.Info("allocation complete",
		zap.String("region", r.Name),
		zap.Int("wards", len(allocation)),
		zap.Int("supply", in.Params.TotalSupply),
		zap.Int("allocated", stats.TotalAllocated),
		zap.Float64("coverage_pct", stats.CoveragePct))

	return &Result{
		Region:  r,
		Records: allocation,
		Stats:   stats,
		Report:  report,
	}, nil
}

// Regions lists the regions the catalog has data for.
func (p *Pipeline) Regions() []region.Region {
	return p.catalog.Regions()
}
