// Package reconcile matches ward identifiers from a risk-ranking table to
// rows in a population catalog. Matching is a strict priority cascade: a
// stable ward-code lookup when both sides carry codes, then exact normalized
// name, then token-order-insensitive fuzzy, then substring-oriented fuzzy.
package reconcile

import (
	"errors"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"

	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/catalog"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/normalize"
)

// Method identifies which cascade stage produced a match.
type Method string

const (
	MethodWardCode     Method = "ward_code"
	MethodExact        Method = "exact_normalized"
	MethodFuzzyToken   Method = "fuzzy_token"
	MethodFuzzyPartial Method = "fuzzy_partial"
	MethodNone         Method = "none"
)

// ErrNoMatches is returned when zero ranked wards matched any population
// record. Allocation is meaningless without any population signal, so this
// is fatal to the run.
var ErrNoMatches = errors.New("reconcile: no ranked ward matched any population record")

// RankedWard is one row of the risk-ranking input. Rank 1 is the highest
// priority; ranks must form a total order for deterministic allocation.
type RankedWard struct {
	WardName     string
	WardCode     string
	Rank         int
	RiskScore    float64
	RiskCategory string
	UrbanPct     float64
}

// Match relates a ranked ward to at most one population record.
type Match struct {
	RankedWard  string
	MatchedWard string
	Record      *catalog.Record // nil when Method is MethodNone
	Method      Method
	Confidence  int // 0-100
}

// Thresholds configures the fuzzy stages. Scores are 0-100; a candidate
// below the stage threshold is rejected and the cascade moves on.
type Thresholds struct {
	Token   int // fuzzy token-sort acceptance, stage 3
	Partial int // fuzzy partial acceptance, stage 4; stricter because substring hits are looser
}

// DefaultThresholds returns the tuned defaults: 75 for token-sort, 90 for
// partial.
func DefaultThresholds() Thresholds {
	return Thresholds{Token: 75, Partial: 90}
}

// Report summarizes a matching pass for observability. Callers may persist
// it; producing it is part of the reconciler contract.
type Report struct {
	Total         int
	Matched       int
	Unmatched     int
	AvgConfidence float64
	ByMethod      map[Method]int
	CodeMatching  bool // true when the ward-code path was used exclusively
}

// Reconciled is a ranked ward joined with its population. Wards that failed
// to match carry the mean population of the matched wards and
// HasPopulationData=false so downstream consumers can distinguish estimated
// from measured coverage.
type Reconciled struct {
	RankedWard
	LGAName           string
	Population        float64
	Latitude          *float64
	Longitude         *float64
	MatchMethod       Method
	MatchConfidence   int
	HasPopulationData bool
}

// Reconciler matches ranked wards against population records.
type Reconciler struct {
	thresholds Thresholds
	log        *zap.Logger
}

// New creates a reconciler. Zero thresholds fall back to the defaults.
func New(thresholds Thresholds, log *zap.Logger) *Reconciler {
	defaults := DefaultThresholds()
	if thresholds.Token <= 0 {
		thresholds.Token = defaults.Token
	}
	if thresholds.Partial <= 0 {
		thresholds.Partial = defaults.Partial
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{thresholds: thresholds, log: log}
}

// Match evaluates the cascade once per ranked ward and returns one Match per
// input row, in input order, plus the match report.
func (rc *Reconciler) Match(ranked []RankedWard, records []catalog.Record) ([]Match, Report) {
	report := Report{Total: len(ranked), ByMethod: make(map[Method]int)}

	// The ward-code path is unambiguous, so when both sides carry codes it
	// is used exclusively and the name stages are skipped entirely.
	if rankedHaveCodes(ranked) && recordsHaveCodes(records) {
		report.CodeMatching = true
		matches := rc.matchByCode(ranked, records, &report)
		rc.logReport(report)
		return matches, report
	}

	matches := rc.matchByName(ranked, records, &report)
	rc.logReport(report)
	return matches, report
}

// Reconcile runs Match and joins population values onto the ranked wards.
// Unmatched wards receive the mean population of the matched wards rather
// than being dropped; if every ward is unmatched, ErrNoMatches is returned.
func (rc *Reconciler) Reconcile(ranked []RankedWard, records []catalog.Record) ([]Reconciled, Report, error) {
	matches, report := rc.Match(ranked, records)
	if report.Matched == 0 {
		return nil, report, ErrNoMatches
	}

	var popSum float64
	for _, m := range matches {
		if m.Record != nil {
			popSum += m.Record.Population
		}
	}
	meanPop := popSum / float64(report.Matched)

	out := make([]Reconciled, 0, len(ranked))
	for i, rw := range ranked {
		m := matches[i]
		rec := Reconciled{
			RankedWard:      rw,
			MatchMethod:     m.Method,
			MatchConfidence: m.Confidence,
		}
		if m.Record != nil {
			rec.LGAName = m.Record.LGAName
			rec.Population = m.Record.Population
			rec.Latitude = m.Record.Latitude
			rec.Longitude = m.Record.Longitude
			rec.HasPopulationData = true
		} else {
			rec.Population = meanPop
			rec.HasPopulationData = false
		}
		out = append(out, rec)
	}
	return out, report, nil
}

func (rc *Reconciler) matchByCode(ranked []RankedWard, records []catalog.Record, report *Report) []Match {
	index := make(map[string]*catalog.Record, len(records))
	for i := range records {
		if code := records[i].WardCode; code != "" {
			index[code] = &records[i]
		}
	}

	matches := make([]Match, 0, len(ranked))
	for _, rw := range ranked {
		if rec, ok := index[rw.WardCode]; ok && rw.WardCode != "" {
			matches = append(matches, Match{
				RankedWard:  rw.WardName,
				MatchedWard: rec.WardName,
				Record:      rec,
				Method:      MethodWardCode,
				Confidence:  100,
			})
			report.record(MethodWardCode, 100)
			continue
		}
		matches = append(matches, noMatch(rw, report))
	}
	return matches
}

func (rc *Reconciler) matchByName(ranked []RankedWard, records []catalog.Record, report *Report) []Match {
	// Normalize every population ward name once.
	type candidate struct {
		norm   string
		record *catalog.Record
	}
	candidates := make([]candidate, 0, len(records))
	exact := make(map[string]*catalog.Record, len(records))
	for i := range records {
		norm := normalize.CanonicalWard(records[i].WardName)
		if norm == "" {
			continue
		}
		candidates = append(candidates, candidate{norm: norm, record: &records[i]})
		if _, dup := exact[norm]; !dup {
			exact[norm] = &records[i]
		}
	}

	matches := make([]Match, 0, len(ranked))
	for _, rw := range ranked {
		norm := normalize.CanonicalWard(rw.WardName)
		if norm == "" {
			matches = append(matches, noMatch(rw, report))
			continue
		}

		// Stage 2: exact normalized key.
		if rec, ok := exact[norm]; ok {
			matches = append(matches, Match{
				RankedWard:  rw.WardName,
				MatchedWard: rec.WardName,
				Record:      rec,
				Method:      MethodExact,
				Confidence:  100,
			})
			report.record(MethodExact, 100)
			continue
		}

		// Stage 3: token-order-insensitive similarity against every candidate.
		bestScore, bestRec := 0, (*catalog.Record)(nil)
		for _, c := range candidates {
			if score := fuzzy.TokenSortRatio(norm, c.norm); score > bestScore {
				bestScore, bestRec = score, c.record
			}
		}
		if bestRec != nil && bestScore >= rc.thresholds.Token {
			matches = append(matches, Match{
				RankedWard:  rw.WardName,
				MatchedWard: bestRec.WardName,
				Record:      bestRec,
				Method:      MethodFuzzyToken,
				Confidence:  bestScore,
			})
			report.record(MethodFuzzyToken, bestScore)
			continue
		}

		// Stage 4: substring-oriented similarity, stricter threshold.
		bestScore, bestRec = 0, nil
		for _, c := range candidates {
			if score := fuzzy.PartialRatio(norm, c.norm); score > bestScore {
				bestScore, bestRec = score, c.record
			}
		}
		if bestRec != nil && bestScore >= rc.thresholds.Partial {
			matches = append(matches, Match{
				RankedWard:  rw.WardName,
				MatchedWard: bestRec.WardName,
				Record:      bestRec,
				Method:      MethodFuzzyPartial,
				Confidence:  bestScore,
			})
			report.record(MethodFuzzyPartial, bestScore)
			continue
		}

		matches = append(matches, noMatch(rw, report))
	}
	return matches
}

func noMatch(rw RankedWard, report *Report) Match {
	report.ByMethod[MethodNone]++
	report.Unmatched++
	return Match{RankedWard: rw.WardName, Method: MethodNone, Confidence: 0}
}

func (r *Report) record(method Method, confidence int) {
	r.ByMethod[method]++
	r.Matched++
	// Running mean over matched wards only.
	r.AvgConfidence += (float64(confidence) - r.AvgConfidence) / float64(r.Matched)
}

func (rc *Reconciler) logReport(report Report) {
	rc.log.Info("ward matching complete",
		zap.Int("total", report.Total),
		zap.Int("matched", report.Matched),
		zap.Int("unmatched", report.Unmatched),
		zap.Float64("avg_confidence", report.AvgConfidence),
		zap.Bool("code_matching", report.CodeMatching))
}

func rankedHaveCodes(ranked []RankedWard) bool {
	for _, rw := range ranked {
		if rw.WardCode != "" {
			return true
		}
	}
	return false
}

func recordsHaveCodes(records []catalog.Record) bool {
	for _, rec := range records {
		if rec.WardCode != "" {
			return true
		}
	}
	return false
}
