package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/catalog"
)

func newTestReconciler() *Reconciler {
	return New(DefaultThresholds(), nil)
}

func TestMatchByWardCode(t *testing.T) {
	ranked := []RankedWard{
		{WardName: "Girei 2", WardCode: "AD0101", Rank: 1},
		{WardName: "Yelwa", WardCode: "AD0199", Rank: 2}, // code with no population row
	}
	records := []catalog.Record{
		{WardName: "Girei II", WardCode: "AD0101", Population: 1000},
		{WardName: "Yelwa", WardCode: "AD0102", Population: 800},
	}

	matches, report := newTestReconciler().Match(ranked, records)
	require.Len(t, matches, 2)
	assert.True(t, report.CodeMatching)

	assert.Equal(t, MethodWardCode, matches[0].Method)
	assert.Equal(t, "Girei II", matches[0].MatchedWard)
	assert.Equal(t, 100, matches[0].Confidence)

	// Code matching is exclusive: even though "Yelwa" would match exactly by
	// name, a missing code means no match.
	assert.Equal(t, MethodNone, matches[1].Method)
	assert.Nil(t, matches[1].Record)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.Unmatched)
}

func TestMatchExactNormalized(t *testing.T) {
	ranked := []RankedWard{{WardName: "Girei II", Rank: 1}}
	records := []catalog.Record{
		{WardName: "girei 2", Population: 1000},
		{WardName: "Yelwa", Population: 800},
	}

	matches, report := newTestReconciler().Match(ranked, records)
	require.Len(t, matches, 1)
	assert.False(t, report.CodeMatching)
	assert.Equal(t, MethodExact, matches[0].Method)
	assert.Equal(t, "girei 2", matches[0].MatchedWard)
	assert.Equal(t, 100, matches[0].Confidence)
}

func TestMatchFuzzyToken(t *testing.T) {
	// Token order differs and one token has a typo; token-sort similarity
	// stays comfortably above the default threshold.
	ranked := []RankedWard{{WardName: "Nort Madagali", Rank: 1}}
	records := []catalog.Record{
		{WardName: "Madagali North", Population: 1000},
		{WardName: "Shelleng", Population: 500},
	}

	matches, _ := newTestReconciler().Match(ranked, records)
	require.Len(t, matches, 1)
	assert.Equal(t, MethodFuzzyToken, matches[0].Method)
	assert.Equal(t, "Madagali North", matches[0].MatchedWard)
	assert.GreaterOrEqual(t, matches[0].Confidence, 75)
}

func TestMatchFuzzyPartial(t *testing.T) {
	// "dumne" is a clean substring of "dumne town" but the length difference
	// keeps the token-sort score below threshold.
	ranked := []RankedWard{{WardName: "Dumne", Rank: 1}}
	records := []catalog.Record{
		{WardName: "Dumne Town Central", Population: 900},
		{WardName: "Shelleng", Population: 500},
	}

	matches, _ := newTestReconciler().Match(ranked, records)
	require.Len(t, matches, 1)
	assert.Equal(t, MethodFuzzyPartial, matches[0].Method)
	assert.Equal(t, "Dumne Town Central", matches[0].MatchedWard)
	assert.GreaterOrEqual(t, matches[0].Confidence, 90)
}

func TestMatchNone(t *testing.T) {
	ranked := []RankedWard{{WardName: "Quxzibar", Rank: 1}}
	records := []catalog.Record{{WardName: "Shelleng", Population: 500}}

	matches, report := newTestReconciler().Match(ranked, records)
	require.Len(t, matches, 1)
	assert.Equal(t, MethodNone, matches[0].Method)
	assert.Equal(t, 0, matches[0].Confidence)
	assert.Equal(t, 0, report.Matched)
	assert.Equal(t, 1, report.Unmatched)
}

func TestNoCodeOverlapFallsThroughToNames(t *testing.T) {
	// Ranking has no codes at all, so the code path is unavailable even
	// though population records carry codes; the name cascade still matches.
	ranked := []RankedWard{
		{WardName: "Girei II", Rank: 1},
		{WardName: "Nort Madagali", Rank: 2},
	}
	records := []catalog.Record{
		{WardName: "Girei 2", WardCode: "AD0101", Population: 1000},
		{WardName: "Madagali North", WardCode: "AD0102", Population: 700},
	}

	matches, report := newTestReconciler().Match(ranked, records)
	assert.False(t, report.CodeMatching)
	assert.Equal(t, MethodExact, matches[0].Method)
	assert.Equal(t, MethodFuzzyToken, matches[1].Method)
	assert.Equal(t, 2, report.Matched)
}

func TestReconcileImputesMeanForUnmatched(t *testing.T) {
	ranked := []RankedWard{
		{WardName: "Girei II", Rank: 1},
		{WardName: "Shelleng", Rank: 2},
		{WardName: "Quxzibar", Rank: 3},
	}
	records := []catalog.Record{
		{WardName: "Girei 2", LGAName: "Girei", Population: 1200},
		{WardName: "Shelleng", LGAName: "Shelleng", Population: 800},
	}

	out, report, err := newTestReconciler().Reconcile(ranked, records)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.True(t, out[0].HasPopulationData)
	assert.Equal(t, 1200.0, out[0].Population)
	assert.Equal(t, "Girei", out[0].LGAName)

	assert.True(t, out[1].HasPopulationData)

	// Unmatched ward gets the mean of the matched populations.
	assert.False(t, out[2].HasPopulationData)
	assert.Equal(t, 1000.0, out[2].Population)
	assert.Equal(t, MethodNone, out[2].MatchMethod)

	assert.Equal(t, 2, report.Matched)
	assert.InDelta(t, 100.0, report.AvgConfidence, 1e-9)
}

func TestReconcileAllUnmatchedFails(t *testing.T) {
	ranked := []RankedWard{{WardName: "Quxzibar", Rank: 1}}
	records := []catalog.Record{{WardName: "Shelleng", Population: 500}}

	_, _, err := newTestReconciler().Reconcile(ranked, records)
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestDuplicateWardNamesMatchableByCode(t *testing.T) {
	// Two Falgore wards in different LGAs stay distinct and are matched
	// independently through their codes.
	ranked := []RankedWard{
		{WardName: "Falgore", WardCode: "KN2001", Rank: 1},
		{WardName: "Falgore", WardCode: "KN2101", Rank: 2},
	}
	records := []catalog.Record{
		{WardName: "Falgore", WardCode: "KN2001", LGAName: "Doguwa", Population: 600},
		{WardName: "Falgore", WardCode: "KN2101", LGAName: "Tudun Wada", Population: 400},
	}

	out, _, err := newTestReconciler().Reconcile(ranked, records)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Doguwa", out[0].LGAName)
	assert.Equal(t, 600.0, out[0].Population)
	assert.Equal(t, "Tudun Wada", out[1].LGAName)
	assert.Equal(t, 400.0, out[1].Population)
}

func TestThresholdTuning(t *testing.T) {
	// A stricter token threshold rejects what the default accepts.
	ranked := []RankedWard{{WardName: "Nort Madagali", Rank: 1}}
	records := []catalog.Record{{WardName: "Madagali North", Population: 700}}

	strict := New(Thresholds{Token: 99, Partial: 99}, nil)
	matches, _ := strict.Match(ranked, records)
	assert.Equal(t, MethodNone, matches[0].Method)
}
