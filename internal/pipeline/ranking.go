package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/reconcile"
)

// DefaultUrbanPct is assumed when the ranking omits an urban-percentage
// column or value.
const DefaultUrbanPct = 50.0

var (
	rankingWardColumns  = []string{"ward", "ward_name", "wardname"}
	rankingCodeColumns  = []string{"ward_code", "wardcode", "ward_id", "code"}
	rankingRankColumns  = []string{"rank", "risk_rank"}
	rankingScoreColumns = []string{"risk_score", "score", "tpr"}
	rankingCatColumns   = []string{"risk_category", "category", "risk_level"}
	rankingUrbanColumns = []string{"urban_pct", "urban_percentage", "pct_urban"}
)

// LoadRankingCSV reads a risk-ranking table. Ward and rank columns are
// required; ranks must be unique since allocation order depends on a total
// order. Rows that cannot be parsed are skipped with a warning rather than
// aborting the load.
func LoadRankingCSV(path string) ([]reconcile.RankedWard, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open ranking CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read ranking header: %w", err)
	}

	wardCol, ok := findColumn(header, rankingWardColumns)
	if !ok {
		return nil, nil, errors.New("ranking CSV has no ward column")
	}
	rankCol, ok := findColumn(header, rankingRankColumns)
	if !ok {
		return nil, nil, errors.New("ranking CSV has no rank column")
	}
	codeCol, hasCode := findColumn(header, rankingCodeColumns)
	scoreCol, hasScore := findColumn(header, rankingScoreColumns)
	catCol, hasCat := findColumn(header, rankingCatColumns)
	urbanCol, hasUrban := findColumn(header, rankingUrbanColumns)

	var ranked []reconcile.RankedWard
	var warnings []string
	seenRanks := make(map[int]string)
	line := 1
	for {
		line++
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		ward := field(row, wardCol)
		if ward == "" {
			warnings = append(warnings, fmt.Sprintf("line %d: missing ward name", line))
			continue
		}
		rank, err := strconv.Atoi(field(row, rankCol))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: invalid rank", line))
			continue
		}
		if prev, dup := seenRanks[rank]; dup {
			return nil, warnings, fmt.Errorf("duplicate rank %d (%s and %s): ranks must be a total order", rank, prev, ward)
		}
		seenRanks[rank] = ward

		rw := reconcile.RankedWard{
			WardName: ward,
			Rank:     rank,
			UrbanPct: DefaultUrbanPct,
		}
		if hasCode {
			rw.WardCode = field(row, codeCol)
		}
		if hasScore {
			if v, err := strconv.ParseFloat(field(row, scoreCol), 64); err == nil {
				rw.RiskScore = v
			}
		}
		if hasCat {
			rw.RiskCategory = field(row, catCol)
		}
		if hasUrban {
			if v, err := strconv.ParseFloat(field(row, urbanCol), 64); err == nil {
				rw.UrbanPct = v
			}
		}
		ranked = append(ranked, rw)
	}

	if len(ranked) == 0 {
		return nil, warnings, errors.New("ranking CSV contains no usable rows")
	}
	return ranked, warnings, nil
}

func findColumn(header []string, aliases []string) (int, bool) {
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		for _, alias := range aliases {
			if key == alias {
				return i, true
			}
		}
	}
	return 0, false
}

func field(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
