package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/region"
)

// ErrNoData marks a source that has nothing for the requested region; the
// catalog moves on to the next layout.
var ErrNoData = errors.New("catalog: no data for region")

// Column aliases seen across dataset vintages. Headers are matched
// case-insensitively after trimming.
var (
	wardColumns       = []string{"ward", "ward_name", "wardname"}
	codeColumns       = []string{"ward_code", "wardcode", "ward_id", "code"}
	lgaColumns        = []string{"lga", "lga_name", "lganame", "district"}
	populationColumns = []string{"population", "pop", "total_population"}
	membersColumns    = []string{"num_family_members", "family_members", "household_members", "members"}
	latitudeColumns   = []string{"latitude", "lat", "y"}
	longitudeColumns  = []string{"longitude", "lon", "long", "x"}
)

// UnifiedSource reads the modern layout: one aggregated row per ward in
// <dir>/<state_slug>_wards.csv.
type UnifiedSource struct {
	Dir string
}

// Name implements Source.
func (s *UnifiedSource) Name() string { return "unified" }

// Load implements Source.
func (s *UnifiedSource) Load(r region.Region) ([]Record, error) {
	rows, header, err := readCSVFile(filepath.Join(s.Dir, fileSlug(r)+"_wards.csv"))
	if err != nil {
		return nil, err
	}

	wardCol, ok := findColumn(header, wardColumns)
	if !ok {
		return nil, fmt.Errorf("unified layout for %s: no ward column", r.Name)
	}
	popCol, ok := findColumn(header, populationColumns)
	if !ok {
		return nil, fmt.Errorf("unified layout for %s: no population column", r.Name)
	}
	codeCol, hasCode := findColumn(header, codeColumns)
	lgaCol, hasLGA := findColumn(header, lgaColumns)
	latCol, hasLat := findColumn(header, latitudeColumns)
	lonCol, hasLon := findColumn(header, longitudeColumns)

	var records []Record
	for _, row := range rows {
		ward := field(row, wardCol)
		if ward == "" {
			continue
		}
		pop, err := parsePopulation(field(row, popCol))
		if err != nil {
			// Rows with missing or non-numeric population are dropped.
			continue
		}

		rec := Record{WardName: ward, Population: pop}
		if hasCode {
			rec.WardCode = field(row, codeCol)
		}
		if hasLGA {
			rec.LGAName = field(row, lgaCol)
		}
		if hasLat {
			rec.Latitude = parseCoord(field(row, latCol))
		}
		if hasLon {
			rec.Longitude = parseCoord(field(row, lonCol))
		}
		records = append(records, rec)
	}
	return records, nil
}

// Regions implements Source.
func (s *UnifiedSource) Regions() ([]region.Region, error) {
	return globRegions(s.Dir, "_wards.csv")
}

// LegacySource reads the per-distribution-point layout in
// <dir>/<state_slug>_itn_points.csv. Many rows map to one ward; they are
// aggregated by (ward, LGA), summing family-member counts as the population
// proxy and averaging coordinates. Ward names repeating across LGAs stay
// distinct records.
type LegacySource struct {
	Dir string
}

// Name implements Source.
func (s *LegacySource) Name() string { return "legacy" }

// Load implements Source.
func (s *LegacySource) Load(r region.Region) ([]Record, error) {
	rows, header, err := readCSVFile(filepath.Join(s.Dir, fileSlug(r)+"_itn_points.csv"))
	if err != nil {
		return nil, err
	}

	wardCol, ok := findColumn(header, wardColumns)
	if !ok {
		return nil, fmt.Errorf("legacy layout for %s: no ward column", r.Name)
	}
	membersCol, ok := findColumn(header, membersColumns)
	if !ok {
		return nil, fmt.Errorf("legacy layout for %s: no family-members column", r.Name)
	}
	lgaCol, hasLGA := findColumn(header, lgaColumns)
	latCol, hasLat := findColumn(header, latitudeColumns)
	lonCol, hasLon := findColumn(header, longitudeColumns)

	type aggregate struct {
		record   Record
		latSum   float64
		latCount int
		lonSum   float64
		lonCount int
	}
	type wardKey struct {
		ward string
		lga  string
	}

	groups := make(map[wardKey]*aggregate)
	var order []wardKey

	for _, row := range rows {
		ward := field(row, wardCol)
		if ward == "" {
			continue
		}
		members, err := parsePopulation(field(row, membersCol))
		if err != nil {
			continue
		}
		lga := ""
		if hasLGA {
			lga = field(row, lgaCol)
		}

		key := wardKey{ward: strings.ToLower(ward), lga: strings.ToLower(lga)}
		agg, ok := groups[key]
		if !ok {
			agg = &aggregate{record: Record{WardName: ward, LGAName: lga}}
			groups[key] = agg
			order = append(order, key)
		}
		agg.record.Population += members

		if hasLat {
			if v := parseCoord(field(row, latCol)); v != nil {
				agg.latSum += *v
				agg.latCount++
			}
		}
		if hasLon {
			if v := parseCoord(field(row, lonCol)); v != nil {
				agg.lonSum += *v
				agg.lonCount++
			}
		}
	}

	records := make([]Record, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		if agg.latCount > 0 {
			lat := agg.latSum / float64(agg.latCount)
			agg.record.Latitude = &lat
		}
		if agg.lonCount > 0 {
			lon := agg.lonSum / float64(agg.lonCount)
			agg.record.Longitude = &lon
		}
		records = append(records, agg.record)
	}
	return records, nil
}

// Regions implements Source.
func (s *LegacySource) Regions() ([]region.Region, error) {
	return globRegions(s.Dir, "_itn_points.csv")
}

// fileSlug maps a region to its file-name form: "Akwa Ibom" -> "akwa_ibom".
func fileSlug(r region.Region) string {
	return strings.ReplaceAll(strings.ToLower(r.Name), " ", "_")
}

func globRegions(dir, suffix string) ([]region.Region, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var regions []region.Region
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		slug := strings.TrimSuffix(name, suffix)
		r, err := region.Resolve(strings.ReplaceAll(slug, "_", " "))
		if err != nil {
			continue
		}
		regions = append(regions, r)
	}
	return regions, nil
}

// readCSVFile reads and decodes a CSV file, returning its data rows and
// header. A missing file maps to ErrNoData.
func readCSVFile(path string) ([][]string, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNoData
		}
		return nil, nil, err
	}

	decoded, err := decodeBytes(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, ErrNoData
		}
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// decodeStrategies are tried in order; the first success wins. Field data
// arrives in UTF-8, UTF-8 with a BOM, or Windows-1252 depending on which
// tool exported it.
var decodeStrategies = []struct {
	name   string
	decode func([]byte) ([]byte, error)
}{
	{"utf-8", decodeUTF8},
	{"utf-8-bom", decodeUTF8BOM},
	{"windows-1252", decodeWindows1252},
}

func decodeBytes(raw []byte) ([]byte, error) {
	var failures []string
	for _, strat := range decodeStrategies {
		decoded, err := strat.decode(raw)
		if err == nil {
			return decoded, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", strat.name, err))
	}
	return nil, fmt.Errorf("no decoding strategy succeeded (%s)", strings.Join(failures, "; "))
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeUTF8(raw []byte) ([]byte, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		return nil, errors.New("leading byte order mark")
	}
	if !utf8.Valid(raw) {
		return nil, errors.New("invalid utf-8")
	}
	return raw, nil
}

func decodeUTF8BOM(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, utf8BOM) {
		return nil, errors.New("no byte order mark")
	}
	stripped := raw[len(utf8BOM):]
	if !utf8.Valid(stripped) {
		return nil, errors.New("invalid utf-8 after byte order mark")
	}
	return stripped, nil
}

func decodeWindows1252(raw []byte) ([]byte, error) {
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	return decoded, err
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

// parsePopulation coerces a population-like cell, tolerating thousands
// separators. Negative and non-numeric values are rejected.
func parsePopulation(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, errors.New("empty")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.New("negative population")
	}
	return v, nil
}

func parseCoord(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
