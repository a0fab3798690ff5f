// Package region resolves heterogeneous state identifiers (short codes, full
// names, capital-territory aliases) to a canonical Nigerian state. The state
// table is immutable reference data; it is built once at package init and
// never mutated.
package region

import (
	"errors"
	"strings"
)

// Region identifies a canonical administrative state.
type Region struct {
	Name string // canonical name, e.g. "Adamawa"
	Code string // two-letter short code, e.g. "AD"
}

// ErrUnresolved is returned when no candidate value maps to a known state.
// It is fatal to a planning run: without a region there is no population
// data to allocate against.
var ErrUnresolved = errors.New("region: no candidate resolved to a known state")

// FCT is the canonical record for the federal capital territory, which
// appears in source data under several informal names.
var FCT = Region{Name: "Federal Capital Territory", Code: "FC"}

var states = []Region{
	{"Abia", "AB"},
	{"Adamawa", "AD"},
	{"Akwa Ibom", "AK"},
	{"Anambra", "AN"},
	{"Bauchi", "BA"},
	{"Bayelsa", "BY"},
	{"Benue", "BE"},
	{"Borno", "BO"},
	{"Cross River", "CR"},
	{"Delta", "DE"},
	{"Ebonyi", "EB"},
	{"Edo", "ED"},
	{"Ekiti", "EK"},
	{"Enugu", "EN"},
	{"Gombe", "GO"},
	{"Imo", "IM"},
	{"Jigawa", "JI"},
	{"Kaduna", "KD"},
	{"Kano", "KN"},
	{"Katsina", "KT"},
	{"Kebbi", "KE"},
	{"Kogi", "KO"},
	{"Kwara", "KW"},
	{"Lagos", "LA"},
	{"Nasarawa", "NA"},
	{"Niger", "NI"},
	{"Ogun", "OG"},
	{"Ondo", "ON"},
	{"Osun", "OS"},
	{"Oyo", "OY"},
	{"Plateau", "PL"},
	{"Rivers", "RI"},
	{"Sokoto", "SO"},
	{"Taraba", "TA"},
	{"Yobe", "YO"},
	{"Zamfara", "ZA"},
	FCT,
}

var fctAliases = map[string]bool{
	"fct":                       true,
	"abuja":                     true,
	"abuja fct":                 true,
	"federal capital territory": true,
}

var (
	byCode = make(map[string]Region, len(states))
	byName = make(map[string]Region, len(states))
)

func init() {
	for _, s := range states {
		byCode[strings.ToLower(s.Code)] = s
		byName[strings.ToLower(s.Name)] = s
	}
}

// All returns every known state in stable order.
func All() []Region {
	out := make([]Region, len(states))
	copy(out, states)
	return out
}

// Aliases returns the values that resolve to this region: its code, its
// canonical name, the "<name> State" form, and the capital-territory
// nicknames where applicable.
func (r Region) Aliases() []string {
	aliases := []string{r.Code, r.Name, r.Name + " State"}
	if r == FCT {
		aliases = append(aliases, "FCT", "Abuja", "Abuja FCT")
	}
	return aliases
}

// Resolve checks candidate values in priority order and returns the first
// one that maps to a known state. Callers pass candidates from most to least
// authoritative (shapefile field, explicit code, dataset column, session
// hint). Empty and unrecognized candidates are skipped; if none resolve,
// ErrUnresolved is returned.
func Resolve(candidates ...string) (Region, error) {
	for _, c := range candidates {
		if r, ok := resolveOne(c); ok {
			return r, nil
		}
	}
	return Region{}, ErrUnresolved
}

func resolveOne(value string) (Region, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Region{}, false
	}

	if len(v) == 2 {
		if r, ok := byCode[strings.ToLower(v)]; ok {
			return r, true
		}
	}

	lower := strings.ToLower(v)
	if r, ok := byName[lower]; ok {
		return r, true
	}
	if trimmed := strings.TrimSuffix(lower, " state"); trimmed != lower {
		if r, ok := byName[strings.TrimSpace(trimmed)]; ok {
			return r, true
		}
	}

	if fctAliases[lower] {
		return FCT, true
	}

	return Region{}, false
}
