package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Parenthetical qualifiers like "Ajingi (F)" carry no matching signal.
var reParenthetical = regexp.MustCompile(`\([^)]*\)`)

// Trailing administrative suffix: "Gombi Ward" and "Gombi" are the same ward.
var reWardSuffix = regexp.MustCompile(`\s+wards?$`)

var separatorFolder = strings.NewReplacer("/", " ", "-", " ", "_", " ")

// Roman numeral replacements are ordered longest-first so VIII is not
// consumed as V + III. Applied at word boundaries only: "Girei II" becomes
// "girei 2" but "Bili" stays untouched.
var romanNumerals = []struct {
	re    *regexp.Regexp
	digit string
}{
	{regexp.MustCompile(`\bviii\b`), "8"},
	{regexp.MustCompile(`\bvii\b`), "7"},
	{regexp.MustCompile(`\bvi\b`), "6"},
	{regexp.MustCompile(`\biv\b`), "4"},
	{regexp.MustCompile(`\biii\b`), "3"},
	{regexp.MustCompile(`\bii\b`), "2"},
	{regexp.MustCompile(`\bix\b`), "9"},
	{regexp.MustCompile(`\bv\b`), "5"},
	{regexp.MustCompile(`\bi\b`), "1"},
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CanonicalWard normalizes a raw ward label into a comparison key. It is the
// basis for both exact and fuzzy matching, so it must be pure and stable:
// the same input always yields the same output, and normalizing twice is a
// no-op. Empty or blank input normalizes to the empty string.
func CanonicalWard(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	s = stripDiacritics(s)
	s = reParenthetical.ReplaceAllString(s, " ")

	for _, rn := range romanNumerals {
		s = rn.re.ReplaceAllString(s, rn.digit)
	}

	s = strings.Join(strings.Fields(s), " ")
	s = reWardSuffix.ReplaceAllString(s, "")
	s = separatorFolder.Replace(s)

	return strings.Join(strings.Fields(s), " ")
}

// stripDiacritics folds accented characters to their base form. Ward names
// appear with and without diacritics across dataset vintages.
func stripDiacritics(s string) string {
	folded, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return folded
}

// IsBlank reports whether a ward label is effectively empty after
// normalization.
func IsBlank(raw string) bool {
	return CanonicalWard(raw) == ""
}
