package planning

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ExposureRule maps a format-name substring to per-face audience
// exposure factors. The digital flag on the item selects between the two
// factors for formats sold in both variants (shelters, totems).
type ExposureRule struct {
	Substring     string
	StaticFactor  int64
	DigitalFactor int64
}

// ExposureTable is the fixed business rule set converting a committed
// quantity into an estimated audience reach. UI feedback and efficiency
// scoring are calibrated against these exact values, so the table is
// injected configuration rather than hard-coded branching.
type ExposureTable struct {
	Rules          []ExposureRule
	DefaultStatic  int64
	DefaultDigital int64
}

// DefaultExposureTable returns the production exposure factors.
// Rules are evaluated in order; the first substring match wins.
func DefaultExposureTable() ExposureTable {
	return ExposureTable{
		Rules: []ExposureRule{
			{Substring: "empena", StaticFactor: 50000, DigitalFactor: 50000},
			{Substring: "painel", StaticFactor: 50000, DigitalFactor: 50000},
			{Substring: "metro", StaticFactor: 45000, DigitalFactor: 45000},
			{Substring: "aeroporto", StaticFactor: 40000, DigitalFactor: 40000},
			{Substring: "shopping", StaticFactor: 35000, DigitalFactor: 35000},
			{Substring: "parque", StaticFactor: 30000, DigitalFactor: 30000},
			{Substring: "abrigo", StaticFactor: 20000, DigitalFactor: 25000},
			{Substring: "onibus", StaticFactor: 20000, DigitalFactor: 25000},
			{Substring: "mub", StaticFactor: 22000, DigitalFactor: 22000},
			{Substring: "banca", StaticFactor: 22000, DigitalFactor: 22000},
			{Substring: "totem", StaticFactor: 18000, DigitalFactor: 28000},
			{Substring: "circuito", StaticFactor: 20000, DigitalFactor: 20000},
			{Substring: "backbus", StaticFactor: 18000, DigitalFactor: 18000},
			{Substring: "backseat", StaticFactor: 8000, DigitalFactor: 8000},
			{Substring: "envelopamento", StaticFactor: 35000, DigitalFactor: 35000},
			{Substring: "exterior", StaticFactor: 25000, DigitalFactor: 25000},
		},
		DefaultStatic:  12000,
		DefaultDigital: 15000,
	}
}

// normalizeFormat lowercases a format name and strips diacritics, so
// inventory names like "Metrô" and "Ônibus" resolve the same rules as
// their unaccented substrings.
func normalizeFormat(s string) string {
	lower := strings.ToLower(s)
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), lower)
	if err != nil {
		return lower
	}
	return stripped
}

// Factor returns the per-face audience exposure for a format. Lookup is
// by case- and accent-insensitive substring match on the format name;
// the digital flag picks the variant for ambiguous formats, and
// unmatched formats fall back to the defaults.
func (t ExposureTable) Factor(format string, digital bool) int64 {
	lower := normalizeFormat(format)
	for _, rule := range t.Rules {
		if strings.Contains(lower, rule.Substring) {
			if digital {
				return rule.DigitalFactor
			}
			return rule.StaticFactor
		}
	}
	if digital {
		return t.DefaultDigital
	}
	return t.DefaultStatic
}

// EstimatedExposure converts a committed quantity into aggregate
// audience exposure.
func EstimatedExposure(quantity int, factor int64) int64 {
	return int64(quantity) * factor
}
