package shopping

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParsedLine is one free-text ingredient line split into a quantity, a
// canonical unit and a label. A nil quantity means the line carries no
// numeric amount ("sel"); the unit is then always empty.
type ParsedLine struct {
	Raw      string
	Quantity *float64
	Unit     string
	Label    string
}

var (
	numberPattern   = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// ParseLine parses a raw ingredient line. The grammar is an optional leading
// quantity token, an optional unit token, then the label. Parsing never
// fails: an unparsable prefix simply stays part of the label.
func ParseLine(raw string) ParsedLine {
	fields := strings.Fields(raw)
	trimmed := strings.Join(fields, " ")
	if trimmed == "" {
		return ParsedLine{Raw: raw}
	}

	quantity, ok := ParseQuantity(fields[0])
	if !ok || len(fields) == 1 {
		// No leading quantity, or nothing left for a label.
		return ParsedLine{Raw: raw, Label: trimmed}
	}

	rest := fields[1:]
	if canonical, isUnit := LookupUnit(rest[0]); isUnit && len(rest) > 1 {
		return ParsedLine{
			Raw:      raw,
			Quantity: &quantity,
			Unit:     canonical,
			Label:    strings.Join(rest[1:], " "),
		}
	}

	// Either the token after the quantity is not a unit, or consuming it
	// would leave the label empty. In both cases the remainder is the label.
	return ParsedLine{
		Raw:      raw,
		Quantity: &quantity,
		Label:    strings.Join(rest, " "),
	}
}

// ParseQuantity parses an integer ("200"), a decimal with comma or dot
// ("1,5", "1.5") or a simple fraction ("1/2").
func ParseQuantity(token string) (float64, bool) {
	if m := fractionPattern.FindStringSubmatch(token); m != nil {
		numerator, _ := strconv.ParseFloat(m[1], 64)
		denominator, _ := strconv.ParseFloat(m[2], 64)
		if denominator == 0 {
			return 0, false
		}
		return numerator / denominator, true
	}
	if numberPattern.MatchString(token) {
		value, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

// FormatQuantity renders a quantity for display: integers without decimals,
// everything else rounded to two decimals with a comma separator, per the
// locale convention used throughout the UI.
func FormatQuantity(q float64) string {
	rounded := math.Round(q*100) / 100
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return strings.ReplaceAll(s, ".", ",")
}
