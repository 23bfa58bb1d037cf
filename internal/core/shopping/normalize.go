package shopping

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unitAliases maps cleaned unit spellings (lowercase, diacritics stripped,
// parentheses and periods removed) to their canonical short form.
var unitAliases = map[string]string{
	"g":           "g",
	"gr":          "g",
	"gramme":      "g",
	"grammes":     "g",
	"kg":          "kg",
	"kilo":        "kg",
	"kilos":       "kg",
	"kilogramme":  "kg",
	"kilogrammes": "kg",
	"ml":          "ml",
	"millilitre":  "ml",
	"millilitres": "ml",
	"cl":          "cl",
	"centilitre":  "cl",
	"centilitres": "cl",
	"l":           "l",
	"litre":       "l",
	"litres":      "l",
	"piece":       "pièce",
	"pieces":      "pièce",
	"cas":         "càs",
	"cs":          "càs",
	"cac":         "càc",
	"cc":          "càc",
	"pincee":      "pincée",
	"pincees":     "pincée",
	"tranche":     "tranche",
	"tranches":    "tranche",
}

// leadingArticles are stripped once from the front of a label key.
var leadingArticles = map[string]struct{}{
	"de":  {},
	"du":  {},
	"des": {},
	"la":  {},
	"le":  {},
	"les": {},
	"un":  {},
	"une": {},
}

// LookupUnit tests a token against the unit alias table and returns its
// canonical short form.
func LookupUnit(token string) (string, bool) {
	canonical, ok := unitAliases[cleanUnitToken(token)]
	return canonical, ok
}

// NormalizeUnit canonicalizes a unit token, falling back to the cleaned
// token itself when unrecognized.
func NormalizeUnit(token string) string {
	cleaned := cleanUnitToken(token)
	if canonical, ok := unitAliases[cleaned]; ok {
		return canonical
	}
	return cleaned
}

func cleanUnitToken(token string) string {
	cleaned := strings.ToLower(token)
	cleaned = stripDiacritics(cleaned)
	cleaned = strings.NewReplacer("(", "", ")", "", ".", "").Replace(cleaned)
	return cleaned
}

// NormalizeLabelKey produces the grouping key for an ingredient label:
// spelling, plural and article variations of the same ingredient collapse to
// the same key. The original label text is kept elsewhere for display.
func NormalizeLabelKey(label string) string {
	key := strings.ToLower(label)
	key = stripDiacritics(key)
	key = strings.Join(strings.Fields(key), " ")
	key = stripLeadingArticle(key)
	key = stripPartitives(key)

	words := strings.Fields(key)
	for i, w := range words {
		words[i] = singularize(w)
	}
	result := strings.Join(words, " ")
	if result == "" {
		return strings.Join(strings.Fields(stripDiacritics(strings.ToLower(label))), " ")
	}
	return result
}

func stripLeadingArticle(s string) string {
	if rest, ok := strings.CutPrefix(s, "d'"); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(s, "l'"); ok {
		return strings.TrimSpace(rest)
	}
	first, rest, found := strings.Cut(s, " ")
	if !found {
		return s
	}
	if _, ok := leadingArticles[first]; ok {
		return rest
	}
	return s
}

func stripPartitives(s string) string {
	s = strings.ReplaceAll(s, " de ", " ")
	s = strings.ReplaceAll(s, " du ", " ")
	s = strings.ReplaceAll(s, " des ", " ")
	s = strings.ReplaceAll(s, " d'", " ")
	return strings.Join(strings.Fields(s), " ")
}

// singularize applies a small French plural heuristic. Words of three runes
// or fewer are left alone to avoid mangling short nouns.
func singularize(w string) string {
	if utf8.RuneCountInString(w) <= 3 {
		return w
	}
	if strings.HasSuffix(w, "oeufs") {
		return strings.TrimSuffix(w, "s")
	}
	if strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is") {
		return strings.TrimSuffix(w, "s")
	}
	if strings.HasSuffix(w, "x") && !strings.HasSuffix(w, "eaux") {
		return strings.TrimSuffix(w, "x")
	}
	return w
}

// stripDiacritics removes combining marks ("pincée" → "pincee") and expands
// the œ ligature, which does not decompose under NFD.
func stripDiacritics(s string) string {
	s = strings.NewReplacer("œ", "oe", "Œ", "Oe").Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
