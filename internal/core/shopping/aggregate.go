package shopping

import (
	"sort"

	"menu-planner/internal/core/plan"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// groupKey matches equivalent ingredients across recipes. Lines from
// different meals and categories merge whenever unit and label key match;
// that mirrors the product behavior and is deliberate.
type groupKey struct {
	unit  string
	label string
}

type quantityGroup struct {
	display string
	unit    string
	total   float64
}

// BuildList aggregates every ingredient line of every placed recipe in the
// plan into one sorted shopping list. Pure with respect to the plan: the
// same placed recipes and servings always produce the same list.
func BuildList(p *plan.Plan) []string {
	sums := make(map[groupKey]*quantityGroup)
	singles := make(map[groupKey]string)

	for _, placed := range p.PlacedRecipes() {
		multiplier := Multiplier(placed.SelectedServings, placed.BaseServings)
		for _, raw := range placed.IngredientLines {
			line := Scale(ParseLine(raw), multiplier)
			if line.Label == "" {
				continue
			}
			key := groupKey{unit: line.Unit, label: NormalizeLabelKey(line.Label)}

			if line.Quantity == nil {
				// Label-only lines are deduplicated, never summed.
				if _, seen := singles[key]; !seen {
					singles[key] = line.Label
				}
				continue
			}

			if group, ok := sums[key]; ok {
				group.total += *line.Quantity
			} else {
				// First-seen label text wins for display.
				sums[key] = &quantityGroup{
					display: line.Label,
					unit:    line.Unit,
					total:   *line.Quantity,
				}
			}
		}
	}

	out := make([]string, 0, len(sums)+len(singles))
	for _, group := range sums {
		entry := FormatQuantity(group.total)
		if group.unit != "" {
			entry += " " + group.unit
		}
		entry += " " + group.display
		out = append(out, entry)
	}
	for _, label := range singles {
		out = append(out, label)
	}

	collator := collate.New(language.French)
	sort.Slice(out, func(i, j int) bool {
		return collator.CompareString(out[i], out[j]) < 0
	})
	return out
}
