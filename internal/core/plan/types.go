package plan

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Meal identifies one of the three meal rows in the plan grid.
type Meal string

const (
	MealBrunch Meal = "brunch"
	MealLunch  Meal = "lunch"
	MealDinner Meal = "dinner"
)

// BrunchCategory is the pool category for brunch slots. Brunch has no
// per-category breakdown, so the category key is a constant.
const BrunchCategory = "brunch"

// Recipe is the read-only recipe shape served by the lookup service.
type Recipe struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Time            string   `json:"time"`
	BaseServings    int      `json:"base_servings"`
	IngredientLines []string `json:"ingredient_lines"`
}

// PlacedRecipe is a recipe placed into a slot with a user-adjustable
// serving count, independent of the recipe's base servings.
type PlacedRecipe struct {
	Recipe
	SelectedServings int `json:"selected_servings"`
}

// Normalized returns the placed recipe with serving defaults applied.
func (p PlacedRecipe) Normalized(defaultServings int) PlacedRecipe {
	if p.SelectedServings >= 1 {
		return p
	}
	if p.BaseServings >= 1 {
		p.SelectedServings = p.BaseServings
	} else if defaultServings >= 1 {
		p.SelectedServings = defaultServings
	} else {
		p.SelectedServings = 1
	}
	return p
}

// SlotKey identifies one (day, meal, category) position in the grid.
type SlotKey struct {
	Day      int
	Meal     Meal
	Category string
}

// String returns the stable "<day>:<meal>:<category>" form used for
// persistence and logging.
func (k SlotKey) String() string {
	return fmt.Sprintf("%d:%s:%s", k.Day, k.Meal, k.Category)
}

// ParseSlotKey parses the string form produced by SlotKey.String.
func ParseSlotKey(s string) (SlotKey, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return SlotKey{}, fmt.Errorf("malformed slot key %q", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 0 {
		return SlotKey{}, fmt.Errorf("malformed slot key %q: bad day index", s)
	}
	meal := Meal(parts[1])
	switch meal {
	case MealBrunch, MealLunch, MealDinner:
	default:
		return SlotKey{}, fmt.Errorf("malformed slot key %q: unknown meal", s)
	}
	if parts[2] == "" {
		return SlotKey{}, fmt.Errorf("malformed slot key %q: empty category", s)
	}
	return SlotKey{Day: day, Meal: meal, Category: parts[2]}, nil
}

// EnabledMeals records which of the toggleable meals are active for a day.
// Brunch is always present and has no toggle.
type EnabledMeals struct {
	Lunch  bool `json:"lunch"`
	Dinner bool `json:"dinner"`
}

// MenuDay is one day of the plan. A nil lunch/dinner map means the meal is
// disabled; a nil entry inside the map means the slot exists but is empty.
type MenuDay struct {
	DayIndex     int                      `json:"day_index"`
	Date         time.Time                `json:"date"`
	EnabledMeals EnabledMeals             `json:"enabled_meals"`
	Brunch       *PlacedRecipe            `json:"brunch"`
	Lunch        map[string]*PlacedRecipe `json:"lunch,omitempty"`
	Dinner       map[string]*PlacedRecipe `json:"dinner,omitempty"`
}

// Plan is the whole meal plan grid.
type Plan struct {
	StartDate        time.Time `json:"start_date"`
	ActiveCategories []string  `json:"active_categories"`
	Days             []MenuDay `json:"menu_days"`
}

func (d MenuDay) clone() MenuDay {
	out := d
	out.Brunch = clonePlaced(d.Brunch)
	out.Lunch = cloneSlots(d.Lunch)
	out.Dinner = cloneSlots(d.Dinner)
	return out
}

func clonePlaced(p *PlacedRecipe) *PlacedRecipe {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func cloneSlots(slots map[string]*PlacedRecipe) map[string]*PlacedRecipe {
	if slots == nil {
		return nil
	}
	out := make(map[string]*PlacedRecipe, len(slots))
	for cat, v := range slots {
		out[cat] = clonePlaced(v)
	}
	return out
}

// Clone returns a deep copy of the plan. All mutating operations work on a
// copy so a generation pass becomes visible as a whole or not at all.
func (p *Plan) Clone() *Plan {
	out := &Plan{
		StartDate:        p.StartDate,
		ActiveCategories: append([]string(nil), p.ActiveCategories...),
		Days:             make([]MenuDay, len(p.Days)),
	}
	for i, d := range p.Days {
		out.Days[i] = d.clone()
	}
	return out
}
