package shopping

import (
	"reflect"
	"testing"
	"time"

	"menu-planner/internal/core/plan"
)

func testDate() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func placed(id, title string, base, selected int, lines ...string) *plan.PlacedRecipe {
	return &plan.PlacedRecipe{
		Recipe: plan.Recipe{
			ID:              id,
			Title:           title,
			BaseServings:    base,
			IngredientLines: lines,
		},
		SelectedServings: selected,
	}
}

func onePlanDay(slots map[string]*plan.PlacedRecipe) *plan.Plan {
	categories := make([]string, 0, len(slots))
	for cat := range slots {
		categories = append(categories, cat)
	}
	// Deterministic category order for the tests.
	for i := 0; i < len(categories); i++ {
		for j := i + 1; j < len(categories); j++ {
			if categories[j] < categories[i] {
				categories[i], categories[j] = categories[j], categories[i]
			}
		}
	}
	return &plan.Plan{
		ActiveCategories: categories,
		Days: []plan.MenuDay{{
			DayIndex:     0,
			EnabledMeals: plan.EnabledMeals{Lunch: true},
			Lunch:        slots,
		}},
	}
}

func TestBuildListSumsScaledQuantities(t *testing.T) {
	// Recipe A at multiplier 1 contributes 2 oeufs, recipe B at multiplier 2
	// contributes 4: one line totaling 6.
	p := onePlanDay(map[string]*plan.PlacedRecipe{
		"plat":    placed("a", "Omelette", 2, 2, "2 oeufs"),
		"dessert": placed("b", "Crêpes", 2, 4, "2 oeufs"),
	})

	list := BuildList(p)
	if len(list) != 1 {
		t.Fatalf("expected a single aggregated line, got %v", list)
	}
	if list[0] != "6 oeufs" {
		t.Errorf("expected %q, got %q", "6 oeufs", list[0])
	}
}

func TestBuildListKeepsFirstSeenLabel(t *testing.T) {
	p := onePlanDay(map[string]*plan.PlacedRecipe{
		"entrée": placed("a", "Salade", 1, 1, "2 Tomates"),
		"plat":   placed("b", "Sauce", 1, 1, "3 tomates"),
	})

	list := BuildList(p)
	if len(list) != 1 {
		t.Fatalf("expected a single aggregated line, got %v", list)
	}
	if list[0] != "5 Tomates" {
		t.Errorf("expected %q, got %q", "5 Tomates", list[0])
	}
}

func TestBuildListDeduplicatesLabelOnlyLines(t *testing.T) {
	p := onePlanDay(map[string]*plan.PlacedRecipe{
		"plat":    placed("a", "Gratin", 1, 1, "sel", "100 g gruyère"),
		"dessert": placed("b", "Caramel", 1, 1, "sel", "50 g sucre"),
	})

	list := BuildList(p)
	expected := []string{"100 g gruyère", "50 g sucre", "sel"}
	if !reflect.DeepEqual(list, expected) {
		t.Errorf("expected %v, got %v", expected, list)
	}
}

func TestBuildListSeparatesUnits(t *testing.T) {
	// Same ingredient under different units must not merge.
	p := onePlanDay(map[string]*plan.PlacedRecipe{
		"plat":    placed("a", "Pain", 1, 1, "500 g farine"),
		"dessert": placed("b", "Crêpes", 1, 1, "1/2 kg farine"),
	})

	list := BuildList(p)
	expected := []string{"0,5 kg farine", "500 g farine"}
	if !reflect.DeepEqual(list, expected) {
		t.Errorf("expected %v, got %v", expected, list)
	}
}

// Aggregation must not depend on the order recipes appear in the plan.
func TestBuildListCommutative(t *testing.T) {
	a := placed("a", "Quiche", 4, 6, "3 oeufs", "200 g lardons", "sel")
	b := placed("b", "Flan", 2, 2, "3 oeufs", "1/2 l lait", "sel")

	forward := BuildList(onePlanDay(map[string]*plan.PlacedRecipe{"plat": a, "dessert": b}))
	reversed := BuildList(onePlanDay(map[string]*plan.PlacedRecipe{"plat": b, "dessert": a}))

	if !reflect.DeepEqual(forward, reversed) {
		t.Errorf("aggregation is order dependent:\n%v\n%v", forward, reversed)
	}
}

func TestBuildListFrenchCollation(t *testing.T) {
	p := onePlanDay(map[string]*plan.PlacedRecipe{
		"plat": placed("a", "Mix", 1, 1, "épinards", "endives", "escarole"),
	})

	list := BuildList(p)
	expected := []string{"endives", "épinards", "escarole"}
	if !reflect.DeepEqual(list, expected) {
		t.Errorf("expected French ordering %v, got %v", expected, list)
	}
}

func TestBuildListScalesByServingMultiplier(t *testing.T) {
	// 4 base servings scaled up to 6: 200 g becomes 300 g.
	p := onePlanDay(map[string]*plan.PlacedRecipe{
		"plat": placed("a", "Quiche", 4, 6, "200 g lardons"),
	})

	list := BuildList(p)
	if len(list) != 1 || list[0] != "300 g lardons" {
		t.Errorf("expected [300 g lardons], got %v", list)
	}
}

func TestBuildListEmptyPlan(t *testing.T) {
	p := plan.NewPlan(testDate(), 3, []string{"plat"})
	if list := BuildList(p); len(list) != 0 {
		t.Errorf("expected empty list, got %v", list)
	}
}
