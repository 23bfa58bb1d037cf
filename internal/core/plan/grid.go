package plan

import "time"

// NewPlan builds an empty plan of dayCount days starting at startDate, with
// lunch and dinner enabled and one empty slot per active category.
func NewPlan(startDate time.Time, dayCount int, categories []string) *Plan {
	p := &Plan{
		StartDate:        startDate,
		ActiveCategories: append([]string(nil), categories...),
		Days:             make([]MenuDay, dayCount),
	}
	for i := range p.Days {
		p.Days[i] = MenuDay{
			DayIndex:     i,
			Date:         startDate.AddDate(0, 0, i),
			EnabledMeals: EnabledMeals{Lunch: true, Dinner: true},
			Lunch:        emptySlots(categories),
			Dinner:       emptySlots(categories),
		}
	}
	return p
}

func emptySlots(categories []string) map[string]*PlacedRecipe {
	slots := make(map[string]*PlacedRecipe, len(categories))
	for _, cat := range categories {
		slots[cat] = nil
	}
	return slots
}

// SlotKeys enumerates every existing slot in canonical order: day ascending,
// then brunch, lunch, dinner, then categories in active order. Assignment
// results are deterministic because this order is stable.
func (p *Plan) SlotKeys() []SlotKey {
	var keys []SlotKey
	for _, day := range p.Days {
		keys = append(keys, SlotKey{Day: day.DayIndex, Meal: MealBrunch, Category: BrunchCategory})
		if day.EnabledMeals.Lunch {
			for _, cat := range p.ActiveCategories {
				keys = append(keys, SlotKey{Day: day.DayIndex, Meal: MealLunch, Category: cat})
			}
		}
		if day.EnabledMeals.Dinner {
			for _, cat := range p.ActiveCategories {
				keys = append(keys, SlotKey{Day: day.DayIndex, Meal: MealDinner, Category: cat})
			}
		}
	}
	return keys
}

// Slot returns the value at key and whether the slot currently exists.
func (p *Plan) Slot(key SlotKey) (*PlacedRecipe, bool) {
	if key.Day < 0 || key.Day >= len(p.Days) {
		return nil, false
	}
	day := p.Days[key.Day]
	switch key.Meal {
	case MealBrunch:
		return day.Brunch, true
	case MealLunch:
		if !day.EnabledMeals.Lunch || day.Lunch == nil {
			return nil, false
		}
		v, ok := day.Lunch[key.Category]
		return v, ok
	case MealDinner:
		if !day.EnabledMeals.Dinner || day.Dinner == nil {
			return nil, false
		}
		v, ok := day.Dinner[key.Category]
		return v, ok
	}
	return nil, false
}

// setSlot writes a value into the grid. Callers mutate clones only.
func (p *Plan) setSlot(key SlotKey, value *PlacedRecipe) {
	if key.Day < 0 || key.Day >= len(p.Days) {
		return
	}
	day := &p.Days[key.Day]
	switch key.Meal {
	case MealBrunch:
		day.Brunch = value
	case MealLunch:
		if day.Lunch != nil {
			day.Lunch[key.Category] = value
		}
	case MealDinner:
		if day.Dinner != nil {
			day.Dinner[key.Category] = value
		}
	}
}

// SetMealEnabled toggles lunch or dinner for one day and returns the updated
// plan. Disabling a meal clears its slot values entirely and removes any
// locks scoped to that day and meal; enabling re-initializes one empty slot
// per active category.
func (p *Plan) SetMealEnabled(dayIndex int, meal Meal, enabled bool, locks *LockSet) *Plan {
	if dayIndex < 0 || dayIndex >= len(p.Days) || meal == MealBrunch {
		return p
	}
	next := p.Clone()
	day := &next.Days[dayIndex]
	switch meal {
	case MealLunch:
		day.EnabledMeals.Lunch = enabled
		if enabled {
			if day.Lunch == nil {
				day.Lunch = emptySlots(next.ActiveCategories)
			}
		} else {
			day.Lunch = nil
		}
	case MealDinner:
		day.EnabledMeals.Dinner = enabled
		if enabled {
			if day.Dinner == nil {
				day.Dinner = emptySlots(next.ActiveCategories)
			}
		} else {
			day.Dinner = nil
		}
	}
	if !enabled && locks != nil {
		locks.PurgeMeal(dayIndex, meal)
	}
	return next
}

// ResizeDays truncates or extends the plan to newCount days and purges locks
// referencing dropped days.
func (p *Plan) ResizeDays(newCount int, locks *LockSet) *Plan {
	if newCount < 0 {
		newCount = 0
	}
	next := p.Clone()
	if newCount <= len(next.Days) {
		next.Days = next.Days[:newCount]
	} else {
		for i := len(next.Days); i < newCount; i++ {
			next.Days = append(next.Days, MenuDay{
				DayIndex:     i,
				Date:         next.StartDate.AddDate(0, 0, i),
				EnabledMeals: EnabledMeals{Lunch: true, Dinner: true},
				Lunch:        emptySlots(next.ActiveCategories),
				Dinner:       emptySlots(next.ActiveCategories),
			})
		}
	}
	if locks != nil {
		locks.PurgeBeyond(newCount)
	}
	return next
}

// SetStartDate moves the plan start and recomputes every day's date from its
// index.
func (p *Plan) SetStartDate(startDate time.Time) *Plan {
	next := p.Clone()
	next.StartDate = startDate
	for i := range next.Days {
		next.Days[i].Date = startDate.AddDate(0, 0, next.Days[i].DayIndex)
	}
	return next
}

// rebuildForGeneration returns the copy fed into the assignment engine:
// locked slots keep their previous value with serving defaults applied,
// unlocked slots become empty.
func (p *Plan) rebuildForGeneration(locks *LockSet, defaultServings int) *Plan {
	next := p.Clone()
	for _, key := range next.SlotKeys() {
		value, ok := next.Slot(key)
		if !ok {
			continue
		}
		if locks != nil && locks.IsSlotLocked(key) {
			if value != nil {
				normalized := value.Normalized(defaultServings)
				next.setSlot(key, &normalized)
			}
			continue
		}
		next.setSlot(key, nil)
	}
	return next
}

// PlacedIDs collects the recipe ids currently placed anywhere in the plan,
// optionally skipping one slot.
func (p *Plan) PlacedIDs(skip ...SlotKey) map[string]struct{} {
	skipped := make(map[SlotKey]struct{}, len(skip))
	for _, key := range skip {
		skipped[key] = struct{}{}
	}
	ids := make(map[string]struct{})
	for _, key := range p.SlotKeys() {
		if _, ok := skipped[key]; ok {
			continue
		}
		if value, ok := p.Slot(key); ok && value != nil {
			ids[value.ID] = struct{}{}
		}
	}
	return ids
}

// PlacedRecipes returns every placed recipe in canonical slot order.
func (p *Plan) PlacedRecipes() []PlacedRecipe {
	var out []PlacedRecipe
	for _, key := range p.SlotKeys() {
		if value, ok := p.Slot(key); ok && value != nil {
			out = append(out, *value)
		}
	}
	return out
}

// UpdateServings sets the selected servings for an occupied slot.
func (p *Plan) UpdateServings(key SlotKey, servings int) *Plan {
	if servings < 1 {
		return p
	}
	value, ok := p.Slot(key)
	if !ok || value == nil {
		return p
	}
	next := p.Clone()
	updated := *value
	updated.SelectedServings = servings
	next.setSlot(key, &updated)
	return next
}
