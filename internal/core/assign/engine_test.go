package assign

import (
	"context"
	"errors"
	"testing"

	"menu-planner/internal/core/plan"
)

// deckSource deals each recipe of a category at most once, like a pool that
// remembers what it already served, and honors exclusion ids.
type deckSource struct {
	pool  []plan.Recipe
	dealt map[string]struct{}
	calls int
}

func newDeckSource(recipes ...plan.Recipe) *deckSource {
	return &deckSource{pool: recipes, dealt: make(map[string]struct{})}
}

func (s *deckSource) FetchRandom(ctx context.Context, count int, category string, excludeIDs []string) ([]plan.Recipe, error) {
	s.calls++
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	var out []plan.Recipe
	for _, rec := range s.pool {
		if len(out) == count {
			break
		}
		if rec.Category != category {
			continue
		}
		if _, ok := s.dealt[rec.ID]; ok {
			continue
		}
		if _, ok := excluded[rec.ID]; ok {
			continue
		}
		s.dealt[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

// loopSource always returns the same recipes, ignoring exclusions, as a
// service with a tiny pool would on unexcluded fallback rounds.
type loopSource struct {
	pool  []plan.Recipe
	calls int
}

func (s *loopSource) FetchRandom(ctx context.Context, count int, category string, excludeIDs []string) ([]plan.Recipe, error) {
	s.calls++
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	var out []plan.Recipe
	for _, rec := range s.pool {
		if len(out) == count {
			break
		}
		if _, ok := excluded[rec.ID]; ok {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type emptySource struct {
	calls int
}

func (s *emptySource) FetchRandom(ctx context.Context, count int, category string, excludeIDs []string) ([]plan.Recipe, error) {
	s.calls++
	return nil, nil
}

type failingSource struct{}

func (s *failingSource) FetchRandom(ctx context.Context, count int, category string, excludeIDs []string) ([]plan.Recipe, error) {
	return nil, errors.New("connection refused")
}

func rec(id, category string) plan.Recipe {
	return plan.Recipe{ID: id, Title: id, Category: category, BaseServings: 2}
}

func keys(n int) []plan.SlotKey {
	out := make([]plan.SlotKey, n)
	for i := range out {
		out[i] = plan.SlotKey{Day: i, Meal: plan.MealDinner, Category: "plat"}
	}
	return out
}

func TestAssignFillsAllTargets(t *testing.T) {
	source := newDeckSource(rec("r1", "plat"), rec("r2", "plat"), rec("r3", "plat"), rec("r4", "plat"))
	engine := NewEngine(source)

	targets := keys(3)
	result, err := engine.Assign(context.Background(), targets, "plat", nil)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	seen := make(map[string]struct{})
	for _, key := range targets {
		got := result[key]
		if got == nil {
			t.Fatalf("slot %s left empty", key)
		}
		if _, dup := seen[got.ID]; dup {
			t.Errorf("recipe %s assigned twice", got.ID)
		}
		seen[got.ID] = struct{}{}
	}
}

func TestAssignHonorsUsedSet(t *testing.T) {
	source := newDeckSource(rec("r1", "plat"), rec("r2", "plat"), rec("r3", "plat"))
	engine := NewEngine(source)

	used := map[string]struct{}{"r1": {}}
	result, err := engine.Assign(context.Background(), keys(2), "plat", used)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	for key, got := range result {
		if got != nil && got.ID == "r1" {
			t.Errorf("slot %s received an excluded recipe", key)
		}
	}
}

// A pool of 2 recipes against a demand of 3 fills two slots and leaves one
// empty, within the bounded number of round-trips.
func TestAssignShortfallLeavesSlotEmpty(t *testing.T) {
	source := newDeckSource(rec("r1", "plat"), rec("r2", "plat"))
	engine := NewEngine(source)

	targets := keys(3)
	result, err := engine.Assign(context.Background(), targets, "plat", nil)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	filled := 0
	for _, got := range result {
		if got != nil {
			filled++
		}
	}
	if filled != 2 {
		t.Errorf("expected 2 filled slots, got %d", filled)
	}
	if result[targets[2]] != nil {
		t.Errorf("expected the last slot to stay empty")
	}
	if source.calls > 10 {
		t.Errorf("expected a bounded number of round-trips, got %d", source.calls)
	}
}

// When the pool is smaller than the demand the fallback rounds accept
// duplicates rather than leave slots empty.
func TestAssignFallbackAcceptsDuplicates(t *testing.T) {
	source := &loopSource{pool: []plan.Recipe{rec("r1", "plat")}}
	engine := NewEngine(source)

	targets := keys(3)
	result, err := engine.Assign(context.Background(), targets, "plat", nil)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	for _, key := range targets {
		if result[key] == nil || result[key].ID != "r1" {
			t.Errorf("slot %s: expected r1, got %v", key, result[key])
		}
	}
}

// Even a service that always answers empty must terminate quickly.
func TestAssignTerminatesOnEmptyService(t *testing.T) {
	source := &emptySource{}
	engine := NewEngine(source)

	targets := keys(5)
	result, err := engine.Assign(context.Background(), targets, "plat", nil)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	for _, key := range targets {
		if result[key] != nil {
			t.Errorf("slot %s should be empty", key)
		}
	}
	if source.calls > 10 {
		t.Errorf("expected at most 10 round-trips, got %d", source.calls)
	}
}

func TestAssignPropagatesServiceError(t *testing.T) {
	engine := NewEngine(&failingSource{})
	if _, err := engine.Assign(context.Background(), keys(2), "plat", nil); err == nil {
		t.Fatal("expected an error from a failing source")
	}
}

func TestAssignNoTargets(t *testing.T) {
	source := &emptySource{}
	engine := NewEngine(source)
	result, err := engine.Assign(context.Background(), nil, "plat", nil)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty result, got %v", result)
	}
	if source.calls != 0 {
		t.Errorf("expected no round-trips, got %d", source.calls)
	}
}

func TestReassignExcludesOtherPlacements(t *testing.T) {
	source := &loopSource{pool: []plan.Recipe{rec("r1", "plat"), rec("r2", "plat")}}
	engine := NewEngine(source)

	exclude := map[string]struct{}{"r1": {}}
	got, err := engine.Reassign(context.Background(), keys(1)[0], "plat", exclude)
	if err != nil {
		t.Fatalf("Reassign failed: %v", err)
	}
	if got == nil || got.ID != "r2" {
		t.Errorf("expected r2, got %v", got)
	}
}

func TestReassignFallsBackWithoutExclusion(t *testing.T) {
	source := &loopSource{pool: []plan.Recipe{rec("r1", "plat")}}
	engine := NewEngine(source)

	// Everything is excluded, so the first round comes back empty and the
	// fallback round reuses r1.
	exclude := map[string]struct{}{"r1": {}}
	got, err := engine.Reassign(context.Background(), keys(1)[0], "plat", exclude)
	if err != nil {
		t.Fatalf("Reassign failed: %v", err)
	}
	if got == nil || got.ID != "r1" {
		t.Errorf("expected fallback to r1, got %v", got)
	}
}

func TestReassignEmptyPool(t *testing.T) {
	engine := NewEngine(&emptySource{})
	got, err := engine.Reassign(context.Background(), keys(1)[0], "plat", nil)
	if err != nil {
		t.Fatalf("Reassign failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil recipe from an empty pool, got %v", got)
	}
}
