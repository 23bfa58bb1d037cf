package assign

import (
	"context"
	"sort"

	"menu-planner/internal/core/plan"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Source is the recipe lookup service consumed by the engine. It returns at
// most count recipes of the category, excluding the given ids. A short or
// empty result means the pool is exhausted and is not an error; transport
// failures must return a non-nil error.
type Source interface {
	FetchRandom(ctx context.Context, count int, category string, excludeIDs []string) ([]plan.Recipe, error)
}

// Number of fetch rounds attempted with the exclusion set before falling
// back to unexcluded fetches.
const maxExclusionRounds = 5

// Engine fills batches of slots with non-duplicate recipes drawn from
// category-scoped pools.
type Engine struct {
	source Source
}

// NewEngine creates an assignment engine on top of a lookup source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Assign fills the target slots with recipes of the given category, avoiding
// every id in used. Placement follows the order of targets. Slots that
// cannot be filled once the pool is exhausted map to nil; that is a valid
// terminal state, not an error. Lookup failures propagate and the engine
// performs no side effects beyond the returned mapping.
func (e *Engine) Assign(ctx context.Context, targets []plan.SlotKey, category string, used map[string]struct{}) (map[plan.SlotKey]*plan.Recipe, error) {
	result := make(map[plan.SlotKey]*plan.Recipe, len(targets))
	if len(targets) == 0 {
		return result, nil
	}

	exclude := make(map[string]struct{}, len(used))
	for id := range used {
		exclude[id] = struct{}{}
	}

	picked := make([]plan.Recipe, 0, len(targets))
	for round := 0; round < maxExclusionRounds && len(picked) < len(targets); round++ {
		remaining := len(targets) - len(picked)
		recipes, err := e.source.FetchRandom(ctx, remaining, category, sortedIDs(exclude))
		if err != nil {
			return nil, err
		}
		if len(recipes) == 0 {
			// Pool exhausted under the current exclusions.
			break
		}
		for _, rec := range recipes {
			if _, dup := exclude[rec.ID]; dup {
				continue
			}
			exclude[rec.ID] = struct{}{}
			picked = append(picked, rec)
			if len(picked) == len(targets) {
				break
			}
		}
	}

	// Fallback: accept duplicates rather than leave slots empty when the
	// pool is smaller than the demand. Two consecutive empty responses mean
	// the category has no recipes at all.
	emptyStreak := 0
	for len(picked) < len(targets) && emptyStreak < 2 {
		remaining := len(targets) - len(picked)
		recipes, err := e.source.FetchRandom(ctx, remaining, category, nil)
		if err != nil {
			return nil, err
		}
		if len(recipes) == 0 {
			emptyStreak++
			continue
		}
		emptyStreak = 0
		for _, rec := range recipes {
			picked = append(picked, rec)
			if len(picked) == len(targets) {
				break
			}
		}
	}

	if len(picked) < len(targets) {
		common.LogDebug("assignment shortfall",
			zap.String("category", category),
			zap.Int("requested", len(targets)),
			zap.Int("filled", len(picked)),
		)
	}

	for i, key := range targets {
		if i < len(picked) {
			rec := picked[i]
			result[key] = &rec
		} else {
			result[key] = nil
		}
	}
	return result, nil
}

// Reassign draws a single replacement recipe for one slot: one round with
// the exclusion set, then one fallback round without it. A nil recipe means
// the pool is empty.
func (e *Engine) Reassign(ctx context.Context, key plan.SlotKey, category string, exclude map[string]struct{}) (*plan.Recipe, error) {
	recipes, err := e.source.FetchRandom(ctx, 1, category, sortedIDs(exclude))
	if err != nil {
		return nil, err
	}
	if len(recipes) > 0 {
		return &recipes[0], nil
	}

	recipes, err = e.source.FetchRandom(ctx, 1, category, nil)
	if err != nil {
		return nil, err
	}
	if len(recipes) > 0 {
		return &recipes[0], nil
	}
	return nil, nil
}

// sortedIDs flattens an id set into a sorted slice so requests are
// reproducible for a deterministic source.
func sortedIDs(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
