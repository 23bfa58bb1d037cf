package plan

import (
	"context"
	"time"

	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Assigner fills batches of slots from category-scoped recipe pools.
// Implemented by the assignment engine.
type Assigner interface {
	Assign(ctx context.Context, targets []SlotKey, category string, used map[string]struct{}) (map[SlotKey]*Recipe, error)
	Reassign(ctx context.Context, key SlotKey, category string, exclude map[string]struct{}) (*Recipe, error)
}

// State is the persisted plan state, field by field (start date, day count,
// active categories, menu days, locked slots, locked days).
type State struct {
	StartDate        time.Time
	DayCount         int
	ActiveCategories []string
	Days             []MenuDay
	Locks            *LockSet
}

// Store persists plan state after mutations. Implementations must treat
// write failures as non-fatal; the in-memory plan stays authoritative.
type Store interface {
	SaveState(ctx context.Context, state *State) error
}

// Service orchestrates plan generation: it rebuilds the grid around the lock
// set, batches unlocked slots per category, runs them through the assigner
// with a shared cross-category exclusion set, and applies the results as one
// copy-on-write pass.
type Service struct {
	assigner        Assigner
	store           Store
	defaultServings int
}

// NewService creates a generation service. store may be nil, in which case
// state is kept in memory only.
func NewService(assigner Assigner, store Store, defaultServings int) *Service {
	return &Service{
		assigner:        assigner,
		store:           store,
		defaultServings: defaultServings,
	}
}

// Generate fills every unlocked slot of the plan and returns the new plan.
// On lookup failure the previous plan is returned untouched. Slots the pool
// cannot fill stay empty; that is a valid outcome.
func (s *Service) Generate(ctx context.Context, p *Plan, locks *LockSet) (*Plan, error) {
	passID := common.GenerateUUID()
	start := time.Now()

	next := p.rebuildForGeneration(locks, s.defaultServings)
	used := next.PlacedIDs()

	// Batch targets per category, preserving canonical slot order inside
	// each batch.
	targetsByCategory := make(map[string][]SlotKey)
	for _, key := range next.SlotKeys() {
		if locks != nil && locks.IsSlotLocked(key) {
			continue
		}
		if value, ok := next.Slot(key); !ok || value != nil {
			continue
		}
		targetsByCategory[key.Category] = append(targetsByCategory[key.Category], key)
	}

	filled, shortfall := 0, 0
	for _, category := range s.categoryOrder(next) {
		targets := targetsByCategory[category]
		if len(targets) == 0 {
			continue
		}
		assigned, err := s.assigner.Assign(ctx, targets, category, used)
		if err != nil {
			common.LogError("generation failed",
				zap.String("pass_id", passID),
				zap.String("category", category),
				zap.Error(err),
			)
			return p, common.NewError(common.ErrCodeGenerationFailed, "meal plan generation failed", err)
		}
		for _, key := range targets {
			rec := assigned[key]
			if rec == nil {
				shortfall++
				continue
			}
			placed := PlacedRecipe{Recipe: *rec}.Normalized(s.defaultServings)
			next.setSlot(key, &placed)
			used[rec.ID] = struct{}{}
			filled++
		}
	}

	common.LogInfo("generation finished",
		zap.String("pass_id", passID),
		zap.Int("filled", filled),
		zap.Int("shortfall", shortfall),
		zap.Duration("elapsed", time.Since(start)),
	)

	s.persist(ctx, next, locks)
	return next, nil
}

// categoryOrder returns brunch first, then the active categories, so the
// cross-category exclusion set accumulates in a stable order.
func (s *Service) categoryOrder(p *Plan) []string {
	order := make([]string, 0, len(p.ActiveCategories)+1)
	order = append(order, BrunchCategory)
	order = append(order, p.ActiveCategories...)
	return order
}

// RegenerateSlot replaces the recipe in one slot, excluding every other
// placed recipe but not the slot's current occupant, so it can be swapped
// for something new. Locked slots are left untouched.
func (s *Service) RegenerateSlot(ctx context.Context, p *Plan, locks *LockSet, key SlotKey) (*Plan, error) {
	if _, ok := p.Slot(key); !ok {
		return p, common.NewError(common.ErrCodeInvalidPlan, "slot does not exist", nil)
	}
	if locks != nil && locks.IsSlotLocked(key) {
		return p, nil
	}

	exclude := p.PlacedIDs(key)
	rec, err := s.assigner.Reassign(ctx, key, key.Category, exclude)
	if err != nil {
		common.LogError("slot regeneration failed",
			zap.String("slot", key.String()),
			zap.Error(err),
		)
		return p, common.NewError(common.ErrCodeGenerationFailed, "slot regeneration failed", err)
	}

	next := p.Clone()
	if rec == nil {
		next.setSlot(key, nil)
	} else {
		placed := PlacedRecipe{Recipe: *rec}.Normalized(s.defaultServings)
		next.setSlot(key, &placed)
	}
	s.persist(ctx, next, locks)
	return next, nil
}

// persist saves the plan state best-effort. Failures are logged and
// swallowed: persistence is a side effect, never part of the critical path.
func (s *Service) persist(ctx context.Context, p *Plan, locks *LockSet) {
	if s.store == nil {
		return
	}
	if locks == nil {
		locks = NewLockSet()
	}
	state := &State{
		StartDate:        p.StartDate,
		DayCount:         len(p.Days),
		ActiveCategories: p.ActiveCategories,
		Days:             p.Days,
		Locks:            locks,
	}
	if err := s.store.SaveState(ctx, state); err != nil {
		common.LogWarn("failed to persist plan state", zap.Error(err))
	}
}
