package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"menu-planner/internal/core/plan"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	keyStartDate  = "menuplanner:start_date"
	keyDayCount   = "menuplanner:day_count"
	keyCategories = "menuplanner:active_categories"
	keyMenuDays   = "menuplanner:menu_days"
	keyLockSlots  = "menuplanner:locked_slots"
	keyLockDays   = "menuplanner:locked_days"

	dateLayout = "2006-01-02"
)

// RedisStore persists plan state in redis, one key per field, so every
// field is independently loadable and a corrupt field falls back to its
// default instead of failing the whole load. With redis disabled the store
// is a no-op and the in-memory plan stays authoritative.
type RedisStore struct {
	client *redis.Client
	cfg    *config.Config
}

// NewRedisStore creates the store and verifies the connection when redis is
// enabled.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	if !cfg.Redis.Enabled {
		return &RedisStore{cfg: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, common.NewError(common.ErrCodeStoreUnavailable, "failed to connect to redis", err)
	}

	return &RedisStore{
		client: client,
		cfg:    cfg,
	}, nil
}

// LoadState assembles the persisted plan state field by field. Missing or
// corrupt fields fall back to documented defaults.
func (s *RedisStore) LoadState(ctx context.Context) (*plan.State, error) {
	state := s.defaultState()
	if s.client == nil {
		return state, nil
	}

	if raw, ok := s.get(ctx, keyStartDate); ok {
		if parsed, err := time.Parse(dateLayout, raw); err == nil {
			state.StartDate = parsed
		} else {
			common.LogWarn("corrupt start date in store, using default", zap.String("value", raw))
		}
	}

	if raw, ok := s.get(ctx, keyDayCount); ok {
		if count, err := strconv.Atoi(raw); err == nil && count > 0 {
			state.DayCount = count
		} else {
			common.LogWarn("corrupt day count in store, using default", zap.String("value", raw))
		}
	}

	if raw, ok := s.get(ctx, keyCategories); ok {
		var categories []string
		if err := common.ParseJSON(raw, &categories); err == nil && len(categories) > 0 {
			state.ActiveCategories = categories
		} else {
			common.LogWarn("corrupt active categories in store, using default")
		}
	}

	if raw, ok := s.get(ctx, keyMenuDays); ok {
		var days []plan.MenuDay
		if err := common.ParseJSON(raw, &days); err == nil {
			state.Days = days
		} else {
			common.LogWarn("corrupt menu days in store, using default", zap.Error(err))
		}
	}

	if raw, ok := s.get(ctx, keyLockSlots); ok {
		state.Locks.Slots = decodeLockedSlots(raw)
	}
	if raw, ok := s.get(ctx, keyLockDays); ok {
		state.Locks.Days = decodeLockedDays(raw)
	}

	return state, nil
}

// SaveState writes all plan state fields.
func (s *RedisStore) SaveState(ctx context.Context, state *plan.State) error {
	if s.client == nil {
		return nil
	}

	days, err := json.Marshal(state.Days)
	if err != nil {
		return fmt.Errorf("failed to marshal menu days: %w", err)
	}
	categories, err := json.Marshal(state.ActiveCategories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	lockedSlots, err := json.Marshal(encodeLockedSlots(state.Locks))
	if err != nil {
		return fmt.Errorf("failed to marshal locked slots: %w", err)
	}
	lockedDays, err := json.Marshal(encodeLockedDays(state.Locks))
	if err != nil {
		return fmt.Errorf("failed to marshal locked days: %w", err)
	}

	ttl := s.cfg.Redis.TTL
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyStartDate, state.StartDate.Format(dateLayout), ttl)
	pipe.Set(ctx, keyDayCount, strconv.Itoa(state.DayCount), ttl)
	pipe.Set(ctx, keyCategories, categories, ttl)
	pipe.Set(ctx, keyMenuDays, days, ttl)
	pipe.Set(ctx, keyLockSlots, lockedSlots, ttl)
	pipe.Set(ctx, keyLockDays, lockedDays, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return common.NewError(common.ErrCodeStoreUnavailable, "failed to save plan state", err)
	}
	return nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisStore) get(ctx context.Context, key string) (string, bool) {
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("failed to read plan state field", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return raw, true
}

func (s *RedisStore) defaultState() *plan.State {
	return &plan.State{
		StartDate:        time.Now().Truncate(24 * time.Hour),
		DayCount:         s.cfg.Planner.DayCount,
		ActiveCategories: append([]string(nil), s.cfg.Planner.Categories...),
		Locks:            plan.NewLockSet(),
	}
}

func encodeLockedSlots(locks *plan.LockSet) map[string]bool {
	out := make(map[string]bool)
	if locks == nil {
		return out
	}
	for key := range locks.Slots {
		out[key.String()] = true
	}
	return out
}

func encodeLockedDays(locks *plan.LockSet) map[int]bool {
	out := make(map[int]bool)
	if locks == nil {
		return out
	}
	for day := range locks.Days {
		out[day] = true
	}
	return out
}

// decodeLockedSlots tolerates unknown or malformed keys; a lock that no
// longer parses is dropped rather than failing the load.
func decodeLockedSlots(raw string) map[plan.SlotKey]struct{} {
	out := make(map[plan.SlotKey]struct{})
	var encoded map[string]bool
	if err := common.ParseJSON(raw, &encoded); err != nil {
		common.LogWarn("corrupt locked slots in store, using default", zap.Error(err))
		return out
	}
	for keyStr, locked := range encoded {
		if !locked {
			continue
		}
		key, err := plan.ParseSlotKey(keyStr)
		if err != nil {
			common.LogWarn("dropping malformed slot lock", zap.String("key", keyStr))
			continue
		}
		out[key] = struct{}{}
	}
	return out
}

func decodeLockedDays(raw string) map[int]struct{} {
	out := make(map[int]struct{})
	var encoded map[int]bool
	if err := common.ParseJSON(raw, &encoded); err != nil {
		common.LogWarn("corrupt locked days in store, using default", zap.Error(err))
		return out
	}
	for day, locked := range encoded {
		if locked && day >= 0 {
			out[day] = struct{}{}
		}
	}
	return out
}
