package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu-planner/internal/core/assign"
	"menu-planner/internal/core/lookup"
	"menu-planner/internal/core/plan"
	"menu-planner/internal/core/shopping"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/infrastructure/store"
	"menu-planner/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger must be initialized after config is loaded.
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("starting planner",
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.Int("day_count", cfg.Planner.DayCount),
		zap.Strings("categories", cfg.Planner.Categories),
		zap.String("lookup_base_url", cfg.Lookup.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Plan state persistence is best-effort: a missing store never blocks
	// generation, the in-memory plan stays authoritative.
	planStore, err := store.NewRedisStore(cfg)
	if err != nil {
		common.LogWarn("plan store unavailable, continuing in memory", zap.Error(err))
		planStore = nil
	} else {
		defer planStore.Close()
	}

	client := lookup.NewClient(cfg)
	engine := assign.NewEngine(client)

	var svcStore plan.Store
	if planStore != nil {
		svcStore = planStore
	}
	service := plan.NewService(engine, svcStore, cfg.Planner.DefaultServings)

	current, locks := loadPlan(ctx, planStore, cfg)

	generated, err := service.Generate(ctx, current, locks)
	if err != nil {
		common.LogError("generation failed", zap.Error(err))
		os.Exit(1)
	}

	printPlan(generated)
	printShoppingList(generated)

	common.LogInfo("planner exited")
}

// loadPlan restores the persisted plan and locks, or builds a fresh plan
// from config defaults.
func loadPlan(ctx context.Context, planStore *store.RedisStore, cfg *config.Config) (*plan.Plan, *plan.LockSet) {
	startDate := time.Now().Truncate(24 * time.Hour)
	if planStore == nil {
		return plan.NewPlan(startDate, cfg.Planner.DayCount, cfg.Planner.Categories), plan.NewLockSet()
	}

	state, err := planStore.LoadState(ctx)
	if err != nil || state == nil {
		common.LogWarn("failed to load plan state, starting fresh", zap.Error(err))
		return plan.NewPlan(startDate, cfg.Planner.DayCount, cfg.Planner.Categories), plan.NewLockSet()
	}

	locks := state.Locks
	if locks == nil {
		locks = plan.NewLockSet()
	}
	if len(state.Days) == 0 {
		return plan.NewPlan(state.StartDate, state.DayCount, state.ActiveCategories), locks
	}
	return &plan.Plan{
		StartDate:        state.StartDate,
		ActiveCategories: state.ActiveCategories,
		Days:             state.Days,
	}, locks
}

func printPlan(p *plan.Plan) {
	for _, day := range p.Days {
		fmt.Printf("%s\n", day.Date.Format("Monday 02/01"))
		printSlot("  brunch", day.Brunch)
		if day.EnabledMeals.Lunch {
			fmt.Println("  lunch:")
			for _, cat := range p.ActiveCategories {
				printSlot("    "+cat, day.Lunch[cat])
			}
		}
		if day.EnabledMeals.Dinner {
			fmt.Println("  dinner:")
			for _, cat := range p.ActiveCategories {
				printSlot("    "+cat, day.Dinner[cat])
			}
		}
	}
}

func printSlot(label string, value *plan.PlacedRecipe) {
	if value == nil {
		fmt.Printf("%s: -\n", label)
		return
	}
	fmt.Printf("%s: %s (%d servings)\n", label, value.Title, value.SelectedServings)
}

func printShoppingList(p *plan.Plan) {
	fmt.Println("\nShopping list:")
	for _, item := range shopping.BuildList(p) {
		fmt.Printf("  - %s\n", item)
	}
}
