package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Planner.DayCount != 7 {
		t.Errorf("expected default day count 7, got %d", cfg.Planner.DayCount)
	}
	if !reflect.DeepEqual(cfg.Planner.Categories, []string{"entrée", "plat", "dessert"}) {
		t.Errorf("unexpected default categories: %v", cfg.Planner.Categories)
	}
	if cfg.Planner.DefaultServings != 2 {
		t.Errorf("expected default servings 2, got %d", cfg.Planner.DefaultServings)
	}
	if cfg.Lookup.Timeout != 10*time.Second {
		t.Errorf("expected 10s lookup timeout, got %v", cfg.Lookup.Timeout)
	}
	if cfg.Redis.Enabled {
		t.Error("redis must be disabled by default")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PLANNER_DAY_COUNT", "3")
	t.Setenv("PLANNER_CATEGORIES", "plat, dessert")
	t.Setenv("LOOKUP_BASE_URL", "http://recipes.internal:9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Planner.DayCount != 3 {
		t.Errorf("expected day count 3, got %d", cfg.Planner.DayCount)
	}
	if !reflect.DeepEqual(cfg.Planner.Categories, []string{"plat", "dessert"}) {
		t.Errorf("expected the comma list split and trimmed, got %v", cfg.Planner.Categories)
	}
	if cfg.Lookup.BaseURL != "http://recipes.internal:9000" {
		t.Errorf("unexpected lookup base url %q", cfg.Lookup.BaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.LogLevel)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("PLANNER_DAY_COUNT", "0")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error for a zero day count")
	}
}

func TestSplitTrim(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{"plat,dessert", []string{"plat", "dessert"}},
		{" plat , dessert ", []string{"plat", "dessert"}},
		{"plat,,dessert,", []string{"plat", "dessert"}},
	}
	for _, tt := range tests {
		if got := splitTrim(tt.in); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("splitTrim(%q): expected %v, got %v", tt.in, tt.expected, got)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Planner: PlannerConfig{DayCount: 7, Categories: []string{"plat"}, DefaultServings: 2},
			Lookup:  LookupConfig{BaseURL: "http://localhost:8080", Timeout: time.Second},
		}
	}

	if err := validateConfig(valid()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero day count", func(c *Config) { c.Planner.DayCount = 0 }},
		{"no categories", func(c *Config) { c.Planner.Categories = nil }},
		{"zero servings", func(c *Config) { c.Planner.DefaultServings = 0 }},
		{"missing lookup url", func(c *Config) { c.Lookup.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Lookup.Timeout = 0 }},
		{"redis enabled without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
	}
	for _, tt := range tests {
		cfg := valid()
		tt.mutate(cfg)
		if err := validateConfig(cfg); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
