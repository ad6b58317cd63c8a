package format_test

import (
	"testing"

	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/format"
)

func TestResolveRules_Empty(t *testing.T) {
	t.Parallel()

	resolved := format.ResolveRules(format.NewRegistry(), config.NewConfig())
	if len(resolved) != 0 {
		t.Errorf("expected 0 rules, got %d", len(resolved))
	}
}

func TestResolveRules_DefaultEnabled(t *testing.T) {
	t.Parallel()

	registry := format.NewRegistry()
	registry.Register(newTestRule(testRuleID2))
	registry.Register(newTestRule(testRuleID1))

	resolved := format.ResolveRules(registry, nil)
	if len(resolved) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(resolved))
	}
	if resolved[0].Rule.ID() != testRuleID1 {
		t.Errorf("first rule = %s, want %s", resolved[0].Rule.ID(), testRuleID1)
	}
}

func TestResolveRules_Config(t *testing.T) {
	t.Parallel()

	disabled := false
	enabled := true

	tests := []struct {
		name      string
		configure func(cfg *config.Config)
		want      int
	}{
		{
			name: "disabled by id",
			configure: func(cfg *config.Config) {
				cfg.Rules[testRuleID1] = config.RuleConfig{Enabled: &disabled}
			},
			want: 1,
		},
		{
			name: "disabled by name",
			configure: func(cfg *config.Config) {
				cfg.Rules[testRuleID1+"-name"] = config.RuleConfig{Enabled: &disabled}
			},
			want: 1,
		},
		{
			name: "cli disable wins over file enable",
			configure: func(cfg *config.Config) {
				cfg.Rules[testRuleID1] = config.RuleConfig{Enabled: &enabled}
				cfg.DisableRules = []string{testRuleID1}
			},
			want: 1,
		},
		{
			name: "cli enable re-enables",
			configure: func(cfg *config.Config) {
				cfg.Rules[testRuleID2] = config.RuleConfig{Enabled: &disabled}
				cfg.EnableRules = []string{testRuleID2 + "-name"}
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := format.NewRegistry()
			registry.Register(newTestRule(testRuleID1))
			registry.Register(newTestRule(testRuleID2))

			cfg := config.NewConfig()
			tt.configure(cfg)

			if got := len(format.ResolveRules(registry, cfg)); got != tt.want {
				t.Errorf("resolved %d rules, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveRules_CarriesOptions(t *testing.T) {
	t.Parallel()

	registry := format.NewRegistry()
	registry.Register(newTestRule(testRuleID1))

	cfg := config.NewConfig()
	cfg.Rules[testRuleID1] = config.RuleConfig{Options: map[string]any{"dedupe": true}}

	resolved := format.ResolveRules(registry, cfg)
	if len(resolved) != 1 || resolved[0].Config == nil {
		t.Fatalf("expected one rule with config, got %+v", resolved)
	}
	if resolved[0].Config.Options["dedupe"] != true {
		t.Errorf("options = %v", resolved[0].Config.Options)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := format.NewRegistry()
	registry.Register(newHeaderRule())

	if _, ok := registry.Get(testRuleID1); !ok {
		t.Error("lookup by ID failed")
	}
	if _, ok := registry.Get("strict-header"); !ok {
		t.Error("lookup by name failed")
	}
	if _, ok := registry.Get("missing"); ok {
		t.Error("unexpected rule for unknown key")
	}

	infos := registry.RuleInfos()
	if len(infos) != 1 || infos[0].Name != "strict-header" || !infos[0].Enabled {
		t.Errorf("RuleInfos() = %+v", infos)
	}
}
