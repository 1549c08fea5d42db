package filter

import (
	"testing"

	"github.com/darmiel/dockgate/internal/config"
	"github.com/darmiel/dockgate/internal/core"
)

func snapshot(mode config.FilterMode, allowed, blocked []string) *config.Config {
	return &config.Config{
		Filter: config.FilterConfig{
			Mode:    mode,
			Allowed: allowed,
			Blocked: blocked,
		},
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		container   string
		wantAllow   bool
		wantKind    core.MatchKind
		wantPattern string
	}{
		{
			name:      "Allow All",
			cfg:       snapshot(config.ModeAllowAll, nil, nil),
			container: "anything-goes",
			wantAllow: true,
			wantKind:  core.MatchNoRules,
		},
		{
			name:      "Allow All Ignores Patterns",
			cfg:       snapshot(config.ModeAllowAll, []string{"web-*"}, []string{"*"}),
			container: "db-1",
			wantAllow: true,
			wantKind:  core.MatchNoRules,
		},
		{
			name:        "Allow Only - Exact Match",
			cfg:         snapshot(config.ModeAllowOnly, []string{"db-1"}, nil),
			container:   "db-1",
			wantAllow:   true,
			wantKind:    core.MatchAllow,
			wantPattern: "db-1",
		},
		{
			name:        "Allow Only - Glob Match",
			cfg:         snapshot(config.ModeAllowOnly, []string{"web-*"}, nil),
			container:   "web-42",
			wantAllow:   true,
			wantKind:    core.MatchAllow,
			wantPattern: "web-*",
		},
		{
			name:      "Allow Only - No Match",
			cfg:       snapshot(config.ModeAllowOnly, []string{"web-*"}, nil),
			container: "db-1",
			wantAllow: false,
			wantKind:  core.MatchImplicitDeny,
		},
		{
			name:      "Allow Only - Empty List Fails Closed",
			cfg:       snapshot(config.ModeAllowOnly, nil, nil),
			container: "web-1",
			wantAllow: false,
			wantKind:  core.MatchImplicitDeny,
		},
		{
			name:        "Allow Only - First Pattern In Order Wins",
			cfg:         snapshot(config.ModeAllowOnly, []string{"web-*", "web-1"}, nil),
			container:   "web-1",
			wantAllow:   true,
			wantKind:    core.MatchAllow,
			wantPattern: "web-*",
		},
		{
			name:        "Deny Only - Blocked",
			cfg:         snapshot(config.ModeDenyOnly, nil, []string{"prod-*"}),
			container:   "prod-db",
			wantAllow:   false,
			wantKind:    core.MatchDeny,
			wantPattern: "prod-*",
		},
		{
			name:      "Deny Only - Not Blocked",
			cfg:       snapshot(config.ModeDenyOnly, nil, []string{"prod-*"}),
			container: "app",
			wantAllow: true,
			wantKind:  core.MatchImplicitAllow,
		},
		{
			name:      "Deny Only - Empty List Allows",
			cfg:       snapshot(config.ModeDenyOnly, nil, nil),
			container: "anything",
			wantAllow: true,
			wantKind:  core.MatchImplicitAllow,
		},
		{
			name:      "Case Sensitive",
			cfg:       snapshot(config.ModeAllowOnly, []string{"Web-*"}, nil),
			container: "web-1",
			wantAllow: false,
			wantKind:  core.MatchImplicitDeny,
		},
		{
			name:        "Question Mark Single Character",
			cfg:         snapshot(config.ModeAllowOnly, []string{"web-?"}, nil),
			container:   "web-1",
			wantAllow:   true,
			wantKind:    core.MatchAllow,
			wantPattern: "web-?",
		},
		{
			name:      "Question Mark Does Not Match Run",
			cfg:       snapshot(config.ModeAllowOnly, []string{"web-?"}, nil),
			container: "web-12",
			wantAllow: false,
			wantKind:  core.MatchImplicitDeny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.container, tt.cfg)
			if got.Allow != tt.wantAllow {
				t.Errorf("Decide(%q) allow = %v, want %v", tt.container, got.Allow, tt.wantAllow)
			}
			if got.Rule.Kind != tt.wantKind {
				t.Errorf("Decide(%q) kind = %v, want %v", tt.container, got.Rule.Kind, tt.wantKind)
			}
			if got.Rule.Pattern != tt.wantPattern {
				t.Errorf("Decide(%q) pattern = %q, want %q", tt.container, got.Rule.Pattern, tt.wantPattern)
			}
		})
	}
}

// every name must be denied under allow_only with an empty allow list
func TestDecide_FailClosedInvariant(t *testing.T) {
	cfg := snapshot(config.ModeAllowOnly, []string{}, nil)
	for _, name := range []string{"", "a", "web-1", "*", "some/odd name", "🐳"} {
		if got := Decide(name, cfg); got.Allow {
			t.Errorf("Decide(%q) = allow, want deny", name)
		}
	}
}

func TestDecideServices(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		services  []string
		wantAllow bool
		wantKind  core.MatchKind
	}{
		{
			name:      "No Services - Allow All Proceeds",
			cfg:       snapshot(config.ModeAllowAll, nil, nil),
			wantAllow: true,
			wantKind:  core.MatchNoRules,
		},
		{
			name:      "No Services - Deny Only Proceeds",
			cfg:       snapshot(config.ModeDenyOnly, nil, []string{"prod-*"}),
			wantAllow: true,
			wantKind:  core.MatchImplicitAllow,
		},
		{
			name:      "No Services - Allow Only Requires Explicit Services",
			cfg:       snapshot(config.ModeAllowOnly, []string{"web-*"}, nil),
			wantAllow: false,
			wantKind:  core.MatchImplicitDeny,
		},
		{
			name:      "All Services Allowed",
			cfg:       snapshot(config.ModeAllowOnly, []string{"web-*"}, nil),
			services:  []string{"web-1", "web-2"},
			wantAllow: true,
			wantKind:  core.MatchAllow,
		},
		{
			name:      "One Denied Service Denies The Operation",
			cfg:       snapshot(config.ModeAllowOnly, []string{"web-*"}, nil),
			services:  []string{"web-1", "db-1"},
			wantAllow: false,
			wantKind:  core.MatchImplicitDeny,
		},
		{
			name:      "Deny Only Blocks Single Service",
			cfg:       snapshot(config.ModeDenyOnly, nil, []string{"prod-*"}),
			services:  []string{"app", "prod-db"},
			wantAllow: false,
			wantKind:  core.MatchDeny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideServices(tt.services, tt.cfg)
			if got.Allow != tt.wantAllow {
				t.Errorf("DecideServices(%v) allow = %v, want %v", tt.services, got.Allow, tt.wantAllow)
			}
			if got.Rule.Kind != tt.wantKind {
				t.Errorf("DecideServices(%v) kind = %v, want %v", tt.services, got.Rule.Kind, tt.wantKind)
			}
		})
	}
}
