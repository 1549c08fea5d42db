// Package filter decides whether a container name is allowed by the current
// configuration's allow/deny rules. Decisions are total functions over any
// string input: there is no error case.
package filter

import (
	"path"

	"github.com/darmiel/dockgate/internal/config"
	"github.com/darmiel/dockgate/internal/core"
)

// Decision is the outcome of a filter check along with the rule that
// determined it, for audit traceability.
type Decision struct {
	Allow bool
	Rule  core.MatchResult
}

// Decide checks a single container name against the snapshot's filter rules.
//
// allow_all always allows. allow_only allows iff an allowed pattern matches;
// an empty allowed list denies everything (fail closed). deny_only denies
// iff a blocked pattern matches. The first matching pattern in declaration
// order is the one reported.
func Decide(name string, cfg *config.Config) Decision {
	switch cfg.Filter.Mode {
	case config.ModeAllowOnly:
		if pattern, ok := firstMatch(cfg.Filter.Allowed, name); ok {
			return Decision{Allow: true, Rule: core.MatchResult{Kind: core.MatchAllow, Pattern: pattern}}
		}
		return Decision{Allow: false, Rule: core.MatchResult{Kind: core.MatchImplicitDeny}}

	case config.ModeDenyOnly:
		if pattern, ok := firstMatch(cfg.Filter.Blocked, name); ok {
			return Decision{Allow: false, Rule: core.MatchResult{Kind: core.MatchDeny, Pattern: pattern}}
		}
		return Decision{Allow: true, Rule: core.MatchResult{Kind: core.MatchImplicitAllow}}

	default: // allow_all
		return Decision{Allow: true, Rule: core.NoRules()}
	}
}

// DecideServices checks a compose operation targeting the given service
// names. With no services named, allow_all and deny_only proceed; allow_only
// requires at least one explicitly allowed service, so an unscoped request
// is denied. With services named, every one of them must pass; the first
// denial wins.
func DecideServices(services []string, cfg *config.Config) Decision {
	if len(services) == 0 {
		switch cfg.Filter.Mode {
		case config.ModeAllowOnly:
			return Decision{Allow: false, Rule: core.MatchResult{Kind: core.MatchImplicitDeny}}
		case config.ModeDenyOnly:
			return Decision{Allow: true, Rule: core.MatchResult{Kind: core.MatchImplicitAllow}}
		default:
			return Decision{Allow: true, Rule: core.NoRules()}
		}
	}

	first := Decision{Allow: true, Rule: core.NoRules()}
	for i, svc := range services {
		d := Decide(svc, cfg)
		if !d.Allow {
			return d
		}
		if i == 0 {
			first = d
		}
	}
	return first
}

// firstMatch returns the first pattern matching name in declaration order.
// Patterns support exact match and glob wildcards (`*` any run, `?` single
// character); matching is case-sensitive.
func firstMatch(patterns []string, name string) (string, bool) {
	for _, p := range patterns {
		if matchPattern(p, name) {
			return p, true
		}
	}
	return "", false
}

func matchPattern(pattern, name string) bool {
	if pattern == name {
		return true
	}
	// patterns are validated at config load, so a bad pattern cannot reach
	// this point; treat one as a non-match anyway.
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
