package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/darmiel/dockgate/internal/core"
)

// FilterMode selects the container filter semantics.
type FilterMode string

const (
	// ModeAllowAll disables filtering.
	ModeAllowAll FilterMode = "allow_all"

	// ModeAllowOnly allows only containers matching an allowed pattern.
	// An empty pattern list denies everything (fail closed).
	ModeAllowOnly FilterMode = "allow_only"

	// ModeDenyOnly denies containers matching a blocked pattern and allows
	// everything else.
	ModeDenyOnly FilterMode = "deny_only"
)

// Valid reports whether the mode is one of the known values.
func (m FilterMode) Valid() bool {
	return m == ModeAllowAll || m == ModeAllowOnly || m == ModeDenyOnly
}

// Config is one immutable configuration snapshot. It is published as a whole
// by the Store and must never be mutated after load.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Auth   AuthConfig   `yaml:"auth" mapstructure:"auth"`
	Filter FilterConfig `yaml:"filter" mapstructure:"filter"`
	Audit  AuditConfig  `yaml:"audit" mapstructure:"audit"`
	Docker DockerConfig `yaml:"docker" mapstructure:"docker"`
}

// ServerConfig holds the listener and reload settings.
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`

	// HotReload enables the background config watcher.
	HotReload bool `yaml:"hot_reload" mapstructure:"hot_reload"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthConfig holds authentication settings. When Enabled is false every
// caller is the anonymous full-control principal.
type AuthConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Password string `yaml:"password" mapstructure:"password"`

	// PermissionLevel is the level granted to authenticated callers.
	PermissionLevel core.PermissionLevel `yaml:"permission_level" mapstructure:"permission_level"`
}

// FilterConfig holds the container name filter rules. Pattern order is
// significant: the first matching pattern is the one reported for audit.
type FilterConfig struct {
	Mode    FilterMode `yaml:"mode" mapstructure:"mode"`
	Allowed []string   `yaml:"allowed" mapstructure:"allowed"`
	Blocked []string   `yaml:"blocked" mapstructure:"blocked"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`

	// MaxSizeMB triggers rotation once the audit file grows past this size.
	// Zero disables rotation.
	MaxSizeMB int `yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// KeepFiles caps how many rotated audit files are retained.
	KeepFiles int `yaml:"keep_files" mapstructure:"keep_files"`
}

// DockerConfig holds runtime collaborator settings.
type DockerConfig struct {
	SocketPath string `yaml:"socket_path" mapstructure:"socket_path"`
	ComposeBin string `yaml:"compose_bin" mapstructure:"compose_bin"`
}

// Validate checks the snapshot as a whole. A snapshot is either fully valid
// or the load fails: no field may be silently defaulted in a way that
// disables security.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return schemaErrorf("server.port must be in range 1-65535, got %d", c.Server.Port)
	}

	if c.Auth.Enabled && strings.TrimSpace(c.Auth.Password) == "" {
		return schemaErrorf("auth.enabled is true but auth.password is empty")
	}
	if !c.Auth.PermissionLevel.Valid() {
		return schemaErrorf("auth.permission_level must be %q or %q, got %q",
			core.PermReadOnly, core.PermFullControl, c.Auth.PermissionLevel)
	}

	if !c.Filter.Mode.Valid() {
		return schemaErrorf("filter.mode must be one of %q, %q, %q, got %q",
			ModeAllowAll, ModeAllowOnly, ModeDenyOnly, c.Filter.Mode)
	}
	if err := validatePatterns("filter.allowed", c.Filter.Allowed); err != nil {
		return err
	}
	if err := validatePatterns("filter.blocked", c.Filter.Blocked); err != nil {
		return err
	}

	if c.Audit.Enabled && strings.TrimSpace(c.Audit.Path) == "" {
		return schemaErrorf("audit.enabled is true but audit.path is empty")
	}
	if c.Audit.MaxSizeMB < 0 {
		return schemaErrorf("audit.max_size_mb must not be negative, got %d", c.Audit.MaxSizeMB)
	}
	if c.Audit.KeepFiles < 0 {
		return schemaErrorf("audit.keep_files must not be negative, got %d", c.Audit.KeepFiles)
	}

	return nil
}

func validatePatterns(field string, patterns []string) error {
	for i, p := range patterns {
		if p == "" {
			return schemaErrorf("%s[%d] is empty", field, i)
		}
		if _, err := path.Match(p, ""); err != nil {
			return schemaErrorf("%s[%d]: invalid pattern %q", field, i, p)
		}
	}
	return nil
}
