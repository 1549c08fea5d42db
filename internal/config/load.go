package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"

	"github.com/darmiel/dockgate/internal/core"
)

const (
	// BaseFileName is the base configuration document inside the config dir.
	BaseFileName = "settings.yaml"

	// EnvPrefix is the prefix for environment-variable overrides.
	EnvPrefix = "DOCKGATE"
)

// defaults returns the built-in layer underneath base and overlay documents.
func defaults() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"host":       "0.0.0.0",
			"port":       8080,
			"hot_reload": true,
		},
		"auth": map[string]any{
			"enabled":          false,
			"password":         "",
			"permission_level": string(core.PermFullControl),
		},
		"filter": map[string]any{
			"mode":    string(ModeAllowAll),
			"allowed": []any{},
			"blocked": []any{},
		},
		"audit": map[string]any{
			"enabled":     true,
			"path":        "logs/audit.log",
			"max_size_mb": 64,
			"keep_files":  5,
		},
		"docker": map[string]any{
			"socket_path": "/var/run/docker.sock",
			"compose_bin": "docker-compose",
		},
	}
}

// Load reads the layered configuration: defaults, then the base document,
// then the environment-named overlay (if present), then environment-variable
// overrides. The result is validated as a whole; a partially valid snapshot
// is never returned.
func Load(dir, env string) (*Config, error) {
	merged := defaults()

	base, err := readDocument(filepath.Join(dir, BaseFileName))
	if err != nil {
		return nil, err
	}
	mergeInto(merged, base)

	if env != "" {
		overlayPath := filepath.Join(dir, fmt.Sprintf("settings.%s.yaml", env))
		overlay, err := readDocument(overlayPath)
		switch {
		case err == nil:
			mergeInto(merged, overlay)
		case isNotExist(err):
			// overlay is optional
		default:
			return nil, err
		}
	}

	if err := applyEnvOverrides(merged); err != nil {
		return nil, err
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, schemaErrorf("building config decoder: %v", err)
	}
	if err := decoder.Decode(merged); err != nil {
		return nil, schemaErrorf("decoding config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErrorf("reading config file %q: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseErrorf("parsing config file %q: %v", path, err)
	}
	return doc, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// mergeInto merges src into dst. Nested maps merge at the leaf level; arrays
// and scalars replace the existing value wholesale.
func mergeInto(dst, src map[string]any) {
	for key, value := range src {
		srcMap, srcIsMap := toStringMap(value)
		dstMap, dstIsMap := toStringMap(dst[key])
		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap)
			dst[key] = dstMap
			continue
		}
		dst[key] = value
	}
}

func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

type envKind int

const (
	envString envKind = iota
	envInt
	envBool
)

// envOverride binds one environment variable to a config path.
type envOverride struct {
	name string
	path []string
	kind envKind
}

// envOverrides is the fixed table of supported overrides. An unset variable
// means "not provided" and leaves the layered value untouched.
var envOverrides = []envOverride{
	{EnvPrefix + "_SERVER_HOST", []string{"server", "host"}, envString},
	{EnvPrefix + "_SERVER_PORT", []string{"server", "port"}, envInt},
	{EnvPrefix + "_SERVER_HOT_RELOAD", []string{"server", "hot_reload"}, envBool},
	{EnvPrefix + "_AUTH_ENABLED", []string{"auth", "enabled"}, envBool},
	{EnvPrefix + "_AUTH_PASSWORD", []string{"auth", "password"}, envString},
	{EnvPrefix + "_AUTH_PERMISSION_LEVEL", []string{"auth", "permission_level"}, envString},
	{EnvPrefix + "_FILTER_MODE", []string{"filter", "mode"}, envString},
	{EnvPrefix + "_AUDIT_ENABLED", []string{"audit", "enabled"}, envBool},
	{EnvPrefix + "_AUDIT_PATH", []string{"audit", "path"}, envString},
	{EnvPrefix + "_DOCKER_SOCKET_PATH", []string{"docker", "socket_path"}, envString},
}

func applyEnvOverrides(merged map[string]any) error {
	for _, ov := range envOverrides {
		raw, ok := os.LookupEnv(ov.name)
		if !ok {
			continue
		}
		var value any
		switch ov.kind {
		case envInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return schemaErrorf("%s: not an integer: %q", ov.name, raw)
			}
			value = n
		case envBool:
			b, err := parseBool(raw)
			if err != nil {
				return schemaErrorf("%s: %v", ov.name, err)
			}
			value = b
		default:
			value = raw
		}
		setPath(merged, ov.path, value)
	}
	return nil
}

// parseBool accepts an explicit truthy/falsy string set. Anything else is an
// error: a malformed boolean must never silently coerce to false.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", raw)
}

func setPath(m map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		next, ok := toStringMap(m[key])
		if !ok {
			next = make(map[string]any)
		}
		m[key] = next
		m = next
	}
	m[path[len(path)-1]] = value
}
