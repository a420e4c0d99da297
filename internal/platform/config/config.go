// Package config handles application configuration via environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"wikipub/internal/platform/config/raw"
	"wikipub/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g., "WIKI_", "CORE_API_")
// Use New() for global access, or Prefix("WIKI_") for module scopes.
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("WIKI_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// may parses the value of key, falling back to def when it is unset or unparsable
// An unparsable value is logged with the key but never with the value
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Msg("invalid value; using default")
		return def
	}
	return v
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	return may(c, key, def, func(s string) (string, error) { return s, nil })
}

// MayInt returns the value or def if missing/empty/invalid
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayFloat64 returns the value or def if missing/empty/invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def if missing/empty/invalid
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns the value (e.g. 250ms, 2s) or def if missing/empty/invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MaySecret returns KEY, or the contents of the file named by KEY_FILE, or def.
// The value itself is never logged
func (c Conf) MaySecret(key, def string) string {
	v, ok, err := raw.New().Prefix(c.prefix).Secret(key)
	if err != nil {
		logger.Get().Warn().Err(err).Str("key", c.key(key+raw.FileSuffix)).Msg("unreadable secret file; using default")
		return def
	}
	if !ok {
		return def
	}
	return v
}
