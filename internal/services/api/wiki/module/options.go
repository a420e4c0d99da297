package module

import (
	"time"

	"wikipub/internal/platform/config"
)

// Options configures the wiki API surface
type Options struct {
	// Token guards publish and copy with a bearer token when set
	Token string

	// MaxInFlight caps concurrent publish/copy calls; Backlog more may wait up to BacklogWait
	MaxInFlight int
	Backlog     int
	BacklogWait time.Duration
}

// FromConfig reads WIKI_API_* values; the token may come from WIKI_API_TOKEN_FILE
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WIKI_API_")
	return Options{
		Token:       c.MaySecret("TOKEN", ""),
		MaxInFlight: max(1, c.MayInt("MAX_IN_FLIGHT", 4)),
		Backlog:     max(0, c.MayInt("BACKLOG", 16)),
		BacklogWait: c.MayDuration("BACKLOG_WAIT", 30*time.Second),
	}
}
