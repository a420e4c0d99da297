package module

import (
	"time"

	"wikipub/internal/platform/config"
)

// Default endpoints and client settings
const (
	DefaultAPIURL    = "https://en.wikipedia.org/w/api.php"
	DefaultUserAgent = "PsiAdirondackBot/2.0 (https://github.com/psiadirondack/wikipub; wiki-publisher)"
)

// Options controls the wiki client, login fallback and publish retries
type Options struct {
	// remote
	APIURL     string
	UserAgent  string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int

	// account
	Username string
	Password string
	BotName  string

	// writes
	Summary     string
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration

	// content
	TemplateDir string
	Template    string
}

// FromConfig reads WIKI_* values from process config/env.
// WIKI_PASSWORD may come from the file named by WIKI_PASSWORD_FILE
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WIKI_")
	return Options{
		APIURL:      c.MayString("API_URL", DefaultAPIURL),
		UserAgent:   c.MayString("USER_AGENT", DefaultUserAgent),
		Timeout:     c.MayDuration("TIMEOUT", 30*time.Second),
		RatePerSec:  c.MayFloat64("RPS", 5),
		Burst:       c.MayInt("BURST", 2),
		Username:    c.MayString("USERNAME", ""),
		Password:    c.MaySecret("PASSWORD", ""),
		BotName:     c.MayString("BOT_NAME", "PsiAdirondackBot"),
		Summary:     c.MayString("SUMMARY", "Automated update via wikipub"),
		MaxRetries:  c.MayInt("MAX_RETRIES", 2),
		BackoffBase: c.MayDuration("BACKOFF_BASE", time.Second),
		BackoffMax:  c.MayDuration("BACKOFF_MAX", 30*time.Second),
		TemplateDir: c.MayString("TEMPLATE_DIR", "content_templates"),
		Template:    c.MayString("TEMPLATE", "product_wiki.txt"),
	}
}
