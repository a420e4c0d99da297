// Package raw reads environment variables without logging, so the logger can use it
package raw

import (
	"os"
	"strconv"
	"strings"
)

// FileSuffix marks a variable naming a file that holds the real value,
// e.g. WIKI_PASSWORD_FILE=/run/secrets/wiki_password
const FileSuffix = "_FILE"

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix narrows the view, e.g. Prefix("LOG_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// Get returns the trimmed value, or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts strconv.ParseBool forms plus yes/no and on/off; anything else is def
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.lookup(key)); v {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	default:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
}

// GetInt returns a non-negative integer, or def when unset or malformed
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.lookup(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// Secret returns KEY when set, else the contents of the file named by KEY_FILE
// minus trailing newlines. ok is false when neither yields a value; err reports
// an unreadable file
func (c Conf) Secret(key string) (val string, ok bool, err error) {
	if v := c.lookup(key); v != "" {
		return v, true, nil
	}
	path := c.lookup(key + FileSuffix)
	if path == "" {
		return "", false, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	v := strings.TrimRight(string(b), "\r\n")
	return v, v != "", nil
}
