// Package strings provides small string helpers shared across packages
package strings

import (
	std "strings"
	"unicode/utf8"
)

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes and asserts a root path like /wiki or /meta
// ensures a single leading slash and no trailing slash except for the root itself
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Blank reports whether s is empty or all whitespace
func Blank(s string) bool { return std.TrimSpace(s) == "" }

// FirstNonBlank returns the first argument with non whitespace content, or ""
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if !Blank(v) {
			return v
		}
	}
	return ""
}

// Mask hides a secret for logs; "" stays "" so a missing value is still visible
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

// Truncate cuts s to at most n runes, appending "…" when it cut anything
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
