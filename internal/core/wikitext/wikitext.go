// Package wikitext holds the small text rules the wiki imposes on titles and page bodies
// Title pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC normalization
// 3 Strip format chars (ZWJ, ZWNJ, BOM)
// 4 Underscores to spaces, collapse whitespace runs, trim
// 5 NormalizeTitle only: uppercase the first letter
// Caller-supplied targets stop at 4 (CleanTitle); wikis with $wgCapitalLinks=false keep first-letter case
package wikitext

import (
	"net/url"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultWikiBase is the article path used when none can be derived from the API URL
const DefaultWikiBase = "https://en.wikipedia.org/wiki/"

// redirectMagic is the case-insensitive marker that opens a redirect page
const redirectMagic = "#redirect"

var titleChain = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

var foldPool = sync.Pool{
	New: func() any { return cases.Fold() },
}

// CleanTitle repairs and trims title and folds underscores and whitespace runs
// into single spaces. Letter case is left to the wiki
func CleanTitle(title string) string {
	s := strings.ToValidUTF8(title, "")
	if s == "" {
		return ""
	}

	tr := titleChain.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	titleChain.Put(tr)

	ns = strings.ReplaceAll(ns, "_", " ")
	return strings.Join(strings.Fields(ns), " ")
}

// NormalizeTitle is CleanTitle with the first letter uppercased, the form
// user pages always take. "" in, "" out
func NormalizeTitle(title string) string {
	ns := CleanTitle(title)
	if ns == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(ns)
	if unicode.IsLower(r) {
		ns = string(unicode.ToUpper(r)) + ns[size:]
	}
	return ns
}

// IsRedirect reports whether content is a redirect page: after trimming whitespace,
// its case-folded form starts with #redirect
func IsRedirect(content string) bool {
	s := strings.TrimSpace(content)
	if len(s) < len(redirectMagic) {
		return false
	}
	c := foldPool.Get().(cases.Caser)
	head := c.String(s[:min(len(s), 4*len(redirectMagic))])
	foldPool.Put(c)
	return strings.HasPrefix(head, redirectMagic)
}

// UserName strips a bot suffix so "Alice@PsiAdirondackBot" becomes "Alice"
func UserName(identity string) string {
	name, _, _ := strings.Cut(identity, "@")
	return strings.TrimSpace(name)
}

// SandboxTitle returns the personal sandbox page of the account behind identity
func SandboxTitle(identity string) string {
	return "User:" + NormalizeTitle(UserName(identity)) + "/sandbox"
}

// WikiBase derives the article path from an api.php URL,
// e.g. https://en.wikipedia.org/w/api.php -> https://en.wikipedia.org/wiki/
func WikiBase(apiURL string) string {
	u, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return DefaultWikiBase
	}
	return u.Scheme + "://" + u.Host + "/wiki/"
}

// PageURL returns the public URL of title under base (DefaultWikiBase when empty)
func PageURL(base, title string) string {
	if base == "" {
		base = DefaultWikiBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	t := strings.ReplaceAll(CleanTitle(title), " ", "_")
	parts := strings.Split(t, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return base + strings.Join(parts, "/")
}
