// Package content renders wiki page bodies from named templates on disk
package content

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"

	"github.com/flosch/pongo2/v6"
)

// DefaultTemplate is rendered when a caller names none
const DefaultTemplate = "product_wiki.txt"

// Standard context keys understood by the bundled templates
const (
	KeyPageTitle   = "page_title"
	KeyProductName = "product_name"
	KeyDescription = "description"
	KeyFeatures    = "features"
)

var autoescapeOnce sync.Once

// Renderer loads templates from one directory; safe for concurrent use
type Renderer struct {
	dir string
	set *pongo2.TemplateSet
	log logger.Logger
}

// NewRenderer builds a Renderer rooted at dir, which must exist
func NewRenderer(dir string) (*Renderer, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTemplate, "template dir %q", dir)
	}
	st, err := os.Stat(abs)
	if err != nil || !st.IsDir() {
		return nil, perr.Templatef("template dir %q is not a directory", dir)
	}
	loader, err := pongo2.NewLocalFileSystemLoader(abs)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTemplate, "template loader %q", dir)
	}
	// wikitext is not HTML; escaping would mangle markup like '' and <ref>
	autoescapeOnce.Do(func() { pongo2.SetAutoescape(false) })

	set := pongo2.NewSet("wikipub", loader)
	set.Options.TrimBlocks = true
	set.Options.LStripBlocks = true

	return &Renderer{
		dir: abs,
		set: set,
		log: *logger.Named("content"),
	}, nil
}

// Dir returns the absolute template directory
func (r *Renderer) Dir() string { return r.dir }

// Render executes template name with data. Names are relative to the template dir;
// anything escaping it is treated as missing
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTemplate
	}
	if !filepath.IsLocal(name) {
		return "", perr.WithField(perr.Templatef("template %q not found", name), "template_name")
	}
	if _, err := os.Stat(filepath.Join(r.dir, name)); err != nil {
		return "", perr.WithField(perr.Templatef("template %q not found", name), "template_name")
	}

	tpl, err := r.set.FromFile(name)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeTemplate, "template %q failed to parse", name)
	}
	out, err := tpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeTemplate, "template %q failed to render", name)
	}

	r.log.Debug().Str("template", name).Int("bytes", len(out)).Msg("template rendered")
	return out, nil
}

// ProductContext builds the context the bundled product template expects
func ProductContext(pageTitle, productName, description string, features []string) map[string]any {
	if features == nil {
		features = []string{}
	}
	return map[string]any{
		KeyPageTitle:   pageTitle,
		KeyProductName: productName,
		KeyDescription: description,
		KeyFeatures:    features,
	}
}

// Merge overlays src onto dst, returning dst (allocated when nil)
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
