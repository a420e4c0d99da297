package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"wikipub/internal/core/content"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	"wikipub/internal/services/wiki/service"

	"github.com/spf13/pflag"
)

type publishFlags struct {
	accountFlags

	title       string
	template    string
	summary     string
	name        string
	desc        string
	features    []string
	contextFile string
	contentFile string
	dryRun      bool
}

func runPublish(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f publishFlags
	fs := pflag.NewFlagSet("wikipub publish", pflag.ContinueOnError)
	f.add(fs)
	fs.StringVar(&f.title, "title", "", "page title to write, e.g. 'User:Example/sandbox' (required)")
	fs.StringVar(&f.template, "template", "", "template file name (default WIKI_TEMPLATE or product_wiki.txt)")
	fs.StringVar(&f.summary, "summary", "", "edit summary (default WIKI_SUMMARY)")
	fs.StringVar(&f.name, "name", "", "product name for the template (default the title)")
	fs.StringVar(&f.desc, "desc", "", "description for the template")
	fs.StringSliceVar(&f.features, "features", nil, "feature list for the template; repeat or comma separate")
	fs.StringVar(&f.contextFile, "context-file", "", "extra template context from a .yaml, .toml or .json file")
	fs.StringVar(&f.contentFile, "content-file", "", "publish this file verbatim instead of rendering a template")
	fs.BoolVar(&f.dryRun, "dry-run", false, "render and print the content without contacting the wiki")

	if done, err := parse(fs, args, stdout); done || err != nil {
		return err
	}
	if strings.TrimSpace(f.title) == "" {
		return fmt.Errorf("%w: --title is required", errUsage)
	}

	req, err := f.request()
	if err != nil {
		return err
	}

	svc := f.publisher()

	if f.dryRun {
		text, err := svc.Render(req)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, text)
		return nil
	}

	cred, err := f.credential(stderr)
	if err != nil {
		return err
	}

	logger.C(ctx).Info().Str("title", req.Title).Str("identity", cred.Identity).Msg("publishing")
	res, err := svc.PublishRendered(ctx, cred, req)
	reportProvisioned(stdout, res.ScopedCredential)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Successfully updated %s\n  revision: %d\n  account:  %s\n  url:      %s\n",
		res.PageTitle, res.RevisionID, res.IdentityUsed, res.PageURL)
	return nil
}

// request assembles the render request from flags and the optional files
func (f *publishFlags) request() (service.RenderRequest, error) {
	req := service.RenderRequest{
		Title:    f.title,
		Summary:  f.summary,
		Template: f.template,
	}

	if f.contentFile != "" {
		b, err := readFile(f.contentFile)
		if err != nil {
			return req, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read content file")
		}
		req.Content = string(b)
		return req, nil
	}

	name := f.name
	if strings.TrimSpace(name) == "" {
		name = f.title
	}
	features := make([]string, 0, len(f.features))
	for _, v := range f.features {
		if v = strings.TrimSpace(v); v != "" {
			features = append(features, v)
		}
	}
	data := content.ProductContext(f.title, name, f.desc, features)

	if f.contextFile != "" {
		extra, err := content.LoadContext(f.contextFile)
		if err != nil {
			return req, err
		}
		data = content.Merge(data, extra)
	}
	req.Context = data
	return req, nil
}
