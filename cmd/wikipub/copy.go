package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"wikipub/internal/platform/logger"
	"wikipub/internal/services/wiki/domain"

	"github.com/spf13/pflag"
)

func runCopy(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		acct    accountFlags
		from    string
		to      string
		summary string
	)
	fs := pflag.NewFlagSet("wikipub copy", pflag.ContinueOnError)
	acct.add(fs)
	fs.StringVar(&from, "from", "", "source page title (required)")
	fs.StringVar(&to, "to", "", "destination page title (required)")
	fs.StringVar(&summary, "summary", "", "edit summary (default \"Copy of [[<from>]]\")")

	if done, err := parse(fs, args, stdout); done || err != nil {
		return err
	}
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return fmt.Errorf("%w: --from and --to are required", errUsage)
	}

	cred, err := acct.credential(stderr)
	if err != nil {
		return err
	}
	svc := acct.publisher()

	logger.C(ctx).Info().Str("from", from).Str("to", to).Str("identity", cred.Identity).Msg("copying")
	res, err := svc.CopyPage(ctx, cred, domain.CopyRequest{From: from, To: to, Summary: summary})
	reportProvisioned(stdout, res.ScopedCredential)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Copied %s (revision %d) to %s\n  revision: %d\n  account:  %s\n  url:      %s\n",
		res.From, res.SourceRevision, res.PageTitle, res.RevisionID, res.IdentityUsed, res.PageURL)
	return nil
}
