package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"wikipub/internal/modkit"
	"wikipub/internal/modkit/module"
	"wikipub/internal/platform/config"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/services/wiki/domain"
	"wikipub/internal/services/wiki/service"
	wikimod "wikipub/internal/services/wiki/module"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// accountFlags are shared by every command that talks to the wiki
type accountFlags struct {
	username     string
	password     string
	passwordFile string
	apiURL       string
	templateDir  string
	retries      int
}

func (a *accountFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&a.username, "username", "", "wiki username (or WIKI_USER)")
	fs.StringVar(&a.password, "password", "", "wiki password (or WIKI_PASS); prefer --password-file")
	fs.StringVar(&a.passwordFile, "password-file", "", "read the password from this file")
	fs.StringVar(&a.apiURL, "api-url", "", "api.php endpoint (default WIKI_API_URL or English Wikipedia)")
	fs.StringVar(&a.templateDir, "template-dir", "", "template directory (default WIKI_TEMPLATE_DIR or content_templates)")
	fs.IntVar(&a.retries, "retries", 0, "write retries after the first attempt (0 keeps WIKI_MAX_RETRIES)")
}

// publisher builds the wiki module with flag values layered over WIKI_* config
func (a *accountFlags) publisher() *service.Svc {
	m := wikimod.New(modkit.Deps{Cfg: config.New()}, wikimod.Options{
		APIURL:      a.apiURL,
		TemplateDir: a.templateDir,
		MaxRetries:  a.retries,
	})
	return module.MustPortsOf[wikimod.Ports](m).Publisher
}

var errNoPrompt = errors.New("no terminal for an interactive prompt")

// seams
var (
	stdin      io.Reader = os.Stdin
	isTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readPasswd           = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
	lookupEnv            = os.LookupEnv
	readFile             = os.ReadFile
)

// credential resolves flags, then WIKI_USER/WIKI_PASS, then a terminal prompt
func (a *accountFlags) credential(stderr io.Writer) (domain.Credential, error) {
	user := strings.TrimSpace(a.username)
	if user == "" {
		user, _ = lookupEnv("WIKI_USER")
		user = strings.TrimSpace(user)
	}

	pass := a.password
	if a.passwordFile != "" {
		b, err := readFile(a.passwordFile)
		if err != nil {
			return domain.Credential{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read password file")
		}
		pass = strings.TrimRight(string(b), "\r\n")
	}
	if pass == "" {
		pass, _ = lookupEnv("WIKI_PASS")
	}

	if user == "" || pass == "" {
		if !isTerminal() {
			return domain.Credential{}, perr.Wrap(errNoPrompt, perr.ErrorCodeUnauthorized,
				"credentials missing; use --username with --password-file or set WIKI_USER and WIKI_PASS")
		}
		r := bufio.NewReader(stdin)
		if user == "" {
			fmt.Fprint(stderr, "Wiki username: ")
			line, err := r.ReadString('\n')
			if err != nil && line == "" {
				return domain.Credential{}, perr.Wrapf(err, perr.ErrorCodeUnauthorized, "read username")
			}
			user = strings.TrimSpace(line)
		}
		if pass == "" {
			fmt.Fprint(stderr, "Wiki password: ")
			b, err := readPasswd()
			fmt.Fprintln(stderr)
			if err != nil {
				return domain.Credential{}, perr.Wrapf(err, perr.ErrorCodeUnauthorized, "read password")
			}
			pass = strings.TrimSpace(string(b))
		}
	}

	if user == "" || pass == "" {
		return domain.Credential{}, perr.Unauthorizedf("username and password are required")
	}
	return domain.Credential{Identity: user, Secret: pass}, nil
}

// parse runs fs.Parse and maps --help to a clean exit
func parse(fs *pflag.FlagSet, args []string, stdout io.Writer) (done bool, err error) {
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}
		return false, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return false, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return false, nil
}

// reportProvisioned prints a freshly created bot password so the operator can keep it
func reportProvisioned(w io.Writer, c *domain.Credential) {
	if c == nil {
		return
	}
	fmt.Fprintf(w, "Bot password created. Use these credentials for future automated edits:\n  username: %s\n  password: %s\n",
		c.Identity, c.Secret)
}
