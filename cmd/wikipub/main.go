// Command wikipub renders wiki content from templates and publishes it,
// creating a bot password on the fly when the main account is refused
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"wikipub/internal/core/version"
	"wikipub/internal/platform/logger"
)

const usage = `usage: wikipub <command> [flags]

commands:
  publish   render a template (or a content file) and write it to --title
  copy      copy the latest revision of --from onto --to
  version   print build information

run "wikipub <command> --help" for the flags of a command
`

// errUsage marks a bad invocation; main exits 2 for it
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries command output
	lo := logger.FromEnv()
	lo.Out = os.Stderr
	lo.Component = "cli"
	logger.Init(lo)

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches one subcommand
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	switch args[0] {
	case "publish":
		return runPublish(ctx, args[1:], stdout, stderr)
	case "copy":
		return runCopy(ctx, args[1:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintln(stdout, version.String())
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}
}
