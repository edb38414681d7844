package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/getmentor/webhook-admin/config"
	"github.com/getmentor/webhook-admin/internal/l10n"
	"github.com/getmentor/webhook-admin/pkg/httpclient"
	cli "github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(config.LoadClient(), os.Stdout, nil).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the webhooks CLI. Environment defaults come from defaults;
// a nil httpClient uses a standard client with the configured timeout.
func newApp(defaults *config.ClientConfig, out io.Writer, httpClient httpclient.Client) *cli.Command {
	return &cli.Command{
		Name:                  "webhooks",
		Usage:                 "Administer the webhooks of an organization or project",
		EnableShellCompletion: true,
		Writer:                out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "Base URL of the webhooks API",
				Value: defaults.APIURL,
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Bearer token with the admin role",
				Value: defaults.APIToken,
			},
			&cli.StringFlag{
				Name:    "organization",
				Aliases: []string{"o"},
				Usage:   "Organization key (omit for global webhooks)",
				Value:   defaults.Organization,
			},
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Usage:   "Project key",
				Value:   defaults.Project,
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "Language of the output (" + supportedLocales() + ")",
				Value: defaults.Locale,
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Request timeout in seconds",
				Value: int64(defaults.TimeoutSeconds),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: defaults.LogLevel,
			},
		},
		Commands: []*cli.Command{
			newListCommand(out, httpClient),
			newCreateCommand(out, httpClient),
			newUpdateCommand(out, httpClient),
			newDeleteCommand(out, httpClient),
			newTokenCommand(out),
		},
	}
}

func supportedLocales() string {
	tags := l10n.Supported()
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.String())
	}
	return strings.Join(names, ", ")
}
