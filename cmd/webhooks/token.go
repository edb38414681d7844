package main

import (
	"context"
	"fmt"
	"io"

	"github.com/getmentor/webhook-admin/pkg/jwt"
	cli "github.com/urfave/cli/v3"
)

// newTokenCommand issues API tokens signed with the server secret
func newTokenCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage API tokens",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Sign a token for a subject",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Usage: "Who the token is issued to", Required: true},
					&cli.StringFlag{Name: "role", Usage: "admin or viewer", Value: jwt.RoleAdmin},
					&cli.StringFlag{
						Name:     "secret",
						Usage:    "JWT signing secret of the server",
						Required: true,
						Sources:  cli.EnvVars("JWT_SECRET"),
					},
					&cli.StringFlag{
						Name:    "issuer",
						Usage:   "JWT issuer expected by the server",
						Value:   "webhooks-api",
						Sources: cli.EnvVars("JWT_ISSUER"),
					},
					&cli.IntFlag{
						Name:    "ttl-hours",
						Usage:   "Token lifetime in hours",
						Value:   24,
						Sources: cli.EnvVars("TOKEN_TTL_HOURS"),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					role := cmd.String("role")
					if role != jwt.RoleAdmin && role != jwt.RoleViewer {
						return fmt.Errorf("unknown role %q", role)
					}
					if len(cmd.String("secret")) < 32 {
						return fmt.Errorf("secret must be at least 32 characters")
					}

					tm := jwt.NewTokenManager(cmd.String("secret"), cmd.String("issuer"), int(cmd.Int("ttl-hours")))
					token, err := tm.GenerateToken(cmd.String("subject"), role)
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(out, token)
					return err
				},
			},
		},
	}
}
