package main

import (
	"context"
	"fmt"
	"io"

	"github.com/getmentor/webhook-admin/internal/l10n"
	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/internal/screen"
	"github.com/getmentor/webhook-admin/pkg/httpclient"
	cli "github.com/urfave/cli/v3"
)

func newListCommand(out io.Writer, httpClient httpclient.Client) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the webhooks of the scope",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(ctx, cmd, out, httpClient)
			if err != nil {
				return err
			}
			return s.close()
		},
	}
}

func newCreateCommand(out io.Writer, httpClient httpclient.Client) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a webhook in the scope",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Webhook name", Required: true},
			&cli.StringFlag{Name: "url", Usage: "Endpoint notified on events", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(ctx, cmd, out, httpClient)
			if err != nil {
				return err
			}

			actions := s.view.Frame().Actions
			if !actions.CanCreate() {
				s.printf(l10n.KeyMaximumReached, models.MaxWebhooksPerScope)
				s.screen.Unmount()
				return fmt.Errorf("webhook limit reached")
			}

			before := s.screen.State().Webhooks
			name := cmd.String("name")
			if err := actions.OnCreate(ctx, screen.CreateData{Name: name, URL: cmd.String("url")}); err != nil {
				s.screen.Unmount()
				return fmt.Errorf("failed to create webhook: %w", err)
			}

			s.printf(l10n.KeyCreated, name, addedKey(before, s.screen.State().Webhooks))
			return s.close()
		},
	}
}

func newUpdateCommand(out io.Writer, httpClient httpclient.Client) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Change the name and url of a webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Usage: "Webhook key", Required: true},
			&cli.StringFlag{Name: "name", Usage: "New webhook name", Required: true},
			&cli.StringFlag{Name: "url", Usage: "New endpoint", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(ctx, cmd, out, httpClient)
			if err != nil {
				return err
			}

			key := cmd.String("key")
			list := s.view.Frame().List
			err = list.OnUpdate(ctx, screen.UpdateData{Key: key, Name: cmd.String("name"), URL: cmd.String("url")})
			if err != nil {
				s.screen.Unmount()
				return fmt.Errorf("failed to update webhook: %w", err)
			}

			s.printf(l10n.KeyUpdated, key)
			return s.close()
		},
	}
}

func newDeleteCommand(out io.Writer, httpClient httpclient.Client) *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Aliases: []string{"rm"},
		Usage:   "Delete a webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Usage: "Webhook key", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(ctx, cmd, out, httpClient)
			if err != nil {
				return err
			}

			key := cmd.String("key")
			if err := s.view.Frame().List.OnDelete(ctx, key); err != nil {
				s.screen.Unmount()
				return fmt.Errorf("failed to delete webhook: %w", err)
			}

			s.printf(l10n.KeyDeleted, key)
			return s.close()
		},
	}
}

// addedKey returns the key present in after but not in before
func addedKey(before, after []models.Webhook) string {
	seen := make(map[string]bool, len(before))
	for _, w := range before {
		seen[w.Key] = true
	}
	for _, w := range after {
		if !seen[w.Key] {
			return w.Key
		}
	}
	return ""
}
