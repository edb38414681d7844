package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/getmentor/webhook-admin/config"
	"github.com/getmentor/webhook-admin/internal/console"
	"github.com/getmentor/webhook-admin/internal/l10n"
	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/internal/screen"
	"github.com/getmentor/webhook-admin/pkg/httpclient"
	"github.com/getmentor/webhook-admin/pkg/logger"
	"github.com/getmentor/webhook-admin/pkg/webhooksapi"
	cli "github.com/urfave/cli/v3"
)

// session is a mounted screen rendered to the console
type session struct {
	screen *screen.Screen
	view   *console.View
	tr     *l10n.Translator
	api    *fetchRecorder
	out    io.Writer
}

// fetchRecorder remembers the last list error, which the screen only logs
type fetchRecorder struct {
	screen.API

	mu  sync.Mutex
	err error
}

func (f *fetchRecorder) SearchWebhooks(ctx context.Context, scope models.Scope) (*models.SearchWebhooksResponse, error) {
	resp, err := f.API.SearchWebhooks(ctx, scope)
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	return resp, err
}

func (f *fetchRecorder) lastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// clientConfig reads the global flags
func clientConfig(cmd *cli.Command) (*config.ClientConfig, error) {
	cfg := &config.ClientConfig{
		APIURL:         cmd.String("server"),
		APIToken:       cmd.String("token"),
		Organization:   cmd.String("organization"),
		Project:        cmd.String("project"),
		TimeoutSeconds: int(cmd.Int("timeout")),
		Locale:         cmd.String("locale"),
		LogLevel:       cmd.String("log-level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// propsFor maps the configured scope to screen props
func propsFor(cfg *config.ClientConfig) screen.Props {
	var props screen.Props
	if cfg.Organization != "" {
		props.Organization = &models.Organization{Key: cfg.Organization}
	}
	if cfg.Project != "" {
		props.Component = &models.Component{Key: cfg.Project}
	}
	return props
}

// openSession mounts a screen for the configured scope and waits for the
// initial load. A failed load is returned as an error.
func openSession(ctx context.Context, cmd *cli.Command, out io.Writer, httpClient httpclient.Client) (*session, error) {
	cfg, err := clientConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(logger.Config{Level: cfg.LogLevel, Environment: "cli"}); err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = httpclient.NewStandardClient(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	tr := l10n.New(cfg.Locale)
	api := &fetchRecorder{API: webhooksapi.NewClient(cfg.APIURL, cfg.APIToken, httpClient)}
	view := console.NewView(out, tr)
	s := &session{
		screen: screen.New(api, propsFor(cfg), view),
		view:   view,
		tr:     tr,
		api:    api,
		out:    out,
	}

	select {
	case <-s.screen.Mount(ctx):
	case <-ctx.Done():
		s.screen.Unmount()
		return nil, ctx.Err()
	}

	if err := api.lastError(); err != nil {
		s.screen.Unmount()
		return nil, fmt.Errorf("failed to load webhooks: %w", err)
	}
	return s, nil
}

// close unmounts the screen and writes the scope and final frame
func (s *session) close() error {
	defer s.screen.Unmount()
	if _, err := fmt.Fprintf(s.out, "[%s]\n", s.scopeLabel()); err != nil {
		return err
	}
	return s.view.Flush()
}

func (s *session) scopeLabel() string {
	scope := s.screen.ScopeParams()
	switch {
	case scope.IsGlobal():
		return s.tr.T(l10n.KeyScopeGlobal)
	case scope.Project == "":
		return scope.Organization
	case scope.Organization == "":
		return scope.Project
	default:
		return scope.Organization + " / " + scope.Project
	}
}

// printf writes a translated line
func (s *session) printf(key string, args ...interface{}) {
	fmt.Fprintln(s.out, s.tr.T(key, args...))
}
