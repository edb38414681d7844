// Package console renders the webhooks screen to a terminal.
package console

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/getmentor/webhook-admin/internal/l10n"
	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/internal/screen"
	"golang.org/x/text/collate"
)

// View keeps the latest frame of a screen and writes it on Flush.
type View struct {
	out io.Writer
	tr  *l10n.Translator

	mu      sync.Mutex
	frame   screen.Frame
	renders int
}

// NewView creates a console view writing to out
func NewView(out io.Writer, tr *l10n.Translator) *View {
	return &View{out: out, tr: tr}
}

// Render implements screen.View
func (v *View) Render(frame screen.Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame = frame
	v.renders++
}

// Frame returns the last rendered frame
func (v *View) Frame() screen.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frame
}

// Renders returns how many frames have been rendered
func (v *View) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

// Flush writes the last rendered frame
func (v *View) Flush() error {
	return v.Write(v.out, v.Frame())
}

// Write writes frame as header, actions and list sections
func (v *View) Write(w io.Writer, frame screen.Frame) error {
	if err := v.writeHeader(w, frame.Header); err != nil {
		return err
	}
	if err := v.writeActions(w, frame.Actions); err != nil {
		return err
	}
	if frame.List == nil {
		return nil
	}
	return v.writeList(w, frame.List)
}

func (v *View) writeHeader(w io.Writer, header screen.HeaderFrame) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", v.tr.T(l10n.KeyPage), v.tr.T(l10n.KeyDescription)); err != nil {
		return err
	}
	if header.Loading {
		_, err := fmt.Fprintln(w, v.tr.T(l10n.KeyLoading))
		return err
	}
	return nil
}

func (v *View) writeActions(w io.Writer, actions screen.ActionsFrame) error {
	if actions.Loading {
		return nil
	}
	if !actions.CanCreate() {
		_, err := fmt.Fprintln(w, v.tr.T(l10n.KeyMaximumReached, models.MaxWebhooksPerScope))
		return err
	}
	_, err := fmt.Fprintf(w, "[%s] %s\n",
		v.tr.T(l10n.KeyCreate),
		v.tr.T(l10n.KeyCount, actions.WebhooksCount, models.MaxWebhooksPerScope))
	return err
}

func (v *View) writeList(w io.Writer, list *screen.ListFrame) error {
	if len(list.Webhooks) == 0 {
		_, err := fmt.Fprintln(w, v.tr.T(l10n.KeyNoResult))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", v.tr.T(l10n.KeyName), v.tr.T(l10n.KeyURL), v.tr.T(l10n.KeyKey))
	for _, webhook := range SortByName(list.Webhooks, v.tr) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", webhook.Name, webhook.URL, webhook.Key)
	}
	return tw.Flush()
}

// SortByName returns a copy of webhooks ordered by name, ignoring case,
// using the collation rules of the translator's language.
func SortByName(webhooks []models.Webhook, tr *l10n.Translator) []models.Webhook {
	sorted := append([]models.Webhook(nil), webhooks...)
	col := collate.New(tr.Language(), collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return col.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}
