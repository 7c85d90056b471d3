package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/client/services"
)

// Submit creates and publishes the draft, then clears it.
func (a *App) Submit(ctx context.Context) error {
	if a.draft.Title == "" {
		return errors.New("title is required")
	}

	entry, err := a.entryService.Submit(ctx, &a.draft)
	if err != nil {
		var pe *services.EntryPublishError
		if errors.As(err, &pe) {
			fmt.Fprintf(a.out, "Entry %s was created but not published\n", pe.EntryID)
		}
		return err
	}

	fmt.Fprintln(a.out, "Published entry", entry.ID)
	return a.draftService.Discard(ctx)
}

func (a *App) List(ctx context.Context) error {
	list, err := a.entryService.List(ctx)
	if err != nil {
		return err
	}
	a.entries = list

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No entries")
		return nil
	}
	for _, e := range list {
		fmt.Fprintln(a.out, formatSummary(e))
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		if id, err = getSimpleText(a.reader, "Enter entry id to delete", a.out); err != nil {
			return err
		}
	}
	if id == "" {
		return nil
	}

	if err := a.entryService.Delete(ctx, id); err != nil {
		return err
	}
	a.entries = models.RemoveSummary(a.entries, id)
	fmt.Fprintln(a.out, "Deleted", id)
	return nil
}

func formatSummary(e models.EntrySummary) string {
	state := "draft"
	if e.Published {
		state = "published"
	}
	return fmt.Sprintf("%s  %-9s  %s  %s", e.ID, state, e.UpdatedAt.Format("2006-01-02"), e.Title)
}
