package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
)

// getSimpleText and getMultiline are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
)

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

var errUsage = errors.New("usage")

func (a *App) saveDraft(ctx context.Context) error {
	if err := a.draftService.Save(ctx, a.draft); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (a *App) SetTitle(ctx context.Context, args []string) error {
	title := strings.Join(args, " ")
	if title == "" {
		var err error
		if title, err = getSimpleText(a.reader, "Enter title", a.out); err != nil {
			return err
		}
	}
	a.draft.Title = title
	return a.saveDraft(ctx)
}

func (a *App) SetBody(ctx context.Context) error {
	body, err := getMultiline(a.reader, "Enter body", a.out)
	if err != nil {
		return err
	}
	a.draft.Body = body
	return a.saveDraft(ctx)
}

// Tag switches a tag on or off: tag milo, tag oliver off.
func (a *App) Tag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: tag <milo|oliver> [on|off]", errUsage)
	}
	on, err := parseOnOff(args[1:])
	if err != nil {
		return err
	}
	if err := a.draft.SetTag(args[0], on); err != nil {
		return fmt.Errorf("%w %q", err, args[0])
	}
	return a.saveDraft(ctx)
}

// SetDate sets the publish date. "date clear" goes back to the submit time.
func (a *App) SetDate(ctx context.Context, args []string) error {
	value := strings.Join(args, " ")
	if value == "" {
		var err error
		if value, err = getSimpleText(a.reader, "Enter publish date (YYYY-MM-DD, "+
			"YYYY-MM-DD HH:MM or RFC 3339, empty for submit time)", a.out); err != nil {
			return err
		}
	}

	if value == "" || value == "clear" {
		a.draft.PublishDate = time.Time{}
		return a.saveDraft(ctx)
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			a.draft.PublishDate = t
			return a.saveDraft(ctx)
		}
	}
	return fmt.Errorf("cannot parse date %q", value)
}

func (a *App) Show(_ context.Context) error {
	d := a.draft

	date := "(submit time)"
	if !d.PublishDate.IsZero() {
		date = d.PublishDate.Format("2006-01-02 15:04")
	}
	names := make([]string, 0, 2)
	for _, t := range d.Tags() {
		names = append(names, t.Name)
	}

	fmt.Fprintf(a.out, "Title:  %s\n", d.Title)
	fmt.Fprintf(a.out, "Date:   %s\n", date)
	fmt.Fprintf(a.out, "Tags:   %s\n", strings.Join(names, ", "))
	fmt.Fprintf(a.out, "Images: %d\n", len(d.Images))
	if d.Body != "" {
		fmt.Fprintln(a.out, d.Body)
	}
	return nil
}

// Reset drops the draft. Already published images stay in the CMS.
func (a *App) Reset(ctx context.Context) error {
	a.draft.Reset()
	return a.draftService.Discard(ctx)
}

func formatImage(i int, img models.UploadedAsset) string {
	return fmt.Sprintf("%d. %s  %s  %s", i+1, img.ID, img.FileName, img.URL)
}
