package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
)

// AddImage uploads and publishes an image and appends it to the draft. The
// mime type argument is optional; it is detected otherwise. An empty path is
// a cancelled pick and does nothing.
func (a *App) AddImage(ctx context.Context, args []string) error {
	var ref models.ImageRef
	switch len(args) {
	case 0:
		uri, err := getSimpleText(a.reader, "Enter image path or URL", a.out)
		if err != nil {
			return err
		}
		ref.URI = uri
	case 1:
		ref.URI = args[0]
	default:
		ref.URI, ref.MIMEType = args[0], args[1]
	}
	if ref.URI == "" {
		return nil
	}

	fmt.Fprintln(a.out, "Uploading", ref.URI, "...")
	img, err := a.assetService.AddImage(ctx, &a.draft, ref)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Added", formatImage(len(a.draft.Images)-1, img))
	return a.saveDraft(ctx)
}

func (a *App) Images(_ context.Context) error {
	if len(a.draft.Images) == 0 {
		fmt.Fprintln(a.out, "No images")
		return nil
	}
	for i, img := range a.draft.Images {
		fmt.Fprintln(a.out, formatImage(i, img))
	}
	return nil
}

// RemoveImage drops an image from the draft. The asset stays in the CMS.
func (a *App) RemoveImage(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: remove <asset id>", errUsage)
	}
	if !a.draft.RemoveImage(args[0]) {
		return fmt.Errorf("no image %q in draft", args[0])
	}
	return a.saveDraft(ctx)
}

// Orphans lists uploads that never got published, or forgets one of them
// with "orphans forget <id>".
func (a *App) Orphans(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "forget" || len(args) < 2 {
			return fmt.Errorf("%w: orphans [forget <id>]", errUsage)
		}
		return a.assetService.ForgetOrphan(ctx, args[1])
	}

	list, err := a.assetService.Orphans(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No orphaned uploads")
		return nil
	}
	for _, r := range list {
		fmt.Fprintf(a.out, "%s  %s  step=%s status=%s asset=%s %s\n",
			r.ID, r.FileName, r.Step, r.Status, r.AssetID, r.Error)
	}
	return nil
}
