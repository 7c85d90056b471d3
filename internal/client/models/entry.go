package models

import (
	"slices"
	"time"
)

// EntryDraft is the post being composed. Image slices are never modified in
// place; every change allocates a new slice.
type EntryDraft struct {
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	IsMilo      bool            `json:"isMilo"`
	IsOliver    bool            `json:"isOliver"`
	PublishDate time.Time       `json:"publishDate"`
	Images      []UploadedAsset `json:"images"`
}

// Tags filters CandidateTags by the draft flags. The order of CandidateTags is
// kept and the result is never nil.
func (d EntryDraft) Tags() []Tag {
	tags := make([]Tag, 0, 2)
	for _, t := range CandidateTags() {
		switch t {
		case TagMilo:
			if d.IsMilo {
				tags = append(tags, t)
			}
		case TagOliver:
			if d.IsOliver {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// SetTag toggles one of the candidate tags by name.
func (d *EntryDraft) SetTag(name string, on bool) error {
	t, err := LookupTag(name)
	if err != nil {
		return err
	}
	switch t {
	case TagMilo:
		d.IsMilo = on
	case TagOliver:
		d.IsOliver = on
	}
	return nil
}

// AppendImage adds a to the end of the image sequence.
func (d *EntryDraft) AppendImage(a UploadedAsset) {
	images := make([]UploadedAsset, 0, len(d.Images)+1)
	images = append(images, d.Images...)
	d.Images = append(images, a)
}

// RemoveImage drops the image with the given asset id and reports whether it
// was present.
func (d *EntryDraft) RemoveImage(id string) bool {
	if !slices.ContainsFunc(d.Images, func(a UploadedAsset) bool { return a.ID == id }) {
		return false
	}
	images := make([]UploadedAsset, 0, len(d.Images)-1)
	for _, a := range d.Images {
		if a.ID != id {
			images = append(images, a)
		}
	}
	d.Images = images
	return true
}

// Reset returns the draft to its initial empty state.
func (d *EntryDraft) Reset() {
	*d = EntryDraft{}
}

func (d EntryDraft) IsEmpty() bool {
	return d.Title == "" && d.Body == "" && !d.IsMilo && !d.IsOliver &&
		d.PublishDate.IsZero() && len(d.Images) == 0
}

// PublishedEntry identifies a created entry and the version it was created
// with.
type PublishedEntry struct {
	ID      string
	Version int
}

// EntrySummary is a single row of the entry list.
type EntrySummary struct {
	ID        string
	Title     string
	Published bool
	Version   int
	UpdatedAt time.Time
}

// RemoveSummary returns a new list without the entry with the given id.
func RemoveSummary(list []EntrySummary, id string) []EntrySummary {
	out := make([]EntrySummary, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
