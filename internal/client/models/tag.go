package models

import (
	"errors"
	"strings"
)

var ErrUnknownTag = errors.New("unknown tag")

// Tag is a reference to a tag entry in the CMS.
type Tag struct {
	ID   string
	Name string
}

var (
	TagMilo   = Tag{ID: "7pc56m8PVtvdsCW3lHXvHF", Name: "milo"}
	TagOliver = Tag{ID: "7lqX3SAtFmVC0ecUd49FrN", Name: "oliver"}
)

// CandidateTags returns the fixed tag list in emission order.
func CandidateTags() []Tag {
	return []Tag{TagMilo, TagOliver}
}

// LookupTag finds a candidate tag by name, ignoring case.
func LookupTag(name string) (Tag, error) {
	for _, t := range CandidateTags() {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return Tag{}, ErrUnknownTag
}
