package client

import "strings"

// Link types used by the CMS.
const (
	LinkTypeUpload = "Upload"
	LinkTypeAsset  = "Asset"
	LinkTypeEntry  = "Entry"
)

// Sys is the system metadata block of every CMS resource.
type Sys struct {
	ID               string `json:"id,omitempty"`
	Type             string `json:"type,omitempty"`
	LinkType         string `json:"linkType,omitempty"`
	Version          int    `json:"version,omitempty"`
	PublishedVersion int    `json:"publishedVersion,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

type Link struct {
	Sys Sys `json:"sys"`
}

func NewLink(linkType, id string) Link {
	return Link{Sys: Sys{Type: "Link", LinkType: linkType, ID: id}}
}

// Localized maps a locale code such as "en-US" to a field value.
type Localized[T any] map[string]T

type AssetFile struct {
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
	UploadFrom  *Link  `json:"uploadFrom,omitempty"`
	URL         string `json:"url,omitempty"`
}

type AssetFields struct {
	Title Localized[string]    `json:"title,omitempty"`
	File  Localized[AssetFile] `json:"file,omitempty"`
}

type Asset struct {
	Sys    Sys         `json:"sys"`
	Fields AssetFields `json:"fields"`
}

// FileURL returns the absolute public URL of the processed file, or "" while
// processing has not finished. The CMS hands out protocol-relative URLs.
func (a Asset) FileURL(locale string) string {
	u := a.Fields.File[locale].URL
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

type EntryFields struct {
	CoverImages      Localized[[]Link] `json:"coverImages,omitempty"`
	PublishDate      Localized[string] `json:"publishDate,omitempty"`
	ShortDescription Localized[string] `json:"shortDescription,omitempty"`
	Body             Localized[string] `json:"body,omitempty"`
	Tags             Localized[[]Link] `json:"tags,omitempty"`
}

type Entry struct {
	Sys    Sys         `json:"sys"`
	Fields EntryFields `json:"fields"`
}

func (e Entry) IsPublished() bool {
	return e.Sys.PublishedVersion > 0
}

type entryCollection struct {
	Total int     `json:"total"`
	Items []Entry `json:"items"`
}

type uploadResponse struct {
	Sys Sys `json:"sys"`
}
