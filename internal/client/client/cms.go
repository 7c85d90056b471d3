package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/common"
	"github.com/dmitrijs2005/partusch-cms/internal/logging"
)

// CMS is the content management API surface used by the services.
type CMS interface {
	Upload(ctx context.Context, cred models.Credential, body io.Reader) (string, error)
	CreateAsset(ctx context.Context, cred models.Credential, fields AssetFields) (Asset, error)
	ProcessAsset(ctx context.Context, cred models.Credential, assetID string) error
	GetAsset(ctx context.Context, cred models.Credential, assetID string) (Asset, error)
	PublishAsset(ctx context.Context, cred models.Credential, assetID string, version int) (Asset, error)

	CreateEntry(ctx context.Context, cred models.Credential, fields EntryFields) (Entry, error)
	GetEntry(ctx context.Context, cred models.Credential, entryID string) (Entry, error)
	ListEntries(ctx context.Context, cred models.Credential, q ListQuery) ([]Entry, error)
	PublishEntry(ctx context.Context, cred models.Credential, entryID string, version int) (Entry, error)
	UnpublishEntry(ctx context.Context, cred models.Credential, entryID string, version int) (Entry, error)
	DeleteEntry(ctx context.Context, cred models.Credential, entryID string, version int) error
}

type CMSConfig struct {
	APIURL      string
	UploadURL   string
	Environment string
	Locale      string
	ContentType string
	HTTPClient  *http.Client
	Logger      logging.Logger
}

// ListQuery narrows ListEntries. Zero values mean server defaults.
type ListQuery struct {
	Limit int
	Skip  int
	Order string
}

// CMSClient implements CMS over the Contentful management API.
type CMSClient struct {
	apiURL      string
	uploadURL   string
	env         string
	locale      string
	contentType string
	t           transport
}

func NewCMSClient(cfg CMSConfig) *CMSClient {
	c := &CMSClient{
		apiURL:      strings.TrimRight(cfg.APIURL, "/"),
		uploadURL:   strings.TrimRight(cfg.UploadURL, "/"),
		env:         cfg.Environment,
		locale:      cfg.Locale,
		contentType: cfg.ContentType,
		t:           newTransport(cfg.HTTPClient, cfg.Logger),
	}
	if c.env == "" {
		c.env = "master"
	}
	if c.locale == "" {
		c.locale = "en-US"
	}
	if c.contentType == "" {
		c.contentType = "post"
	}
	return c
}

func (c *CMSClient) Locale() string { return c.locale }

func (c *CMSClient) envURL(cred models.Credential, parts ...string) string {
	segs := []string{c.apiURL, "spaces", url.PathEscape(cred.SpaceID), "environments", url.PathEscape(c.env)}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

// Upload streams body to the upload host and returns the upload id.
func (c *CMSClient) Upload(ctx context.Context, cred models.Credential, body io.Reader) (string, error) {
	var out uploadResponse
	err := c.t.do(ctx, request{
		method:      http.MethodPost,
		url:         c.uploadURL + "/spaces/" + url.PathEscape(cred.SpaceID) + "/uploads",
		token:       cred.AccessToken,
		contentType: common.MIMEOctetStream,
		body:        body,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Sys.ID == "" {
		return "", errors.New("upload: response without id")
	}
	return out.Sys.ID, nil
}

func (c *CMSClient) CreateAsset(ctx context.Context, cred models.Credential, fields AssetFields) (Asset, error) {
	body, err := jsonBody(struct {
		Fields AssetFields `json:"fields"`
	}{fields})
	if err != nil {
		return Asset{}, err
	}

	var out Asset
	err = c.t.do(ctx, request{
		method:      http.MethodPost,
		url:         c.envURL(cred, "assets"),
		token:       cred.AccessToken,
		contentType: common.MIMEJSON,
		body:        body,
	}, &out)
	if err != nil {
		return Asset{}, err
	}
	if out.Sys.ID == "" {
		return Asset{}, errors.New("create asset: response without id")
	}
	return out, nil
}

// ProcessAsset asks the CMS to process the file of the configured locale.
// Processing is asynchronous; poll GetAsset to learn when it is done.
func (c *CMSClient) ProcessAsset(ctx context.Context, cred models.Credential, assetID string) error {
	return c.t.do(ctx, request{
		method: http.MethodPut,
		url:    c.envURL(cred, "assets", assetID, "files", c.locale, "process"),
		token:  cred.AccessToken,
	}, nil)
}

func (c *CMSClient) GetAsset(ctx context.Context, cred models.Credential, assetID string) (Asset, error) {
	var out Asset
	err := c.t.do(ctx, request{
		method: http.MethodGet,
		url:    c.envURL(cred, "assets", assetID),
		token:  cred.AccessToken,
	}, &out)
	return out, err
}

func (c *CMSClient) PublishAsset(ctx context.Context, cred models.Credential, assetID string, version int) (Asset, error) {
	var out Asset
	err := c.t.do(ctx, request{
		method:  http.MethodPut,
		url:     c.envURL(cred, "assets", assetID, "published"),
		token:   cred.AccessToken,
		version: version,
	}, &out)
	return out, err
}

func (c *CMSClient) CreateEntry(ctx context.Context, cred models.Credential, fields EntryFields) (Entry, error) {
	body, err := jsonBody(struct {
		Fields EntryFields `json:"fields"`
	}{fields})
	if err != nil {
		return Entry{}, err
	}

	var out Entry
	err = c.t.do(ctx, request{
		method:      http.MethodPost,
		url:         c.envURL(cred, "entries"),
		token:       cred.AccessToken,
		contentType: common.MIMECMSJSON,
		headers:     map[string]string{common.CMSContentTypeHeaderName: c.contentType},
		body:        body,
	}, &out)
	if err != nil {
		return Entry{}, err
	}
	if out.Sys.ID == "" {
		return Entry{}, errors.New("create entry: response without id")
	}
	return out, nil
}

func (c *CMSClient) GetEntry(ctx context.Context, cred models.Credential, entryID string) (Entry, error) {
	var out Entry
	err := c.t.do(ctx, request{
		method: http.MethodGet,
		url:    c.envURL(cred, "entries", entryID),
		token:  cred.AccessToken,
	}, &out)
	return out, err
}

// ListEntries returns entries of the configured content type.
func (c *CMSClient) ListEntries(ctx context.Context, cred models.Credential, q ListQuery) ([]Entry, error) {
	params := url.Values{}
	params.Set("content_type", c.contentType)
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}

	var out entryCollection
	err := c.t.do(ctx, request{
		method: http.MethodGet,
		url:    c.envURL(cred, "entries") + "?" + params.Encode(),
		token:  cred.AccessToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *CMSClient) PublishEntry(ctx context.Context, cred models.Credential, entryID string, version int) (Entry, error) {
	var out Entry
	err := c.t.do(ctx, request{
		method:  http.MethodPut,
		url:     c.envURL(cred, "entries", entryID, "published"),
		token:   cred.AccessToken,
		version: version,
	}, &out)
	return out, err
}

func (c *CMSClient) UnpublishEntry(ctx context.Context, cred models.Credential, entryID string, version int) (Entry, error) {
	var out Entry
	err := c.t.do(ctx, request{
		method:  http.MethodDelete,
		url:     c.envURL(cred, "entries", entryID, "published"),
		token:   cred.AccessToken,
		version: version,
	}, &out)
	return out, err
}

func (c *CMSClient) DeleteEntry(ctx context.Context, cred models.Credential, entryID string, version int) error {
	return c.t.do(ctx, request{
		method:  http.MethodDelete,
		url:     c.envURL(cred, "entries", entryID),
		token:   cred.AccessToken,
		version: version,
	}, nil)
}
