// Package media resolves the image references handed over by the image
// capability into readable blobs.
//
// Supported locators are plain paths and file:// URIs, http(s):// URLs and
// s3://bucket/key objects. The MIME type is taken from the reference when
// present, then from the transport, then sniffed from the first bytes.
package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported image location")
	ErrNotAnImage        = errors.New("not an image")
)

// Blob is an opened image.
type Blob struct {
	io.ReadCloser
	FileName    string
	ContentType string
	Size        int64
}

type Source interface {
	Open(ctx context.Context, ref models.ImageRef) (*Blob, error)
}

// Resolver dispatches a reference to the source registered for its scheme.
type Resolver struct {
	sources map[string]Source
}

// NewResolver registers the file source for "" and "file" and the HTTP
// source for "http" and "https". S3 is added with WithS3.
func NewResolver(hc *http.Client) *Resolver {
	h := NewHTTPSource(hc)
	f := FileSource{}
	return &Resolver{sources: map[string]Source{
		"":      f,
		"file":  f,
		"http":  h,
		"https": h,
	}}
}

func (r *Resolver) WithS3(s Source) *Resolver {
	r.sources["s3"] = s
	return r
}

func (r *Resolver) Open(ctx context.Context, ref models.ImageRef) (*Blob, error) {
	scheme := schemeOf(ref.URI)
	src, ok := r.sources[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return src.Open(ctx, ref)
}

func schemeOf(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || len(u.Scheme) < 2 {
		// empty scheme or a windows drive letter
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// FileName returns the last "/" separated segment of uri without any query.
func FileName(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		uri = u.Path
	}
	name := path.Base(filepath.ToSlash(uri))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// detectType picks the content type and verifies it is an image. declared
// comes from the caller, transport from the storage backend.
func detectType(r io.Reader, name, declared, transport string) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, 512)

	ct := firstNonEmpty(declared, transportType(transport), mime.TypeByExtension(path.Ext(name)))
	if ct == "" {
		head, _ := br.Peek(512)
		ct = http.DetectContentType(head)
	}

	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %q", ErrNotAnImage, ct)
	}
	if !strings.HasPrefix(mt, "image/") {
		return nil, "", fmt.Errorf("%w: %s", ErrNotAnImage, mt)
	}
	return br, mt, nil
}

// transportType drops the generic types storage backends fall back to.
func transportType(ct string) string {
	switch ct {
	case "", "application/octet-stream", "binary/octet-stream":
		return ""
	}
	return ct
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type readCloser struct {
	io.Reader
	io.Closer
}
