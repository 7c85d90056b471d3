package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/partusch-cms/internal/client/client"
	"github.com/dmitrijs2005/partusch-cms/internal/client/media"
	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/client/session"
)

type call struct {
	Step        string
	Method      string
	Path        string
	Version     string
	ContentType string
	Auth        string
	Body        []byte
}

// fakeCMS is an in-memory stand-in for the content management API.
type fakeCMS struct {
	mu sync.Mutex

	calls  []call
	nextID int
	polls  map[string]int

	// pollsBeforeReady is the number of GETs answering "still processing".
	pollsBeforeReady int
	neverReady       bool
	fail             map[string]int

	entryVersion   int
	entryPublished int
	entries        []client.Entry
}

func newFakeCMS() *fakeCMS {
	return &fakeCMS{polls: map[string]int{}, fail: map[string]int{}, entryVersion: 1}
}

func classify(method, path string) string {
	switch {
	case method == http.MethodPost && strings.HasSuffix(path, "/uploads"):
		return "upload"
	case method == http.MethodPost && strings.HasSuffix(path, "/assets"):
		return "link"
	case method == http.MethodPut && strings.HasSuffix(path, "/process"):
		return "process"
	case method == http.MethodPut && strings.Contains(path, "/assets/") && strings.HasSuffix(path, "/published"):
		return "publish-asset"
	case method == http.MethodGet && strings.Contains(path, "/assets/"):
		return "poll"
	case method == http.MethodPost && strings.HasSuffix(path, "/entries"):
		return "create-entry"
	case method == http.MethodGet && strings.HasSuffix(path, "/entries"):
		return "list"
	case method == http.MethodGet && strings.Contains(path, "/entries/"):
		return "get-entry"
	case method == http.MethodPut && strings.HasSuffix(path, "/published"):
		return "publish-entry"
	case method == http.MethodDelete && strings.HasSuffix(path, "/published"):
		return "unpublish-entry"
	case method == http.MethodDelete && strings.Contains(path, "/entries/"):
		return "delete-entry"
	}
	return "unknown"
}

func idFromPath(path string, after string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if s == after && i+1 < len(segs) {
			return segs[i+1]
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func processedFile(id string) client.Localized[client.AssetFile] {
	return client.Localized[client.AssetFile]{"en-US": {
		FileName:    id + ".jpg",
		ContentType: "image/jpeg",
		URL:         "//images.example.net/sp/" + id + ".jpg",
	}}
}

func (f *fakeCMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	step := classify(r.Method, r.URL.Path)
	f.calls = append(f.calls, call{
		Step:        step,
		Method:      r.Method,
		Path:        r.URL.Path,
		Version:     r.Header.Get("X-Contentful-Version"),
		ContentType: r.Header.Get("X-Contentful-Content-Type"),
		Auth:        r.Header.Get("Authorization"),
		Body:        body,
	})

	if code, ok := f.fail[step]; ok {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"message":"rejected"}`))
		return
	}

	switch step {
	case "upload":
		f.nextID++
		writeJSON(w, map[string]any{"sys": map[string]any{"id": fmt.Sprintf("up-%d", f.nextID), "type": "Upload"}})
	case "link":
		f.nextID++
		writeJSON(w, client.Asset{Sys: client.Sys{ID: fmt.Sprintf("as-%d", f.nextID), Version: 1}})
	case "process":
		w.WriteHeader(http.StatusNoContent)
	case "poll":
		id := idFromPath(r.URL.Path, "assets")
		f.polls[id]++
		if f.neverReady || f.polls[id] <= f.pollsBeforeReady {
			writeJSON(w, client.Asset{Sys: client.Sys{ID: id, Version: 1}})
			return
		}
		writeJSON(w, client.Asset{Sys: client.Sys{ID: id, Version: 2}, Fields: client.AssetFields{File: processedFile(id)}})
	case "publish-asset":
		id := idFromPath(r.URL.Path, "assets")
		writeJSON(w, client.Asset{
			Sys:    client.Sys{ID: id, Version: 3, PublishedVersion: 2},
			Fields: client.AssetFields{File: processedFile(id)},
		})
	case "create-entry":
		writeJSON(w, client.Entry{Sys: client.Sys{ID: "en-1", Version: 1}})
	case "get-entry":
		id := idFromPath(r.URL.Path, "entries")
		writeJSON(w, client.Entry{Sys: client.Sys{ID: id, Version: f.entryVersion, PublishedVersion: f.entryPublished}})
	case "publish-entry":
		id := idFromPath(r.URL.Path, "entries")
		writeJSON(w, client.Entry{Sys: client.Sys{ID: id, Version: 2, PublishedVersion: 1}})
	case "unpublish-entry":
		id := idFromPath(r.URL.Path, "entries")
		writeJSON(w, client.Entry{Sys: client.Sys{ID: id, Version: f.entryVersion + 1}})
	case "delete-entry":
		w.WriteHeader(http.StatusNoContent)
	case "list":
		writeJSON(w, map[string]any{"total": len(f.entries), "items": f.entries})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeCMS) steps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Step
	}
	return out
}

func (f *fakeCMS) callsOf(step string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Step == step {
			out = append(out, c)
		}
	}
	return out
}

// newTestCMS serves f and returns a client pointed at it for both hosts.
func newTestCMS(t *testing.T, f *fakeCMS) *client.CMSClient {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return client.NewCMSClient(client.CMSConfig{
		APIURL:     srv.URL,
		UploadURL:  srv.URL,
		HTTPClient: srv.Client(),
	})
}

func loggedIn() *session.Session {
	s := session.New()
	s.Begin(models.Credential{AccessToken: "cma-token", SpaceID: "sp"})
	return s
}

// memSource serves fixed bytes for any reference.
type memSource struct {
	data []byte
	err  error
}

func (m memSource) Open(_ context.Context, ref models.ImageRef) (*media.Blob, error) {
	if m.err != nil {
		return nil, m.err
	}
	ct := ref.MIMEType
	if ct == "" {
		ct = "image/jpeg"
	}
	return &media.Blob{
		ReadCloser:  io.NopCloser(bytes.NewReader(m.data)),
		FileName:    media.FileName(ref.URI),
		ContentType: ct,
		Size:        int64(len(m.data)),
	}, nil
}
