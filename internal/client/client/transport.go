package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/common"
	"github.com/dmitrijs2005/partusch-cms/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of an error response is kept in APIError.
const maxErrorBody = 4 << 10

type request struct {
	method      string
	url         string
	token       string
	contentType string
	version     int
	headers     map[string]string
	body        io.Reader
}

type transport struct {
	http *http.Client
	log  logging.Logger
}

func newTransport(hc *http.Client, log logging.Logger) transport {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logging.Nop()
	}
	return transport{http: hc, log: log}
}

// do sends r and decodes a JSON response into out when out is non-nil.
func (t transport) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", r.method, r.url, err)
	}

	reqID := uuid.NewString()
	req.Header.Set(common.AcceptHeaderName, common.MIMEJSON)
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if r.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+r.token)
	}
	if r.contentType != "" {
		req.Header.Set(common.ContentTypeHeaderName, r.contentType)
	}
	if r.version > 0 {
		req.Header.Set(common.CMSVersionHeaderName, strconv.Itoa(r.version))
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w: %w", r.method, r.url, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	t.log.Debug(ctx, "http request",
		"method", r.method,
		"url", r.url,
		"status", resp.StatusCode,
		"request_id", reqID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     r.method,
			URL:        r.url,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.url, err)
	}
	return nil
}
