package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
)

// maxRemoteErrorBody bounds the body quoted in a download error.
const maxRemoteErrorBody = 512

type HTTPSource struct {
	client *http.Client
}

func NewHTTPSource(hc *http.Client) *HTTPSource {
	if hc == nil {
		hc = &http.Client{Timeout: time.Minute}
	}
	return &HTTPSource{client: hc}
}

func (s *HTTPSource) Open(ctx context.Context, ref models.ImageRef) (*Blob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URI, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxRemoteErrorBody))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download image: status %d: %s", resp.StatusCode, body)
	}

	name := FileName(ref.URI)
	r, ct, err := detectType(resp.Body, name, ref.MIMEType, resp.Header.Get("Content-Type"))
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}

	return &Blob{
		ReadCloser:  readCloser{Reader: r, Closer: resp.Body},
		FileName:    name,
		ContentType: ct,
		Size:        resp.ContentLength,
	}, nil
}
