package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
)

// FileSource opens local files.
type FileSource struct{}

func (FileSource) Open(_ context.Context, ref models.ImageRef) (*Blob, error) {
	p := ref.URI
	if strings.HasPrefix(p, "file://") {
		u, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", p, err)
		}
		p = u.Path
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open image: %s is a directory", p)
	}

	name := FileName(p)
	r, ct, err := detectType(f, name, ref.MIMEType, "")
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Blob{
		ReadCloser:  readCloser{Reader: r, Closer: f},
		FileName:    name,
		ContentType: ct,
		Size:        fi.Size(),
	}, nil
}
