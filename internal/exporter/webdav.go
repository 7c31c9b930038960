package exporter

import (
	"context"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/emersion/go-webdav"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ TaskExporter = (*WebDAV)(nil)

var unsafeName = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// WebDAV uploads every output as a markdown page, then hands it to next.
type WebDAV struct {
	client *webdav.Client
	dir    string
	next   TaskExporter
}

func NewWebDAV(url, user, pass, dir string, next TaskExporter) (*WebDAV, error) {
	var httpClient webdav.HTTPClient = http.DefaultClient
	if user != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, user, pass)
	}
	client, err := webdav.NewClient(httpClient, url)
	if err != nil {
		return nil, errors.Wrap(err, "error creating webdav client")
	}
	return &WebDAV{client: client, dir: dir, next: next}, nil
}

func (e *WebDAV) Set(ctx context.Context, out Output) error {
	if !out.Empty() {
		if err := e.upload(ctx, out); err != nil {
			return err
		}
	}
	if e.next == nil {
		return nil
	}
	return e.next.Set(ctx, out)
}

func (e *WebDAV) upload(ctx context.Context, out Output) error {
	name := PageFileName(out)
	if e.dir != "" {
		if err := e.client.Mkdir(ctx, e.dir); err != nil {
			log.Debug().Err(err).Str("dir", e.dir).Msg("webdav mkdir failed, assuming it exists")
		}
		name = path.Join(e.dir, name)
	}

	w, err := e.client.Create(ctx, name)
	if err != nil {
		return errors.Wrap(err, "error creating webdav file")
	}
	if _, err := io.WriteString(w, RenderMarkdown(out.Title, out.Blocks)); err != nil {
		_ = w.Close()
		return errors.Wrap(err, "error writing webdav file")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "error uploading webdav file")
	}
	log.Info().Str("file", name).Int("blocks", len(out.Blocks)).Msg("outline uploaded")
	return nil
}

// PageFileName derives a stable markdown file name from the output title.
func PageFileName(out Output) string {
	name := out.Title
	if name == "" {
		name = defaultAnchor
	}
	name = strings.Trim(unsafeName.ReplaceAllString(name, "-"), "-")
	if name == "" {
		name = defaultAnchor
	}
	return name + ".md"
}
