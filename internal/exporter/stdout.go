package exporter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
)

var _ TaskExporter = (*Stdout)(nil)

const defaultWordWrap = 100

// Stdout prints the outline to a terminal. Raw skips markdown styling.
type Stdout struct {
	w   io.Writer
	Raw bool
}

func NewStdout(raw bool) *Stdout {
	return &Stdout{w: os.Stdout, Raw: raw}
}

func (e *Stdout) Set(_ context.Context, out Output) error {
	if out.Empty() {
		return nil
	}
	md := RenderMarkdown(out.Title, out.Blocks)
	if e.Raw {
		_, err := io.WriteString(e.w, md)
		return errors.Wrap(err, "error writing outline")
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(defaultWordWrap),
	)
	if err != nil {
		return errors.Wrap(err, "error creating markdown renderer")
	}
	rendered, err := r.Render(md)
	if err != nil {
		return errors.Wrap(err, "error rendering outline")
	}
	_, err = fmt.Fprint(e.w, rendered)
	return errors.Wrap(err, "error writing outline")
}
