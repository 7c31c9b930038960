package exporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"todoblocks/internal/retrieve"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

var _ retrieve.Notifier = (*Console)(nil)

var levelStyles = map[retrieve.Level]lipgloss.Style{
	retrieve.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	retrieve.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	retrieve.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	retrieve.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// Console prints user messages to stderr.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole() *Console {
	return &Console{w: os.Stderr}
}

func (c *Console) ShowMsg(_ context.Context, msg string, level retrieve.Level) {
	log.Debug().Str("level", string(level)).Msg(msg)
	style, ok := levelStyles[level]
	if !ok {
		style = levelStyles[retrieve.LevelInfo]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, style.Render(msg))
}
