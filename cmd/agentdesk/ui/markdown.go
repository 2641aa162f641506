package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Markdown renders agent output through glamour. Renderers are rebuilt only
// when the wrap width changes and output is cached per (width, text).
type Markdown struct {
	mu       sync.Mutex
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    *RenderCache
}

// NewMarkdown creates a renderer using the glamour standard style matching
// the theme.
func NewMarkdown(theme Theme) *Markdown {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	return &Markdown{style: style, cache: NewRenderCache(128)}
}

// Render formats text for width columns. Glamour failures, including panics,
// fall back to the plain text.
func (m *Markdown) Render(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	key := ComputeKey(m.style, width, text)
	return m.cache.GetOrCompute(key, func() string {
		out, err := m.safeRender(text, width)
		if err != nil {
			return text
		}
		return strings.TrimRight(out, "\n")
	})
}

// CacheStats reports the cached entry count and the hit and miss counters.
func (m *Markdown) CacheStats() (entries, hits, misses int) {
	hits, misses = m.cache.Stats()
	return m.cache.Len(), hits, misses
}

func (m *Markdown) safeRender(text string, width int) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown render panic: %v", r)
		}
	}()

	r, err := m.rendererFor(width)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return r.Render(text)
}

func (m *Markdown) rendererFor(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renderer != nil && m.width == width {
		return m.renderer, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderer = r
	m.width = width
	return r, nil
}
