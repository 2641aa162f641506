// Package shell is the interactive agentdesk console: a bubbletea program
// that drives the console state machine from key presses and mouse events.
package shell

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"agentdesk/cmd/agentdesk/ui"
	"agentdesk/internal/config"
	"agentdesk/internal/console"
	"agentdesk/internal/logging"
)

// Config wires the shell to its backend.
type Config struct {
	Dispatcher *console.Dispatcher
	Mode       console.Mode
	UI         config.UIConfig
	BaseURL    string
	Logger     *zap.Logger
}

// Model is the bubbletea model for the console.
type Model struct {
	// UI Components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	menu     list.Model
	help     help.Model
	keys     keyMap
	styles   ui.Styles
	markdown *ui.Markdown
	layout   ui.LayoutConfig

	// Console core
	state      console.State
	dispatcher *console.Dispatcher
	ctx        context.Context
	logger     *zap.Logger

	baseURL       string
	menuWidth     int
	hint          string
	catalogLoaded bool
	spinning      bool
	width         int
	height        int
	ready         bool
	quitting      bool
}

// New builds the console model. The catalog is fetched by Init.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Get(logging.CategoryUI)
	}

	theme := ui.ThemeFor(cfg.UI.Theme)
	styles := ui.NewStyles(theme)

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(ui.InputHeight)
	ta.Prompt = "┃ "
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(ui.MenuItemHeight)
	delegate.SetSpacing(ui.MenuItemSpacing)
	delegate.Styles.SelectedTitle = styles.MenuItemSelected
	delegate.Styles.SelectedDesc = styles.MenuItemSelected.Bold(false).Foreground(theme.Muted)
	menu := list.New(nil, delegate, 0, 0)
	menu.Title = ui.MenuHeading(0)
	menu.Styles.Title = styles.Title
	menu.SetShowHelp(false)
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetStatusBarItemName("skill", "skills")

	m := Model{
		textarea:   ta,
		viewport:   vp,
		spinner:    sp,
		menu:       menu,
		help:       help.New(),
		keys:       defaultKeyMap(),
		styles:     styles,
		markdown:   ui.NewMarkdown(theme),
		state:      console.NewState(cfg.Mode),
		dispatcher: cfg.Dispatcher,
		ctx:        context.Background(),
		logger:     logger,
		baseURL:    cfg.BaseURL,
		menuWidth:  cfg.UI.MenuWidth,
	}
	m.syncPlaceholder()
	return m
}

// Init starts the cursor blink and the one startup catalog fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, loadCatalogCmd(m.ctx, m.dispatcher))
}

// Run starts the console on the alternate screen and blocks until quit.
func Run(cfg Config) error {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(New(cfg), opts...)
	logging.UI("console started in %s mode", cfg.Mode)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		entries, hits, misses := m.markdown.CacheStats()
		logging.UI("console exited (markdown cache: %d entries, %d hits, %d misses)", entries, hits, misses)
		return nil
	}
	logging.UI("console exited")
	return nil
}
