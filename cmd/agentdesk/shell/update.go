package shell

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"agentdesk/cmd/agentdesk/ui"
	"agentdesk/internal/console"
)

// Hints shown when Enter cannot dispatch.
const (
	hintEmptyGoal   = "Please enter a goal"
	hintEmptyInput  = "Please enter a request"
	hintNoSelection = "Select a skill first (ctrl+s)"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.relayout()
		return m, nil

	case catalogLoadedMsg:
		m.catalogLoaded = true
		m.state.SetCatalog(msg.catalog)
		m.syncPlaceholder()
		m.refreshMenu()
		m.refreshContent()
		return m, nil

	case executionDoneMsg:
		if !m.state.CompleteExecute(msg.outcome) {
			m.logger.Debug("execution result discarded", zap.String("request_id", msg.outcome.Ticket.ID))
		}
		m.refreshContent()
		return m, nil

	case messageDoneMsg:
		if !m.state.CompleteProbe(msg.outcome) {
			m.logger.Debug("connectivity result discarded")
		}
		m.refreshContent()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// handleKey routes global keys first, then the menu (when open) or the input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Menu):
		m.state.ToggleMenu()
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Ping):
		return m.startProbe()

	case key.Matches(msg, m.keys.Clear):
		m.state.Clear()
		m.textarea.Reset()
		m.hint = ""
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Deselect):
		m.state.ClearSelection()
		m.textarea.SetValue(m.state.Input())
		m.hint = ""
		m.syncPlaceholder()
		m.refreshMenu()
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.state.MenuOpen() {
		return m.handleMenuKey(msg)
	}

	if key.Matches(msg, m.keys.Execute) {
		return m.startExecute()
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.state.SetInput(m.textarea.Value())
	m.hint = ""
	return m, cmd
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.state.CloseMenu()
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if item, ok := m.menu.SelectedItem().(ui.SkillItem); ok {
			m.selectSkill(item.Skill.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

// handleMouse selects the skill under a click in the side panel, closes the
// menu on a click over the overlay and forwards wheel events to the result
// viewport.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if !m.state.MenuOpen() {
			return m, nil
		}
		if !m.layout.InMenu(msg.X) {
			m.state.CloseMenu()
			m.relayout()
			return m, nil
		}
		if item, ok := m.menuItemAt(msg.Y); ok {
			m.selectSkill(item.Skill.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// menuItemAt returns the skill drawn at screen row y and moves the list
// cursor onto it.
func (m *Model) menuItemAt(y int) (ui.SkillItem, bool) {
	slot, ok := m.layout.MenuSlot(y)
	if !ok || slot >= m.menu.Paginator.PerPage {
		return ui.SkillItem{}, false
	}
	idx := m.menu.Paginator.Page*m.menu.Paginator.PerPage + slot
	items := m.menu.VisibleItems()
	if idx >= len(items) {
		return ui.SkillItem{}, false
	}
	item, ok := items[idx].(ui.SkillItem)
	if !ok {
		return ui.SkillItem{}, false
	}
	m.menu.Select(idx)
	return item, true
}

func (m *Model) selectSkill(name string) {
	if name == m.state.Selected() {
		return
	}
	m.state.Select(name)
	m.hint = ""
	m.logger.Debug("skill selected", zap.String("skill", name))
	m.syncPlaceholder()
	m.refreshMenu()
	m.refreshContent()
}

func (m Model) startExecute() (tea.Model, tea.Cmd) {
	t, req, ok := m.state.BeginExecute()
	if !ok {
		m.hint = m.blockedHint()
		m.refreshContent()
		return m, nil
	}
	m.hint = ""
	m.logger.Debug("execution dispatched",
		zap.String("request_id", t.ID),
		zap.String("skill", req.Skill),
		zap.Int("goal_len", len(req.Goal)))
	spin := m.startSpinner()
	m.refreshContent()
	return m, tea.Batch(spin, executeCmd(m.ctx, m.dispatcher, t, req))
}

// blockedHint explains why Enter did nothing. Busy presses stay silent.
func (m Model) blockedHint() string {
	if m.state.Busy() {
		return ""
	}
	if m.state.Mode() == console.ModeSkills && m.state.Selected() == "" {
		return hintNoSelection
	}
	if strings.TrimSpace(m.state.Input()) == "" {
		if m.state.Mode() == console.ModeGoal {
			return hintEmptyGoal
		}
		return hintEmptyInput
	}
	return ""
}

func (m Model) startProbe() (tea.Model, tea.Cmd) {
	if !m.state.BeginProbe() {
		return m, nil
	}
	spin := m.startSpinner()
	m.refreshContent()
	return m, tea.Batch(spin, pingCmd(m.ctx, m.dispatcher))
}

// startSpinner starts one tick chain; a running chain is left alone.
func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) relayout() {
	if !m.ready {
		return
	}
	m.layout = ui.NewLayoutConfig(m.width, m.height, m.menuWidth)
	open := m.state.MenuOpen()
	w := m.layout.ContentWidth(open)

	m.textarea.SetWidth(w)
	m.viewport.Width = w
	m.viewport.Height = m.layout.ViewportHeight()
	if m.help.ShowAll && m.viewport.Height > 5 {
		m.viewport.Height -= 2
	}
	m.help.Width = m.layout.TerminalWidth
	m.menu.SetSize(m.layout.MenuWidth-3, m.layout.MenuHeight())
	m.refreshContent()
}

func (m *Model) refreshMenu() {
	c := m.state.Catalog()
	items := make([]list.Item, 0, c.Len())
	for _, s := range c.Skills() {
		items = append(items, ui.SkillItem{Skill: s, Selected: s.Name == m.state.Selected()})
	}
	m.menu.SetItems(items)
	m.menu.Title = ui.MenuHeading(c.Len())
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderBody(m.viewport.Width))
}

func (m *Model) syncPlaceholder() {
	if m.state.Mode() == console.ModeGoal {
		m.textarea.Placeholder = "Describe your goal..."
		return
	}
	m.textarea.Placeholder = ui.Placeholder(m.state.Selected())
}
