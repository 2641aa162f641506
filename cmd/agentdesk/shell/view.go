package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"agentdesk/cmd/agentdesk/ui"
	"agentdesk/internal/console"
)

// Status labels shown next to the spinner.
const (
	labelExecuting  = "Executing..."
	labelProcessing = "Processing..."
	labelProbing    = "Testing connection..."
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.layout.TooSmall() {
		return m.styles.Warning.Render("Terminal too small. Resize to at least 60x16.")
	}

	open := m.state.MenuOpen()
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderExecutor(),
		m.textarea.View(),
		m.renderStatus(),
		m.viewport.View(),
	)
	main = m.styles.Content.Width(m.layout.MainWidth(open)).Render(main)
	if open {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderMenu())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		main,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("agentdesk")
	parts := []string{title, m.styles.Badge.Render(m.state.Mode().String())}
	if sel := m.state.Selected(); sel != "" {
		parts = append(parts, m.styles.Bold.Render(ui.DisplayName(sel)))
	}
	if m.baseURL != "" && !m.layout.IsCompact {
		parts = append(parts, m.styles.Muted.Render(m.baseURL))
	}
	if !m.catalogLoaded {
		parts = append(parts, m.styles.Muted.Render("loading skills"))
	}
	if m.dispatcher != nil && m.dispatcher.Usage() != nil {
		if s := m.dispatcher.Usage().Session(); s.Runs > 0 {
			parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("runs %d · failed %d", s.Runs, s.Failures)))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	return m.styles.Footer.Render(m.help.View(m.keys))
}

// renderExecutor is the line above the input: the scoped skill in skills
// mode, a prompt in goal mode.
func (m Model) renderExecutor() string {
	if m.state.Mode() == console.ModeGoal {
		return m.styles.Prompt.Render("Goal")
	}
	sel := m.state.Selected()
	if sel == "" {
		return m.styles.Muted.Render("No skill selected. Press ctrl+s to open the skill menu.")
	}
	return m.styles.Prompt.Render("Execute: " + ui.DisplayName(sel))
}

func (m Model) renderStatus() string {
	if m.state.Busy() {
		label := labelProcessing
		switch {
		case m.state.Probing():
			label = labelProbing
		case m.state.Mode() == console.ModeSkills:
			label = labelExecuting
		}
		return m.spinner.View() + " " + m.styles.Muted.Render(label)
	}
	if m.hint != "" {
		return m.styles.Warning.Render(m.hint)
	}
	if m.state.Mode() == console.ModeSkills {
		if m.state.Selected() == "" {
			return ""
		}
		return m.styles.Muted.Render("enter · Execute Skill")
	}
	return m.styles.Muted.Render("enter · Execute    ctrl+l · Clear")
}

func (m Model) renderMenu() string {
	return m.styles.Sidebar.
		Width(m.layout.MenuWidth - 1).
		Height(m.layout.MenuHeight()).
		Render(m.menu.View())
}

// renderBody is the scrollable viewport content.
func (m Model) renderBody(width int) string {
	var sections []string

	if msg := m.state.Message(); msg != "" {
		style := m.styles.Info
		if msg == console.MsgConnectFailed {
			style = m.styles.Error
		}
		sections = append(sections, style.Render("Server says: "+msg))
	}

	if m.state.Mode() == console.ModeSkills {
		sections = append(sections, m.renderSkillBody(width)...)
	} else {
		sections = append(sections, m.renderGoalBody(width)...)
	}

	return strings.Join(sections, "\n\n")
}

func (m Model) renderSkillBody(width int) []string {
	var out []string
	sel := m.state.Selected()
	if sel != "" {
		if skill, ok := m.state.Catalog().Get(sel); ok {
			out = append(out, m.styles.Subtitle.Render(ui.Blurb(skill)))
		}
		if examples := ui.ExampleRequests(sel); len(examples) > 0 {
			var b strings.Builder
			b.WriteString(m.styles.Bold.Render("Example requests:"))
			for _, ex := range examples {
				b.WriteString("\n  • ")
				b.WriteString(m.styles.Muted.Render(ex))
			}
			out = append(out, b.String())
		}
	}

	if r := ui.DrawResult(m.styles, m.state.Result(), m.state.Phase() == console.PhaseFailed, width); r != "" {
		out = append(out, r)
	}

	d := m.state.Display()
	d.ShowFinal = false
	if t := ui.DrawDisplay(m.styles, m.markdown, d, width); t != "" {
		out = append(out, t)
	}
	return out
}

func (m Model) renderGoalBody(width int) []string {
	var out []string
	if f := m.state.Failure(); f != "" {
		out = append(out, m.styles.Error.Render(f))
	}
	if d := ui.DrawDisplay(m.styles, m.markdown, m.state.Display(), width); d != "" {
		out = append(out, d)
	}
	if len(out) == 0 && m.state.Phase() == console.PhaseIdle {
		out = append(out, m.styles.Muted.Render("Enter a goal and press enter. The agent picks the skills."))
	}
	return out
}
