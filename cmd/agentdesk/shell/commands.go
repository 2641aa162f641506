package shell

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"agentdesk/internal/agentapi"
	"agentdesk/internal/console"
)

// Messages delivered back to Update by the network commands.
type (
	catalogLoadedMsg struct {
		catalog console.Catalog
	}

	executionDoneMsg struct {
		outcome console.ExecutionOutcome
	}

	messageDoneMsg struct {
		outcome console.ProbeOutcome
	}
)

func loadCatalogCmd(ctx context.Context, d *console.Dispatcher) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{catalog: d.LoadCatalog(ctx)}
	}
}

func executeCmd(ctx context.Context, d *console.Dispatcher, t console.Ticket, req agentapi.ExecutionRequest) tea.Cmd {
	return func() tea.Msg {
		return executionDoneMsg{outcome: d.Execute(ctx, t, req)}
	}
}

func pingCmd(ctx context.Context, d *console.Dispatcher) tea.Cmd {
	return func() tea.Msg {
		return messageDoneMsg{outcome: d.Ping(ctx)}
	}
}
