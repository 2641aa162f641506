package shell

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"agentdesk/internal/agentapi"
	"agentdesk/internal/config"
	"agentdesk/internal/console"
	"agentdesk/internal/usage"
)

// stubBackend is a scripted, call-counting console.Backend.
type stubBackend struct {
	mu sync.Mutex

	skills     []agentapi.Skill
	skillsErr  error
	message    agentapi.Message
	messageErr error
	result     agentapi.ExecutionResult
	executeErr error

	executeCalls int
	messageCalls int
	requests     []agentapi.ExecutionRequest
}

func (s *stubBackend) Skills(context.Context) ([]agentapi.Skill, error) {
	return s.skills, s.skillsErr
}

func (s *stubBackend) Message(context.Context) (agentapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageCalls++
	return s.message, s.messageErr
}

func (s *stubBackend) Execute(_ context.Context, req agentapi.ExecutionRequest) (agentapi.ExecutionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executeCalls++
	s.requests = append(s.requests, req)
	return s.result, s.executeErr
}

func (s *stubBackend) executions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executeCalls
}

func defaultSkills() []agentapi.Skill {
	return []agentapi.Skill{
		{Name: "CalculatorSkill"},
		{Name: "WeatherSkill"},
		{Name: "SummarizeSkill"},
	}
}

type testOption func(*Config, *stubBackend)

func withMode(mode console.Mode) testOption {
	return func(c *Config, _ *stubBackend) { c.Mode = mode }
}

func withBackend(fn func(*stubBackend)) testOption {
	return func(_ *Config, b *stubBackend) { fn(b) }
}

// NewTestModel returns a sized model over a stub backend. The catalog is
// not loaded; use loadCatalog.
func NewTestModel(t *testing.T, opts ...testOption) (Model, *stubBackend) {
	t.Helper()
	t.Setenv("COLORFGBG", "")
	t.Setenv("AGENTDESK_DARK_MODE", "")

	b := &stubBackend{skills: defaultSkills()}
	cfg := Config{
		Mode:    console.ModeSkills,
		UI:      config.DefaultUIConfig(),
		BaseURL: "http://agent.test",
		Logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg, b)
	}
	cfg.Dispatcher = console.NewDispatcher(b, zap.NewNop()).WithUsage(usage.NewTracker())

	m := New(cfg)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, b
}

// update applies one message and returns the concrete model.
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// updateCmd applies one message and returns the model plus its command.
func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// collect runs cmd and flattens batches. Commands that sleep (tea.Tick) are
// never produced on the paths exercised here.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver feeds the network result messages produced by cmd back into m.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case catalogLoadedMsg, executionDoneMsg, messageDoneMsg:
			m = update(t, m, msg)
		}
	}
	return m
}

func loadCatalog(t *testing.T, m Model) Model {
	t.Helper()
	return deliver(t, m, loadCatalogCmd(m.ctx, m.dispatcher))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return update(t, m, keyRunes(s))
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyMenu  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyClear = tea.KeyMsg{Type: tea.KeyCtrlL}
	keyPing  = tea.KeyMsg{Type: tea.KeyCtrlT}
	keyDesel = tea.KeyMsg{Type: tea.KeyCtrlD}
)

// selectNth opens the menu, moves to the nth skill and selects it.
func selectNth(t *testing.T, m Model, n int) Model {
	t.Helper()
	if !m.state.MenuOpen() {
		m = update(t, m, keyMenu)
	}
	for i := 0; i < n; i++ {
		m = update(t, m, keyDown)
	}
	return update(t, m, keyEnter)
}
