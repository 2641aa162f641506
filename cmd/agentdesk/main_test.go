package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdesk/internal/agentapi"
	"agentdesk/internal/config"
	"agentdesk/internal/console"
	"agentdesk/internal/logging"
)

// fakeAgent is an in-process agent service.
type fakeAgent struct {
	mu       sync.Mutex
	requests []map[string]any

	executeStatus int
	executeBody   string
	message       string
}

func newFakeAgent(t *testing.T) (*fakeAgent, *httptest.Server) {
	t.Helper()
	fa := &fakeAgent{
		executeStatus: http.StatusOK,
		executeBody:   `{"trace":[{"skillName":"CalculatorSkill","success":true,"output":"15"}],"finalOutput":"Result: 15"}`,
		message:       `{"message":"Agent ready"}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/agent/skills", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"skills":["CalculatorSkill","WeatherSkill","SummarizeSkill"]}`)
	})
	mux.HandleFunc("GET /api/agent/message", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, fa.message)
	})
	mux.HandleFunc("POST /api/agent/execute", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		fa.mu.Lock()
		fa.requests = append(fa.requests, body)
		fa.mu.Unlock()
		w.WriteHeader(fa.executeStatus)
		io.WriteString(w, fa.executeBody)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fa, srv
}

func (f *fakeAgent) lastRequest(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

// runCLI executes the root command against a temp config that logs into
// the test directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"AGENTDESK_SERVER_URL", "AGENTDESK_MODE", "AGENTDESK_LOG_LEVEL", "AGENTDESK_THEME"} {
		t.Setenv(k, "")
	}
	logging.ResetForTest()
	t.Cleanup(logging.ResetForTest)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Logging.File = filepath.Join(dir, "agentdesk.log")
	require.NoError(t, cfg.Save(cfgPath))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSkillsCmd(t *testing.T) {
	_, srv := newFakeAgent(t)

	out, err := runCLI(t, "--server", srv.URL, "skills", "--plain")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "CalculatorSkill")
	assert.Contains(t, out, "AI-powered weather functionality")
	assert.Equal(t, 4, strings.Count(out, "\n"), "header plus three skills")
}

func TestRunCmd_GoalOmitsSkill(t *testing.T) {
	fa, srv := newFakeAgent(t)

	out, err := runCLI(t, "--server", srv.URL, "run", "--plain", "Calculate", "5", "*", "3")
	require.NoError(t, err)

	req := fa.lastRequest(t)
	assert.Equal(t, "Calculate 5 * 3", req["goal"])
	_, hasSkill := req["skill"]
	assert.False(t, hasSkill)
	assert.Contains(t, out, "CalculatorSkill")
	assert.Contains(t, out, "Result: 15")
}

func TestRunCmd_ScopedJSON(t *testing.T) {
	fa, srv := newFakeAgent(t)

	out, err := runCLI(t, "--server", srv.URL, "run", "--skill", "CalculatorSkill", "--json", "Calculate 10 + 5")
	require.NoError(t, err)

	assert.Equal(t, "CalculatorSkill", fa.lastRequest(t)["skill"])

	var res runResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "CalculatorSkill", res.Skill)
	assert.Equal(t, "Result: 15", res.FinalOutput)
	assert.Equal(t, []agentapi.TraceStep{{SkillName: "CalculatorSkill", Success: true, Output: "15"}}, res.Trace)
	assert.NotEmpty(t, res.RequestID)
	assert.Empty(t, res.Error)
}

func TestRunCmd_UnknownSkill(t *testing.T) {
	fa, srv := newFakeAgent(t)

	_, err := runCLI(t, "--server", srv.URL, "run", "--skill", "TranslateSkill", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown skill")
	assert.Empty(t, fa.requests, "nothing dispatched")
}

func TestRunCmd_FailurePrintsFixedString(t *testing.T) {
	fa, srv := newFakeAgent(t)
	fa.executeStatus = http.StatusInternalServerError
	fa.executeBody = `{"error":"Unknown skill: nope"}`

	out, err := runCLI(t, "--server", srv.URL, "run", "--plain", "anything")
	require.ErrorIs(t, err, errExecutionFailed)
	assert.Contains(t, out, console.MsgExecuteFailed)
	assert.NotContains(t, out, "Unknown skill: nope")
}

func TestRunCmd_BlankGoal(t *testing.T) {
	_, srv := newFakeAgent(t)
	_, err := runCLI(t, "--server", srv.URL, "run", "   ")
	assert.ErrorIs(t, err, agentapi.ErrEmptyGoal)
}

func TestPingCmd(t *testing.T) {
	fa, srv := newFakeAgent(t)

	out, err := runCLI(t, "--server", srv.URL, "ping")
	require.NoError(t, err)
	assert.Equal(t, "Server says: Agent ready\n", out)

	fa.message = `{}`
	out, err = runCLI(t, "--server", srv.URL, "ping")
	require.NoError(t, err)
	assert.Equal(t, "Server says: "+console.MsgDefaultGreeting+"\n", out)
}

func TestPingCmd_Unreachable(t *testing.T) {
	_, srv := newFakeAgent(t)
	url := srv.URL
	srv.Close()

	out, err := runCLI(t, "--server", url, "ping")
	assert.ErrorIs(t, err, errUnreachable)
	assert.Contains(t, out, console.MsgConnectFailed)
}

func TestStatusCmd(t *testing.T) {
	_, srv := newFakeAgent(t)

	out, err := runCLI(t, "--server", srv.URL, "status", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, agentapi.PathSkills)
	assert.Contains(t, out, agentapi.PathMessage)
	assert.Contains(t, out, "AI Skills (3)")
	assert.Contains(t, out, "Agent ready")
	assert.NotContains(t, out, "error")
}

func TestConfigInitAndShow(t *testing.T) {
	for _, k := range []string{"AGENTDESK_SERVER_URL", "AGENTDESK_MODE", "AGENTDESK_LOG_LEVEL", "AGENTDESK_THEME"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	exec := func(args ...string) (string, error) {
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs(append([]string{"--config", path}, args...))
		err := root.Execute()
		return out.String(), err
	}

	_, err := exec("--server", "http://agent.internal:9000", "--mode", "goal", "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = exec("config", "init")
	assert.Error(t, err, "refuses to overwrite")
	_, err = exec("config", "init", "--force")
	assert.NoError(t, err)

	out, err := exec("--server", "http://override:1", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://override:1")
}

func TestInvalidModeFlag(t *testing.T) {
	_, srv := newFakeAgent(t)
	_, err := runCLI(t, "--server", srv.URL, "--mode", "turbo", "ping")
	assert.Error(t, err)
}
