// Package console is the client-side orchestration core: skill catalog,
// selection, execution dispatch and the display model. It holds no terminal
// code; cmd/agentdesk drives it from a bubbletea program and from one-shot
// commands.
package console

import (
	"fmt"
	"strings"
)

// User-facing strings. Failures never show raw errors.
const (
	MsgExecuteFailed   = "Error executing skill"
	MsgConnectFailed   = "Error connecting to server"
	MsgDefaultGreeting = "Hello from server!"
	MsgSkillExecuted   = "Skill executed successfully!"
)

// Mode selects how goals are dispatched.
type Mode int

const (
	// ModeGoal sends free-form goals; the agent picks the skills.
	ModeGoal Mode = iota
	// ModeSkills scopes each goal to the selected skill.
	ModeSkills
)

func (m Mode) String() string {
	switch m {
	case ModeGoal:
		return "goal"
	case ModeSkills:
		return "skills"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "goal" or "skills".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goal":
		return ModeGoal, nil
	case "skills", "skill":
		return ModeSkills, nil
	default:
		return ModeGoal, fmt.Errorf("unknown mode %q (valid: goal, skills)", s)
	}
}

// Phase is the execution lifecycle. Loading is only true in PhaseLoading and
// a failure string only exists in PhaseFailed.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}
