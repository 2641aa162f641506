package console

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"agentdesk/internal/agentapi"
)

// Ticket identifies one dispatched execution.
type Ticket struct {
	ID      string
	Skill   string // selection at dispatch time, empty in goal mode
	Goal    string
	Started time.Time
}

// State is the console's view state. It is owned by one event loop and is
// not safe for concurrent use.
type State struct {
	mode Mode

	goal       string
	skillInput string
	selected   string
	menuOpen   bool
	catalog    Catalog

	phase       Phase
	trace       []agentapi.TraceStep
	finalOutput string
	result      string
	message     string
	probing     bool

	inflight *Ticket
	// discard drops the in-flight payload on completion; set when the
	// selection changes (skills mode) or Clear runs while loading.
	discard bool
	// probeDiscard drops a probe message that lands after Clear.
	probeDiscard bool
}

// NewState returns an idle state for mode with an empty catalog.
func NewState(mode Mode) State {
	return State{mode: mode, catalog: NewCatalog(nil)}
}

func (s *State) Mode() Mode { return s.mode }
func (s *State) Goal() string { return s.goal }
func (s *State) SkillInput() string { return s.skillInput }
func (s *State) Selected() string { return s.selected }
func (s *State) MenuOpen() bool { return s.menuOpen }
func (s *State) Catalog() Catalog { return s.catalog }
func (s *State) Phase() Phase { return s.phase }
func (s *State) Trace() []agentapi.TraceStep { return s.trace }
func (s *State) FinalOutput() string { return s.finalOutput }
func (s *State) Message() string { return s.message }
func (s *State) Probing() bool { return s.probing }

// Result is the result slot: the scoped result text or the failure string.
func (s *State) Result() string { return s.result }

// Failure returns the failure string, which only exists in PhaseFailed.
func (s *State) Failure() string {
	if s.phase != PhaseFailed {
		return ""
	}
	return s.result
}

// InFlight returns the ticket of the outstanding execution, if any.
func (s *State) InFlight() (Ticket, bool) {
	if s.inflight == nil {
		return Ticket{}, false
	}
	return *s.inflight, true
}

// Busy is the loading flag. It gates every dispatch, including the
// connectivity probe.
func (s *State) Busy() bool {
	return s.phase == PhaseLoading || s.probing
}

// Display renders the last trace and final output.
func (s *State) Display() Display {
	return Render(s.trace, s.finalOutput)
}

// SetCatalog replaces the catalog. A selection no longer offered is dropped.
func (s *State) SetCatalog(c Catalog) {
	s.catalog = c
	if s.selected != "" && !c.Contains(s.selected) {
		s.selected = ""
		s.selectionChanged()
	}
}

// SetGoal sets the free-form goal text.
func (s *State) SetGoal(text string) { s.goal = text }

// SetSkillInput sets the request text for the selected skill.
func (s *State) SetSkillInput(text string) { s.skillInput = text }

// Input returns the text execute would send in the current mode.
func (s *State) Input() string {
	if s.mode == ModeSkills {
		return s.skillInput
	}
	return s.goal
}

// SetInput sets the text field used by the current mode.
func (s *State) SetInput(text string) {
	if s.mode == ModeSkills {
		s.skillInput = text
		return
	}
	s.goal = text
}

// Select sets the current skill unconditionally. In skills mode switching
// to a different skill clears the previous results.
func (s *State) Select(name string) {
	if name == s.selected {
		return
	}
	s.selected = name
	s.selectionChanged()
}

// ClearSelection empties the selection, the skill input and, in skills mode,
// prior results.
func (s *State) ClearSelection() {
	s.selected = ""
	s.skillInput = ""
	s.selectionChanged()
}

// selectionChanged drops results scoped to the old selection. Goal requests
// never carry a skill, so goal mode results survive.
func (s *State) selectionChanged() {
	if s.mode == ModeSkills {
		s.resetResults()
	}
}

// Clear resets the inputs, the results and the message slot. Selection and
// menu state are left alone.
func (s *State) Clear() {
	s.goal = ""
	s.skillInput = ""
	s.message = ""
	if s.probing {
		s.probeDiscard = true
	}
	s.resetResults()
}

// resetResults empties the result fields. While loading the phase is kept so
// the gate stays closed; the pending payload is marked for discard instead.
func (s *State) resetResults() {
	s.trace = nil
	s.finalOutput = ""
	s.result = ""
	if s.phase == PhaseLoading {
		s.discard = true
		return
	}
	s.phase = PhaseIdle
}

// ToggleMenu flips the skill menu. It never touches selection or execution.
func (s *State) ToggleMenu() { s.menuOpen = !s.menuOpen }

// CloseMenu closes the skill menu.
func (s *State) CloseMenu() { s.menuOpen = false }

// CanExecute reports whether BeginExecute would dispatch.
func (s *State) CanExecute() bool {
	if s.Busy() {
		return false
	}
	if strings.TrimSpace(s.Input()) == "" {
		return false
	}
	return s.mode == ModeGoal || s.selected != ""
}

// BeginExecute moves to PhaseLoading and returns the request to send. It
// returns ok=false, changing nothing, when busy, when the input is blank, or
// in skills mode with no selection.
func (s *State) BeginExecute() (Ticket, agentapi.ExecutionRequest, bool) {
	if !s.CanExecute() {
		return Ticket{}, agentapi.ExecutionRequest{}, false
	}

	req := agentapi.ExecutionRequest{Goal: s.Input()}
	if s.mode == ModeSkills {
		req.Skill = s.selected
	}

	t := Ticket{
		ID:      uuid.NewString(),
		Skill:   req.Skill,
		Goal:    req.Goal,
		Started: time.Now(),
	}

	s.trace = nil
	s.finalOutput = ""
	s.result = ""
	s.discard = false
	s.phase = PhaseLoading
	s.inflight = &t

	return t, req, true
}

// CompleteExecute applies an outcome and always leaves PhaseLoading for the
// matching ticket. It reports whether the payload was shown; a payload is
// dropped when the selection changed or Clear ran in the meantime.
func (s *State) CompleteExecute(out ExecutionOutcome) bool {
	if s.inflight == nil || s.inflight.ID != out.Ticket.ID {
		return false
	}
	s.inflight = nil

	if s.discard || out.Ticket.Skill != s.currentSkill() {
		s.discard = false
		s.phase = PhaseIdle
		return false
	}

	if out.Failed() {
		s.phase = PhaseFailed
		s.trace = nil
		s.finalOutput = ""
		s.result = out.Failure
		return true
	}

	s.phase = PhaseSucceeded
	s.trace = out.Trace
	s.finalOutput = out.FinalOutput
	s.result = ""
	if s.mode == ModeSkills {
		s.result = out.FinalOutput
	}
	return true
}

func (s *State) currentSkill() string {
	if s.mode == ModeSkills {
		return s.selected
	}
	return ""
}

// BeginProbe starts the connectivity check. It is gated like execution.
func (s *State) BeginProbe() bool {
	if s.Busy() {
		return false
	}
	s.probing = true
	s.probeDiscard = false
	return true
}

// CompleteProbe releases the gate and stores the probe result in the message
// slot. It reports whether the message was shown; a message that lands after
// Clear is dropped.
func (s *State) CompleteProbe(out ProbeOutcome) bool {
	s.probing = false
	if s.probeDiscard {
		s.probeDiscard = false
		return false
	}
	s.message = out.Message
	return true
}
