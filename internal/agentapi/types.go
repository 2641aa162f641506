package agentapi

import (
	"bytes"
	"fmt"

	json "github.com/json-iterator/go"
)

// Skill is one entry of the agent's skill catalog.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts either a bare name ("CalculatorSkill") or an object
// ({"name": "...", "description": "..."}).
func (s *Skill) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("decode skill name: %w", err)
		}
		*s = Skill{Name: name}
		return nil
	}

	type plain Skill
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode skill: %w", err)
	}
	*s = Skill(p)
	return nil
}

// TraceStep is one action the agent took while pursuing a goal.
type TraceStep struct {
	SkillName string `json:"skillName"`
	Success   bool   `json:"success"`
	Output    string `json:"output"`
}

// ExecutionRequest is the body of POST /api/agent/execute. Skill is only set
// on the scoped path; unscoped requests never carry the field.
type ExecutionRequest struct {
	Skill string `json:"skill,omitempty"`
	Goal  string `json:"goal"`
}

// Scoped reports whether the request names a skill.
func (r ExecutionRequest) Scoped() bool {
	return r.Skill != ""
}

// ExecutionResult is the decoded execute response with defaults applied.
type ExecutionResult struct {
	Trace       []TraceStep
	FinalOutput string

	// HasFinalOutput is false when the server omitted finalOutput (or sent null).
	HasFinalOutput bool
}

// executionWire mirrors the response body. Pointer fields distinguish absent
// from empty; echoed goal/skill fields are ignored.
type executionWire struct {
	Trace       *[]TraceStep `json:"trace"`
	FinalOutput *string      `json:"finalOutput"`
}

func (w executionWire) result() ExecutionResult {
	res := ExecutionResult{Trace: []TraceStep{}}
	if w.Trace != nil && *w.Trace != nil {
		res.Trace = *w.Trace
	}
	if w.FinalOutput != nil {
		res.FinalOutput = *w.FinalOutput
		res.HasFinalOutput = true
	}
	return res
}

type skillsWire struct {
	Skills []Skill `json:"skills"`
}

type messageWire struct {
	Message *string `json:"message"`
}

// Message is the decoded connectivity probe response.
type Message struct {
	Text    string
	Present bool
}
