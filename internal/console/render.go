package console

import "agentdesk/internal/agentapi"

// Outcome is the two-valued success discriminator of a trace step.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// StepView is one rendered trace entry.
type StepView struct {
	Index     int
	SkillName string
	Output    string
	Outcome   Outcome
}

// Display is the pure display model of an execution.
type Display struct {
	Steps       []StepView
	FinalOutput string
	ShowTrace   bool
	ShowFinal   bool
}

// Empty reports whether neither block is shown.
func (d Display) Empty() bool {
	return !d.ShowTrace && !d.ShowFinal
}

// Render turns a trace and final output into a Display. Step order is kept.
func Render(trace []agentapi.TraceStep, finalOutput string) Display {
	d := Display{
		FinalOutput: finalOutput,
		ShowTrace:   len(trace) > 0,
		ShowFinal:   finalOutput != "",
	}
	if d.ShowTrace {
		d.Steps = make([]StepView, len(trace))
		for i, step := range trace {
			outcome := OutcomeFailure
			if step.Success {
				outcome = OutcomeSuccess
			}
			d.Steps[i] = StepView{
				Index:     i + 1,
				SkillName: step.SkillName,
				Output:    step.Output,
				Outcome:   outcome,
			}
		}
	}
	return d
}
