package ui

import (
	"fmt"
	"strings"

	"agentdesk/internal/console"
)

// Section headings shown around an execution.
const (
	TraceHeading  = "Trace"
	FinalHeading  = "Final Output:"
	ResultHeading = "Result:"
)

// DrawTrace renders each step as a bordered block: a green left border for
// success and red for failure. Steps keep their server order.
func DrawTrace(s Styles, md *Markdown, steps []console.StepView, width int) string {
	if len(steps) == 0 {
		return ""
	}
	inner := width - 2
	var b strings.Builder
	b.WriteString(s.Title.Render(TraceHeading))
	b.WriteString("\n\n")
	for _, step := range steps {
		style := s.StepFailure
		mark := s.Error.Render("✗")
		if step.Outcome == console.OutcomeSuccess {
			style = s.StepSuccess
			mark = s.Success.Render("✓")
		}
		header := fmt.Sprintf("%s %s %s", mark, s.Bold.Render(fmt.Sprintf("Step %d:", step.Index)), step.SkillName)
		body := step.Output
		if md != nil {
			body = md.Render(step.Output, inner)
		}
		b.WriteString(style.Width(width).Render(header + "\n" + body))
		b.WriteString("\n")
	}
	return b.String()
}

// DrawFinal renders the final output block.
func DrawFinal(s Styles, md *Markdown, text string, width int) string {
	if text == "" {
		return ""
	}
	body := text
	if md != nil {
		body = md.Render(text, width-4)
	}
	return s.Bold.Render(FinalHeading) + "\n" + s.FinalOutput.Width(width-2).Render(body)
}

// DrawDisplay renders the trace and final output blocks that Display marks
// visible. An empty display renders as "".
func DrawDisplay(s Styles, md *Markdown, d console.Display, width int) string {
	var parts []string
	if d.ShowTrace {
		parts = append(parts, DrawTrace(s, md, d.Steps, width))
	}
	if d.ShowFinal {
		parts = append(parts, DrawFinal(s, md, d.FinalOutput, width))
	}
	return strings.Join(parts, "\n")
}

// DrawResult renders the skills-mode result slot. Failures use the error
// style.
func DrawResult(s Styles, text string, failed bool, width int) string {
	if text == "" {
		return ""
	}
	body := s.Body.Render(text)
	if failed {
		body = s.Error.Render(text)
	}
	return s.Bold.Render(ResultHeading) + "\n" + s.Result.Width(width-2).Render(body)
}
