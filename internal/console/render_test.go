package console

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"agentdesk/internal/agentapi"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		trace []agentapi.TraceStep
		final string
		want  Display
	}{
		{
			name: "both empty",
			want: Display{},
		},
		{
			name:  "final only",
			final: "Sunny, 21C",
			want:  Display{FinalOutput: "Sunny, 21C", ShowFinal: true},
		},
		{
			name:  "trace only",
			trace: []agentapi.TraceStep{{SkillName: "MockSearchSkill", Success: false, Output: "no results"}},
			want: Display{
				Steps:     []StepView{{Index: 1, SkillName: "MockSearchSkill", Output: "no results", Outcome: OutcomeFailure}},
				ShowTrace: true,
			},
		},
		{
			name: "order preserved",
			trace: []agentapi.TraceStep{
				{SkillName: "MockSearchSkill", Success: true, Output: "3 articles"},
				{SkillName: "SummarizeSkill", Success: false, Output: "too long"},
				{SkillName: "SummarizeSkill", Success: true, Output: "short summary"},
			},
			final: "short summary",
			want: Display{
				Steps: []StepView{
					{Index: 1, SkillName: "MockSearchSkill", Output: "3 articles", Outcome: OutcomeSuccess},
					{Index: 2, SkillName: "SummarizeSkill", Output: "too long", Outcome: OutcomeFailure},
					{Index: 3, SkillName: "SummarizeSkill", Output: "short summary", Outcome: OutcomeSuccess},
				},
				FinalOutput: "short summary",
				ShowTrace:   true,
				ShowFinal:   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.trace, tt.final)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderEmptySliceIsNotATrace(t *testing.T) {
	d := Render([]agentapi.TraceStep{}, "")
	if !d.Empty() {
		t.Errorf("expected empty display, got %+v", d)
	}
}
