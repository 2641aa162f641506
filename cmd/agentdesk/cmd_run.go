package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agentdesk/cmd/agentdesk/ui"
	"agentdesk/internal/agentapi"
	"agentdesk/internal/console"
	"agentdesk/internal/logging"
)

// errExecutionFailed makes one-shot commands exit non-zero after printing
// the fixed failure string.
var errExecutionFailed = errors.New(console.MsgExecuteFailed)

func newRunCmd(a *app) *cobra.Command {
	var (
		skill  string
		asJSON bool
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "run [goal...]",
		Short: "Execute one goal and print the trace",
		Long: `Sends one goal to the agent and prints the step trace and final output.

Without --skill the agent picks the skills. With --skill the request is
scoped to that catalog skill.

Examples:
  agentdesk run "What's the weather in New York?"
  agentdesk run --skill CalculatorSkill "Calculate (2 + 3) * 4"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runOnce(ctx, cmd.OutOrStdout(), strings.Join(args, " "), skill, asJSON, plain)
		},
	}
	cmd.Flags().StringVarP(&skill, "skill", "s", "", "Scope the goal to one skill")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print without markdown rendering")
	return cmd
}

// runResult is the --json output.
type runResult struct {
	RequestID   string               `json:"requestId"`
	Skill       string               `json:"skill,omitempty"`
	Goal        string               `json:"goal"`
	Trace       []agentapi.TraceStep `json:"trace"`
	FinalOutput string               `json:"finalOutput"`
	Error       string               `json:"error,omitempty"`
	ElapsedMS   int64                `json:"elapsedMs"`
}

// runOnce drives the same state machine as the console through a single
// execution.
func (a *app) runOnce(ctx context.Context, w io.Writer, goal, skill string, asJSON, plain bool) error {
	mode := console.ModeGoal
	if skill != "" {
		mode = console.ModeSkills
	}
	st := console.NewState(mode)

	if skill != "" {
		catalog := a.dispatcher.LoadCatalog(ctx)
		if !catalog.Contains(skill) {
			return fmt.Errorf("unknown skill %q (available: %s)", skill, strings.Join(catalog.Names(), ", "))
		}
		st.SetCatalog(catalog)
		st.Select(skill)
	}
	st.SetInput(goal)

	ticket, req, ok := st.BeginExecute()
	if !ok {
		return agentapi.ErrEmptyGoal
	}
	out := a.dispatcher.Execute(ctx, ticket, req)
	st.CompleteExecute(out)
	logging.WithRequestID(logging.CategoryDispatch, ticket.ID).Debug("one-shot execution finished",
		zap.Bool("failed", out.Failed()),
		zap.Int("steps", len(out.Trace)))

	if asJSON {
		res := runResult{
			RequestID:   ticket.ID,
			Skill:       req.Skill,
			Goal:        req.Goal,
			Trace:       st.Trace(),
			FinalOutput: st.FinalOutput(),
			Error:       st.Failure(),
			ElapsedMS:   out.Elapsed.Milliseconds(),
		}
		if res.Trace == nil {
			res.Trace = []agentapi.TraceStep{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printOutcome(w, &st, plain)
	}

	if out.Failed() {
		return errExecutionFailed
	}
	return nil
}

func printOutcome(w io.Writer, st *console.State, plain bool) {
	styles := ui.DefaultStyles()
	var md *ui.Markdown
	if !plain {
		md = ui.NewMarkdown(styles.Theme)
	}
	const width = 80

	if f := st.Failure(); f != "" {
		fmt.Fprintln(w, styles.Error.Render(f))
		return
	}

	d := st.Display()
	if st.Mode() == console.ModeSkills {
		fmt.Fprintln(w, ui.DrawResult(styles, st.Result(), false, width))
		d.ShowFinal = false
	}
	if body := ui.DrawDisplay(styles, md, d, width); body != "" {
		fmt.Fprintln(w, body)
	}
}
