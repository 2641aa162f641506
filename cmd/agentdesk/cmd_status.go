package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agentdesk/cmd/agentdesk/ui"
	"agentdesk/internal/agentapi"
	"agentdesk/internal/console"
)

var errUnreachable = errors.New("agent service unreachable")

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test the connection to the agent service",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.dispatcher.Ping(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Server says: "+out.Message)
			if out.Err != nil {
				return errUnreachable
			}
			return nil
		},
	}
}

// endpointStatus is one row of the status table.
type endpointStatus struct {
	endpoint string
	ok       bool
	detail   string
	elapsed  time.Duration
}

func newStatusCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the skills and message endpoints concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := a.probeEndpoints(cmd.Context())

			table := ui.NewTable("Agent service "+a.client.BaseURL(), "ENDPOINT", "STATUS", "DETAIL", "MS")
			failed := false
			for _, r := range rows {
				status := "ok"
				if !r.ok {
					status = "error"
					failed = true
				}
				table.AddRow(r.endpoint, status, r.detail, strconv.FormatInt(r.elapsed.Milliseconds(), 10))
			}

			if plain {
				fmt.Fprint(cmd.OutOrStdout(), table.Plain())
			} else {
				fmt.Fprint(cmd.OutOrStdout(), table.View(ui.DefaultStyles()))
			}
			if failed {
				return errUnreachable
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print an unstyled table")
	return cmd
}

// probeEndpoints hits the skills and message endpoints in parallel. Both
// results are always reported, so the group never cancels on error.
func (a *app) probeEndpoints(ctx context.Context) []endpointStatus {
	rows := make([]endpointStatus, 2)
	var g errgroup.Group

	g.Go(func() error {
		start := time.Now()
		skills, err := a.client.Skills(ctx)
		rows[0] = endpointStatus{endpoint: agentapi.PathSkills, elapsed: time.Since(start)}
		if err != nil {
			rows[0].detail = errDetail(err)
			a.logger.Warn("status: skills failed", zap.Error(err))
			return nil
		}
		rows[0].ok = true
		rows[0].detail = ui.MenuHeading(console.NewCatalog(skills).Len())
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		msg, err := a.client.Message(ctx)
		rows[1] = endpointStatus{endpoint: agentapi.PathMessage, elapsed: time.Since(start)}
		if err != nil {
			rows[1].detail = errDetail(err)
			a.logger.Warn("status: message failed", zap.Error(err))
			return nil
		}
		rows[1].ok = true
		rows[1].detail = msg.Text
		if rows[1].detail == "" {
			rows[1].detail = console.MsgDefaultGreeting
		}
		return nil
	})

	_ = g.Wait()
	return rows
}

// errDetail keeps HTTP statuses visible and hides transport noise.
func errDetail(err error) string {
	var apiErr *agentapi.APIError
	if errors.As(err, &apiErr) {
		return "HTTP " + strconv.Itoa(apiErr.StatusCode)
	}
	return console.MsgConnectFailed
}
