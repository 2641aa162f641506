package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agentdesk/cmd/agentdesk/ui"
	"agentdesk/internal/console"
	"agentdesk/internal/logging"
)

func newSkillsCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List the skills the agent offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			skills, err := a.client.Skills(cmd.Context())
			if err != nil {
				a.logger.Sugar().Warnf("skills fetch failed: %v", err)
				fmt.Fprintln(cmd.ErrOrStderr(), console.MsgConnectFailed)
				return err
			}
			catalog := console.NewCatalog(skills)
			logging.Catalog("listed %d skills", catalog.Len())

			table := ui.NewTable(ui.MenuHeading(catalog.Len()), "NAME", "DISPLAY", "DESCRIPTION")
			for _, s := range catalog.Skills() {
				table.AddRow(s.Name, ui.DisplayName(s.Name), ui.Blurb(s))
			}

			w := cmd.OutOrStdout()
			if plain {
				fmt.Fprint(w, table.Plain())
				return nil
			}
			if catalog.Len() == 0 {
				fmt.Fprintln(w, ui.MenuHeading(0))
				return nil
			}
			fmt.Fprint(w, table.View(ui.DefaultStyles()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print an unstyled table")
	return cmd
}
