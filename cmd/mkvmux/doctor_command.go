package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mkvmux/internal/deps"
	"mkvmux/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that MKVToolNix is installed and usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				if !s.Available {
					state = "missing"
					if s.Optional {
						state = "missing (optional)"
					}
				}
				rows = append(rows, []string{s.Name, s.Command, state, valueOr(s.Detail, s.Description)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable("Dependencies", []string{"Tool", "Command", "Status", "Detail"}, rows, nil))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				names := make([]string, len(missing))
				for i, s := range missing {
					names[i] = s.Name
				}
				return services.Wrap(services.ErrNotFound, "doctor", "", "missing required tools: "+strings.Join(names, ", "), nil)
			}

			client, err := ctx.client(false)
			if err != nil {
				return err
			}
			if err := client.VerifyMkvmerge(cmd.Context()); err != nil {
				return err
			}
			version, err := client.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "mkvmerge: %s\n", version)
			return nil
		},
	}
}
