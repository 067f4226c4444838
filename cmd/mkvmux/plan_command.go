package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mkvmux/internal/command"
	"mkvmux/internal/job"
	"mkvmux/internal/mkv"
	"mkvmux/internal/muxer"
)

// loadJob reads a job file and identifies its inputs.
func loadJob(ctx context.Context, cctx *commandContext, path, outputFlag string) (*mkv.File, string, error) {
	spec, err := job.Load(path)
	if err != nil {
		return nil, "", err
	}
	client, err := cctx.client(false)
	if err != nil {
		return nil, "", err
	}
	f, err := spec.Build(ctx, client, cctx.jobDefaults())
	if err != nil {
		return nil, "", err
	}
	return f, spec.OutputPath(outputFlag), nil
}

func valueAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var (
		output string
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "plan <job.toml>",
		Short: "Print the mkvmerge command a job would run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, out, err := loadJob(cmd.Context(), ctx, args[0], output)
			if err != nil {
				return err
			}
			client, err := ctx.client(true)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			m := muxer.New(client, nil, muxer.Options{TempDir: os.TempDir(), BucketPercent: cfg.Progress.LogBucketPercent})
			mkvArgs, _, err := m.Plan(f, out)
			if err != nil {
				return err
			}
			// The printed command refers to the chapter file, so it outlives
			// the process.
			if f.ChapterTree() != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "chapters written to %s\n", valueAfter(mkvArgs, "--chapters"))
			}

			argv := command.Argv(client.Mkvmerge(), mkvArgs)
			w := cmd.OutOrStdout()
			if list {
				for _, a := range argv {
					fmt.Fprintln(w, a)
				}
				return nil
			}
			fmt.Fprintln(w, command.Quote(argv))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Override the job's output path")
	cmd.Flags().BoolVar(&list, "list", false, "Print one argument per line")
	return cmd
}
