package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mkvmux/internal/muxer"
)

func newMuxCommand(ctx *commandContext) *cobra.Command {
	var (
		output string
		noBar  bool
	)

	cmd := &cobra.Command{
		Use:   "mux <job.toml>",
		Short: "Run mkvmerge for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			f, out, err := loadJob(cmd.Context(), ctx, args[0], output)
			if err != nil {
				return err
			}
			client, err := ctx.client(true)
			if err != nil {
				return err
			}

			m := muxer.New(client, logger, muxer.Options{
				LockOutput:    cfg.Mux.LockOutput,
				BucketPercent: cfg.Progress.LogBucketPercent,
			})
			req := muxer.Request{File: f, Output: out}

			var bar *progressbar.ProgressBar
			if cfg.Progress.ShowBar && !noBar && isTerminal(cmd.ErrOrStderr()) {
				bar = progressbar.NewOptions(100,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription(displayName(out)),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionClearOnFinish(),
				)
				req.Progress = func(percent int) { _ = bar.Set(percent) }
			}

			result, err := m.Mux(cmd.Context(), req)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Wrote %s in %s\n", result.Output, result.Elapsed.Round(time.Millisecond))
			if size, ok := outputSize(result.Output); ok {
				fmt.Fprintf(w, "Size: %s\n", humanize.IBytes(size))
			}
			for _, warning := range result.Warnings {
				fmt.Fprintf(w, "warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Override the job's output path")
	cmd.Flags().BoolVar(&noBar, "no-progress", false, "Disable the progress bar")
	return cmd
}
