package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mkvmux/internal/mkv"
	"mkvmux/internal/services"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract streams and metadata with mkvextract",
	}

	extractCmd.AddCommand(newExtractTracksCommand(ctx, false))
	extractCmd.AddCommand(newExtractTracksCommand(ctx, true))
	extractCmd.AddCommand(newExtractAttachmentsCommand(ctx))
	extractCmd.AddCommand(newExtractChaptersCommand(ctx))
	return extractCmd
}

// newExtractTracksCommand serves both "tracks" and "timestamps"; they select
// tracks the same way and differ only in the mkvextract mode.
func newExtractTracksCommand(ctx *commandContext, timestamps bool) *cobra.Command {
	var (
		ids []int
		dir string
	)

	use, short := "tracks <file>", "Extract track streams"
	if timestamps {
		use, short = "timestamps <file>", "Extract track timestamps (v2 format)"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client(true)
			if err != nil {
				return err
			}
			f, err := mkv.Open(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			tracks, err := selectTracks(f, ids)
			if err != nil {
				return err
			}
			for _, t := range tracks {
				var out string
				if timestamps {
					out, err = client.ExtractTimestamps(cmd.Context(), t, dir)
				} else {
					out, err = client.ExtractTrack(cmd.Context(), t, dir)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&ids, "id", nil, "Track ids to extract (default: all)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default: next to the source)")
	return cmd
}

func selectTracks(f *mkv.File, ids []int) ([]*mkv.Track, error) {
	if len(ids) == 0 {
		return f.Tracks(), nil
	}
	byID := make(map[int]*mkv.Track, f.TrackCount())
	for _, t := range f.Tracks() {
		byID[t.TrackID()] = t
	}
	out := make([]*mkv.Track, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, services.Wrap(services.ErrOutOfRange, "extract", "tracks", fmt.Sprintf("no track %d", id), nil)
		}
		out = append(out, t)
	}
	return out, nil
}

func newExtractAttachmentsCommand(ctx *commandContext) *cobra.Command {
	var (
		ids []int
		dir string
	)

	cmd := &cobra.Command{
		Use:   "attachments <file>",
		Short: "Extract embedded attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client(true)
			if err != nil {
				return err
			}
			f, err := mkv.Open(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			wanted := make(map[int]bool, len(ids))
			for _, id := range ids {
				wanted[id] = true
			}
			extracted := 0
			for _, a := range f.Attachments() {
				_, id, ok := a.Source()
				if !ok || (len(wanted) > 0 && !wanted[id]) {
					continue
				}
				out, err := client.ExtractAttachment(cmd.Context(), a, dir)
				if err != nil {
					return err
				}
				extracted++
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			if len(wanted) > 0 && extracted != len(wanted) {
				return services.Wrap(services.ErrOutOfRange, "extract", "attachments",
					fmt.Sprintf("found %d of %d requested attachments", extracted, len(wanted)), nil)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&ids, "id", nil, "Attachment ids to extract (default: all)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default: next to the source)")
	return cmd
}

func newExtractChaptersCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "chapters <file>",
		Short: "Print or save the chapter XML of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client(false)
			if err != nil {
				return err
			}
			tree, err := client.ExtractChapters(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tree == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "no chapters")
				return nil
			}
			if output != "" {
				if err := tree.WriteFile(output); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
				return nil
			}
			return tree.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the XML to a file instead of stdout")
	return cmd
}
