package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mkvmux/internal/language"
	"mkvmux/internal/media/identify"
	"mkvmux/internal/mkv"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <file>...",
		Short: "Show the tracks, attachments, and tags of media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client(false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, path := range args {
				info, err := client.Identify(cmd.Context(), path)
				if err != nil {
					return err
				}
				if asJSON {
					if raw := info.RawJSON(); len(raw) > 0 {
						var v any
						if err := json.Unmarshal(raw, &v); err == nil {
							if err := writeJSON(cmd, v); err != nil {
								return err
							}
							continue
						}
					}
					if err := writeJSON(cmd, info); err != nil {
						return err
					}
					continue
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, renderInfo(path, info))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw mkvmerge identification")
	return cmd
}

func renderInfo(path string, info identify.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File:      %s\n", path)
	fmt.Fprintf(&b, "Container: %s (recognized: %s, supported: %s)\n",
		valueOr(info.Container.Type, "unknown"), yesNo(info.Container.Recognized), yesNo(info.Container.Supported))
	if title := info.Title(); title != "" {
		fmt.Fprintf(&b, "Title:     %s\n", title)
	}
	if d := info.Duration(); d > 0 {
		fmt.Fprintf(&b, "Duration:  %s\n", d.Round(time.Millisecond))
	}
	if n := info.GlobalTagEntries(); n > 0 {
		fmt.Fprintf(&b, "Global tags: %d\n", n)
	}
	if n := info.ChapterEntries(); n > 0 {
		fmt.Fprintf(&b, "Chapters:  %d\n", n)
	}

	if len(info.Tracks) > 0 {
		rows := make([][]string, 0, len(info.Tracks))
		for _, t := range info.Tracks {
			p := t.Properties
			lang := p.LanguageIETF
			if lang == "" {
				lang = p.Language
			}
			rows = append(rows, []string{
				strconv.Itoa(t.ID),
				t.Type,
				t.Codec,
				valueOr(lang, "und") + " (" + language.DisplayName(lang) + ")",
				p.TrackName,
				trackFlags(p),
				mkv.ExtensionFor(mkv.ParseKind(t.Type), t.Codec),
			})
		}
		b.WriteString(renderTable("Tracks",
			[]string{"ID", "Type", "Codec", "Language", "Name", "Flags", "Ext"},
			rows, []columnAlignment{alignRight}))
		b.WriteByte('\n')
	}

	if len(info.Attachments) > 0 {
		rows := make([][]string, 0, len(info.Attachments))
		for _, a := range info.Attachments {
			rows = append(rows, []string{
				strconv.Itoa(a.ID),
				a.FileName,
				a.ContentType,
				humanize.IBytes(uint64(max(a.Size, 0))),
				a.Description,
			})
		}
		b.WriteString(renderTable("Attachments",
			[]string{"ID", "Name", "MIME type", "Size", "Description"},
			rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignRight}))
		b.WriteByte('\n')
	}
	return b.String()
}

func trackFlags(p identify.TrackProperties) string {
	var flags []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{p.DefaultTrack, "default"},
		{p.ForcedTrack, "forced"},
		{p.FlagHearingImpaired, "hearing-impaired"},
		{p.FlagVisualImpaired, "visual-impaired"},
		{p.FlagOriginal, "original"},
		{p.FlagCommentary, "commentary"},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	return strings.Join(flags, ",")
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
