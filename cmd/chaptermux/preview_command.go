package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chaptermux/internal/chapters"
	"chaptermux/internal/container"
	"chaptermux/internal/metadata"
	"chaptermux/internal/services"
)

const (
	previewTable      = "table"
	previewOGM        = "ogm"
	previewXML        = "xml"
	previewFFMetadata = "ffmetadata"
)

type previewOptions struct {
	duration  string
	format    string
	container string
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview <chapters>",
		Short: "Parse a chapter file and show what would be embedded",
		Long: `Parse a chapter file without touching any media. With --duration the list is
also validated against that media length. --format selects a table (default)
or one of the raw metadata syntaxes; --container picks the syntax for a
container family when --format is not given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			format, err := previewFormat(opts.format, opts.container)
			if err != nil {
				return err
			}

			var duration time.Duration
			hasDuration := cmd.Flags().Changed("duration")
			if hasDuration {
				duration, err = chapters.ParseTimestamp(strings.TrimSpace(opts.duration))
				if err != nil {
					return services.Wrap(services.ErrValidation, "preview", "parse duration", "invalid --duration", err)
				}
			}

			parser := chapters.Parser{IntroTitle: cfg.Chapters.IntroTitle}
			list, err := parser.ReadFile(args[0])
			if err != nil {
				return services.Wrap(services.ErrValidation, "preview", "parse chapters", "invalid chapter file", err)
			}
			if hasDuration {
				if err := chapters.Validate(list, duration); err != nil {
					return services.Wrap(services.ErrValidation, "preview", "validate chapters", "chapters do not fit the media", err)
				}
			}

			out := cmd.OutOrStdout()
			formatter := metadata.Formatter{Language: cfg.Chapters.Language}
			switch format {
			case previewTable:
				fmt.Fprintln(out, renderChapterTable(list, duration, hasDuration))
				fmt.Fprintf(out, "%d chapters\n", len(list))
				return nil
			case previewFFMetadata:
				if !hasDuration {
					return services.Wrap(services.ErrValidation, "preview", "render", "ffmetadata output needs --duration for the last chapter's end", nil)
				}
				fmt.Fprint(out, metadata.FormatFFMetadata(list, duration).String())
				return nil
			default:
				kind := container.QuickTime
				if format == previewXML {
					kind = container.Matroska
				}
				blob, err := formatter.Format(list, kind)
				if err != nil {
					return err
				}
				fmt.Fprint(out, blob.String())
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&opts.duration, "duration", "", "Media duration (MM:SS or HH:MM:SS) to validate against")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: table, ogm, xml, ffmetadata")
	cmd.Flags().StringVar(&opts.container, "container", "", "Render the metadata for a container (mp4, mkv, ...)")
	return cmd
}

// previewFormat resolves the flag pair into one output format. A container
// without an explicit format selects that family's syntax.
func previewFormat(format, containerName string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	containerName = strings.TrimSpace(containerName)

	if containerName != "" {
		kind, err := container.FromName(containerName)
		if err != nil {
			return "", services.Wrap(services.ErrValidation, "preview", "container", "invalid --container", err)
		}
		if format == "" {
			if kind == container.Matroska {
				return previewXML, nil
			}
			return previewOGM, nil
		}
	}

	switch format {
	case "":
		return previewTable, nil
	case previewTable, previewOGM, previewXML, previewFFMetadata:
		return format, nil
	default:
		return "", services.Wrap(services.ErrValidation, "preview", "format", fmt.Sprintf("unknown --format %q (expected table, ogm, xml, ffmetadata)", format), nil)
	}
}

// renderChapterTable lists each chapter with its length. The last chapter's
// length is only known when the media duration is.
func renderChapterTable(list chapters.List, duration time.Duration, hasDuration bool) string {
	rows := make([][]string, 0, len(list))
	for i, ch := range list {
		length := "-"
		switch {
		case i+1 < len(list):
			length = chapters.FormatTimestamp(list[i+1].Start - ch.Start)
		case hasDuration:
			length = chapters.FormatTimestamp(duration - ch.Start)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			chapters.FormatTimestamp(ch.Start),
			ch.Title,
			length,
		})
	}
	return renderTable([]column{
		{Header: "#", Align: alignRight},
		{Header: "Start", Align: alignRight},
		{Header: "Title", Align: alignLeft},
		{Header: "Length", Align: alignRight},
	}, rows)
}
