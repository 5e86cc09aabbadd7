package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chaptermux/internal/chapters"
	"chaptermux/internal/services"
	"chaptermux/internal/workflow"
)

type insertOptions struct {
	output  string
	backend string
	dryRun  bool
	force   bool
}

func newInsertCommand(ctx *commandContext) *cobra.Command {
	opts := &insertOptions{}

	cmd := &cobra.Command{
		Use:   "insert <video> <chapters>",
		Short: "Embed a chapter list into a video without re-encoding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCfg := *cfg
			if backend := strings.ToLower(strings.TrimSpace(opts.backend)); backend != "" {
				runCfg.Remux.Backend = backend
			}

			tools, err := newToolchain(&runCfg, logger)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "insert", "toolchain", "cannot set up remux tools", err)
			}
			runner := workflow.NewRunner(tools, workflow.Options{
				IntroTitle: runCfg.Chapters.IntroTitle,
				Language:   runCfg.Chapters.Language,
				Logger:     logger,
			})

			result, err := runner.Run(cmd.Context(), workflow.Request{
				Video:    args[0],
				Chapters: args[1],
				Output:   opts.output,
				Backend:  runCfg.Remux.Backend,
				DryRun:   opts.dryRun,
				Force:    opts.force || runCfg.Remux.Overwrite,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.DryRun {
				fmt.Fprint(out, result.Blob.String())
				fmt.Fprintf(cmd.ErrOrStderr(), "Dry run: %d chapters (%s, media %s) would be written to %s\n",
					len(result.Chapters), result.Blob.Syntax, chapters.FormatTimestamp(result.Duration), result.Output)
				return nil
			}
			fmt.Fprintf(out, "Inserted %d chapters into: %s\n", len(result.Chapters), result.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (default <video>.chapters<ext> beside the input)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Remux backend override (native, ffmpeg)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the chapter metadata instead of writing the output")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Replace the output file if it already exists")
	return cmd
}
