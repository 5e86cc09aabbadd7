package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chaptermux/internal/deps"
	"chaptermux/internal/language"
	"chaptermux/internal/preflight"
	"chaptermux/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var dir string
	var backend string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report external tool availability and output directory access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg := *cfg
			if value := strings.ToLower(strings.TrimSpace(backend)); value != "" {
				runCfg.Remux.Backend = value
			}

			p := newStatusPrinter(cmd.OutOrStdout())
			p.section("Configuration")
			if ctx.configSeen {
				p.line("Config", statusInfo, ctx.configPath)
			} else {
				p.line("Config", statusInfo, "defaults (no config file found)")
			}
			p.line("Backend", statusInfo, runCfg.Remux.Backend)
			p.line("Overwrite", statusInfo, yesNo(runCfg.Remux.Overwrite))
			p.line("Chapter language", statusInfo,
				fmt.Sprintf("%s (%s)", language.DisplayName(runCfg.Chapters.Language), runCfg.Chapters.Language))

			p.section("Tools")
			statuses := deps.CheckBinaries(deps.Requirements(&runCfg))
			for _, status := range statuses {
				switch {
				case status.Available:
					p.line(status.Name, statusOK, status.Path)
				case status.Optional:
					p.line(status.Name, statusWarn, status.Detail+" (optional)")
				default:
					p.line(status.Name, statusError, status.Detail)
				}
			}

			p.section("Output")
			result := preflight.CheckDirectoryAccess("Directory", dir)
			if result.Passed {
				p.line(result.Name, statusOK, result.Detail)
			} else {
				p.line(result.Name, statusError, result.Detail)
			}

			missing := deps.Missing(statuses)
			switch {
			case len(missing) > 0:
				names := make([]string, len(missing))
				for i, m := range missing {
					names[i] = m.Name
				}
				return services.Wrap(services.ErrConfiguration, "check", "tools",
					fmt.Sprintf("required tools unavailable: %s", strings.Join(names, ", ")), nil)
			case !result.Passed:
				return services.Wrap(services.ErrValidation, "check", "output", result.Detail, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory outputs will be written to")
	cmd.Flags().StringVar(&backend, "backend", "", "Check the tools for this backend instead of the configured one")
	return cmd
}
