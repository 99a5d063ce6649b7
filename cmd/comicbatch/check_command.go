package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"comicbatch/internal/config"
	"comicbatch/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [DIRECTORY]",
		Short: "Report whether a run can start",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			checks := newCheckList(cmd.OutOrStdout())
			checks.ok("Config", configLabel(ctx))
			checks.ok("Backend", cfg.Processing.Backend)

			if len(args) == 1 {
				dir, err := config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve directory: %w", err)
				}
				checkResult(checks, preflight.CheckDirectoryAccess("Input directory", dir))
				checkResult(checks, preflight.CheckFreeSpace("Free space", dir, 0))
			}
			if cfg.Output.Dir != "" {
				checkResult(checks, preflight.CheckDirectoryAccess("Output directory", cfg.Output.Dir))
			}

			for _, status := range preflight.CheckSystemDeps(cfg) {
				switch {
				case status.Available:
					checks.ok(status.Name, status.Path)
				case status.Optional:
					checks.warn(status.Name, status.Detail+" (optional)")
				default:
					checks.fail(status.Name, status.Detail)
				}
			}

			if checks.failed > 0 {
				return fmt.Errorf("preflight checks failed: %d problems", checks.failed)
			}
			return nil
		},
	}
}

func checkResult(checks *checkList, result preflight.Result) {
	if result.Passed {
		checks.ok(result.Name, result.Detail)
		return
	}
	checks.fail(result.Name, result.Detail)
}

func configLabel(ctx *commandContext) string {
	if !ctx.configSeen {
		return "defaults"
	}
	return ctx.configPath
}
