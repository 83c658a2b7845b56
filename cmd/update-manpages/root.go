package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/exec"

	"github.com/ChimeYang/git-repo/internal/config"
	"github.com/ChimeYang/git-repo/internal/host"
	"github.com/ChimeYang/git-repo/internal/log"
	"github.com/ChimeYang/git-repo/internal/runner"

	"github.com/spf13/cobra"
)

func ExecuteContext(ctx context.Context, version string) error {
	return newRootCmd(version).ExecuteContext(ctx)
}

func newRootCmd(version string) *cobra.Command {
	return &cobra.Command{
		Version:           version,
		Use:               "update-manpages",
		Short:             "Regenerate the repo man pages",
		Long:              "Regenerate the repo man pages in man/ of the current repo checkout with help2man.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			switch cfg.LogLevel {
			case slog.LevelInfo:
				slog.SetDefault(slog.New(log.NewMsgHandler(os.Stdout, cfg.LogLevel)))
			default:
				slog.SetLogLoggerLevel(cfg.LogLevel)
			}
			return run(cmd.Context(), cfg, &env{
				root:       root,
				lookPath:   exec.LookPath,
				execCmdCtx: runner.ExecCmd,
				output:     host.ExecOutput,
			})
		},
	}
}
