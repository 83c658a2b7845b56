package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ChimeYang/git-repo/internal/config"
	"github.com/ChimeYang/git-repo/internal/host"
	"github.com/ChimeYang/git-repo/internal/manpage"
	"github.com/ChimeYang/git-repo/internal/runner"
	"github.com/ChimeYang/git-repo/internal/sandbox"
)

// launcher is the file name of the repo launcher in the checkout root.
const launcher = "repo"

type env struct {
	root       string
	lookPath   func(file string) (string, error)
	execCmdCtx runner.ExecCmdCtx
	output     host.OutputCmdCtx
}

func run(ctx context.Context, cfg *config.Config, e *env) error {
	if _, err := e.lookPath(cfg.Generator); err != nil {
		return fmt.Errorf("%s not found, please install %s to continue: %w", cfg.Generator, cfg.Generator, err)
	}

	tool := host.New(e.root, e.output)
	cmds, err := tool.Commands()
	if err != nil {
		return err
	}

	manDir := cfg.ManDir
	if !filepath.IsAbs(manDir) {
		manDir = filepath.Join(e.root, manDir)
	}

	redirects, err := host.WriteRedirects(manDir, cfg.Aliases)
	if err != nil {
		return err
	}
	for _, path := range redirects {
		slog.Info("redirect", "path", path)
	}

	builder := &manpage.Builder{
		Generator:  cfg.Generator,
		Title:      cfg.ManualTitle,
		Version:    tool.Version(ctx),
		ManDir:     manDir,
		Entrypoint: cfg.Entrypoint,
	}
	invocations := builder.All(host.FilterAliases(cmds, cfg.Aliases))

	if err := generate(ctx, e, invocations); err != nil {
		// Not wrapped: a cancelled run still has to fail in main.
		if ctx.Err() != nil {
			return fmt.Errorf("interrupted, man pages are incomplete: %v", context.Cause(ctx))
		}
		return err
	}

	rewritten, err := manpage.RewriteDir(manDir)
	if err != nil {
		return err
	}
	for _, path := range rewritten {
		slog.Info("rewritten", "path", path)
	}
	slog.Info("done", "pages", len(invocations), "redirects", len(redirects))
	return nil
}

// generate runs all invocations from a fresh sandbox that is removed afterwards.
func generate(ctx context.Context, e *env, invocations []manpage.Invocation) (err error) {
	sb, err := sandbox.New(e.root, launcher)
	if err != nil {
		return fmt.Errorf("create sandbox: %w", err)
	}
	defer func() {
		err = errors.Join(err, sb.Close())
	}()

	return runner.Run(ctx, e.execCmdCtx, sb.Dir(), invocations)
}
