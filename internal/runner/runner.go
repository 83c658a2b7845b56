// Package runner runs generator invocations in parallel.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/ChimeYang/git-repo/internal/manpage"

	"golang.org/x/sync/errgroup"
)

// GenerateEnv tells repo that its help output is rendered for man pages
// so it skips dynamic values like the number of CPUs.
const GenerateEnv = "_REPO_GENERATE_MANPAGES_= indeed! "

type Cmd interface {
	Run() error
}

type ExecCmdCtx = func(ctx context.Context, dir string, name string, args ...string) Cmd

// ExecCmd runs name in dir with the stdout and stderr of this process.
func ExecCmd(ctx context.Context, dir string, name string, args ...string) Cmd {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Env = append(os.Environ(), GenerateEnv)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c
}

// Run executes every invocation in dir with at most runtime.NumCPU()
// processes at once and waits for all of them. A failing command does not
// stop the others, the first error is returned.
func Run(ctx context.Context, execCmdCtx ExecCmdCtx, dir string, invocations []manpage.Invocation) error {
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, inv := range invocations {
		g.Go(func() error {
			slog.Debug("execute", "page", inv.Name, "output", inv.Output, "cmd", inv.String())
			err := execCmdCtx(ctx, dir, inv.Args[0], inv.Args[1:]...).Run()
			if err != nil {
				return fmt.Errorf("%s: %w", inv, err)
			}
			return nil
		})
	}
	return g.Wait()
}
