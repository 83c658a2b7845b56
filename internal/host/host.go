// Package host reads what the update needs from a repo checkout: its
// command registry and its version.
package host

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	subcmdsDir = "subcmds"
	initModule = "__init__.py"
)

// OutputCmdCtx runs a command in dir and returns its stdout.
type OutputCmdCtx = func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)

// ExecOutput is the OutputCmdCtx backed by os/exec.
func ExecOutput(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Env = env
	return c.Output()
}

type Tool struct {
	Root   string
	output OutputCmdCtx
}

func New(root string, output OutputCmdCtx) *Tool {
	return &Tool{Root: root, output: output}
}

// Commands returns the sorted subcommand names of the registry.
// Every module in subcmds/ is a command, underscores become dashes.
func (t *Tool) Commands() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(t.Root, subcmdsDir))
	if err != nil {
		return nil, fmt.Errorf("read command registry: %w", err)
	}

	var cmds []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == initModule || filepath.Ext(name) != ".py" {
			continue
		}
		name = norm.NFC.String(strings.TrimSuffix(name, ".py"))
		cmds = append(cmds, strings.ReplaceAll(name, "_", "-"))
	}
	slices.Sort(cmds)
	return cmds, nil
}

// Version returns `git describe HEAD` of the checkout without a leading v.
func (t *Tool) Version(ctx context.Context) string {
	env := slices.DeleteFunc(os.Environ(), func(kv string) bool {
		return strings.HasPrefix(kv, "GIT_DIR=")
	})
	out, err := t.output(ctx, t.Root, env, "git", "describe", "HEAD")
	if err != nil {
		slog.Debug("git describe failed", "err", err)
		return "unknown"
	}
	ver := string(bytes.TrimSpace(out))
	if ver == "" {
		return "unknown"
	}
	return strings.TrimPrefix(ver, "v")
}

// FilterAliases returns cmds without the alias names. cmds is not modified.
func FilterAliases(cmds []string, aliases map[string]string) []string {
	filtered := make([]string, 0, len(cmds))
	for _, c := range cmds {
		if _, ok := aliases[c]; ok {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// RedirectPath is the page written for an alias.
func RedirectPath(manDir, alias string) string {
	return filepath.Join(manDir, "repo-"+alias+".1")
}

// Redirect is the content of the page of an alias.
func Redirect(canonical string) string {
	return ".so man1/repo-" + canonical + ".1"
}

// WriteRedirects writes one .so page per alias and returns the paths.
func WriteRedirects(manDir string, aliases map[string]string) ([]string, error) {
	names := slices.Sorted(maps.Keys(aliases))
	paths := make([]string, 0, len(names))
	for _, alias := range names {
		path := RedirectPath(manDir, alias)
		err := os.WriteFile(path, []byte(Redirect(aliases[alias])), 0o644)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
