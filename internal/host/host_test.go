package host

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestTool_Commands(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"__init__.py", "sync.py", "init.py", "cherry_pick.py", "branches.py", "branch.py", "cafe\u0301.py", "README.md"} {
		touch(t, filepath.Join(root, subcmdsDir, f))
	}
	if err := os.Mkdir(filepath.Join(root, subcmdsDir, "pkg.py"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := New(root, nil).Commands()
	if err != nil {
		t.Fatalf("Commands(): %v", err)
	}
	want := []string{"branch", "branches", "caf\u00e9", "cherry-pick", "init", "sync"}
	if !slices.Equal(got, want) {
		t.Fatalf("Commands() = %v, want %v", got, want)
	}
}

func TestTool_CommandsMissingRegistry(t *testing.T) {
	_, err := New(t.TempDir(), nil).Commands()
	if err == nil {
		t.Fatal("Commands() error = nil, want error")
	}
}

func TestTool_Version(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
		want string
	}{
		{name: "tag", out: "v2.32\n", want: "2.32"},
		{name: "describe with commits", out: "v2.32-12-gdeadbee\n", want: "2.32-12-gdeadbee"},
		{name: "no v prefix", out: "2.32", want: "2.32"},
		{name: "git fails", err: errors.New("exit status 128"), want: "unknown"},
		{name: "empty output", out: "\n", want: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDir, gotCmd string
			var gotEnv []string
			output := func(_ context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
				gotDir = dir
				gotEnv = env
				gotCmd = strings.Join(append([]string{name}, args...), " ")
				return []byte(tt.out), tt.err
			}
			t.Setenv("GIT_DIR", "/elsewhere/.git")

			got := New("/src/repo", output).Version(t.Context())
			if got != tt.want {
				t.Fatalf("Version() = %q, want %q", got, tt.want)
			}
			if gotDir != "/src/repo" {
				t.Errorf("dir = %q, want %q", gotDir, "/src/repo")
			}
			if gotCmd != "git describe HEAD" {
				t.Errorf("cmd = %q, want %q", gotCmd, "git describe HEAD")
			}
			if slices.ContainsFunc(gotEnv, func(kv string) bool { return strings.HasPrefix(kv, "GIT_DIR=") }) {
				t.Errorf("env contains GIT_DIR")
			}
		})
	}
}

func TestFilterAliases(t *testing.T) {
	cmds := []string{"branch", "branches", "init", "sync"}
	orig := slices.Clone(cmds)

	got := FilterAliases(cmds, map[string]string{"branch": "branches"})

	want := []string{"branches", "init", "sync"}
	if !slices.Equal(got, want) {
		t.Fatalf("FilterAliases() = %v, want %v", got, want)
	}
	if !slices.Equal(cmds, orig) {
		t.Fatalf("input modified: %v", cmds)
	}
}

func TestWriteRedirects(t *testing.T) {
	manDir := t.TempDir()

	paths, err := WriteRedirects(manDir, map[string]string{"branch": "branches"})
	if err != nil {
		t.Fatalf("WriteRedirects(): %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(manDir, "repo-branch.1") {
		t.Fatalf("paths = %v", paths)
	}
	got, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != ".so man1/repo-branches.1" {
		t.Fatalf("content = %q, want %q", got, ".so man1/repo-branches.1")
	}
}

func TestWriteRedirectsMissingDir(t *testing.T) {
	_, err := WriteRedirects(filepath.Join(t.TempDir(), "missing"), map[string]string{"branch": "branches"})
	if err == nil {
		t.Fatal("WriteRedirects() error = nil, want error")
	}
}
