package manpage

import (
	"path/filepath"
	"strings"
)

// Invocation is one generator call producing one page.
type Invocation struct {
	Name   string
	Output string
	Args   []string
}

// String returns the invocation as it would be typed in a shell.
func (i Invocation) String() string {
	return strings.Join(i.Args, " ")
}

type Builder struct {
	Generator  string
	Title      string
	Version    string
	ManDir     string
	Entrypoint string
}

// Command builds the invocation for the page of a single subcommand.
func (b *Builder) Command(cmd string) Invocation {
	return b.build(
		cmd,
		"repo "+cmd+" - manual page for repo "+cmd,
		"repo "+cmd,
		filepath.Join(b.ManDir, "repo-"+cmd+".1"),
		"help "+cmd,
	)
}

// Overview builds the invocation for repo.1.
func (b *Builder) Overview() Invocation {
	return b.build(
		"repo",
		"repository management tool built on top of git",
		"repo",
		filepath.Join(b.ManDir, "repo.1"),
		"help --all",
	)
}

// All returns the invocations of cmds followed by the overview.
func (b *Builder) All(cmds []string) []Invocation {
	invs := make([]Invocation, 0, len(cmds)+1)
	for _, c := range cmds {
		invs = append(invs, b.Command(c))
	}
	return append(invs, b.Overview())
}

func (b *Builder) build(name, desc, seeAlso, output, help string) Invocation {
	return Invocation{
		Name:   name,
		Output: output,
		Args: []string{
			b.Generator,
			"-N",
			"-n", desc,
			"-S", seeAlso,
			"-m", b.Title,
			"--version-string=" + b.Version,
			"-o", output,
			b.Entrypoint,
			"-h", help,
		},
	}
}
