// Package manpage builds help2man invocations and normalizes their output.
package manpage

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
)

// GlobPattern matches pages written by the generator and redirects.
const GlobPattern = "repo*.1"

type substitution struct {
	reg  *regexp.Regexp
	repl string
}

// Order matters, later patterns see the output of earlier ones.
var substitutions = []substitution{
	{regexp.MustCompile(`(?m)(It was generated by help2man) [0-9.]+`), "${1}."},
	{regexp.MustCompile(`(?m)^\.IP\n(.*:)\n`), ".SS ${1}\n"},
	{regexp.MustCompile(`(?m)^\.PP\nDescription`), ".SH DETAILS"},
}

// Normalize rewrites help2man boilerplate and section markup.
func Normalize(data []byte) []byte {
	for _, s := range substitutions {
		data = s.reg.ReplaceAll(data, []byte(s.repl))
	}
	return data
}

// RewriteDir normalizes every page in manDir in place
// and returns the paths that changed.
func RewriteDir(manDir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(manDir, GlobPattern))
	if err != nil {
		return nil, err
	}
	var rewritten []string
	for _, path := range paths {
		changed, err := rewriteFile(path)
		if err != nil {
			return nil, err
		}
		if changed {
			rewritten = append(rewritten, path)
		}
	}
	return rewritten, nil
}

func rewriteFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	normalized := Normalize(data)
	if bytes.Equal(data, normalized) {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(path, normalized, info.Mode().Perm())
}
