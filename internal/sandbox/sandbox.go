// Package sandbox creates a throw-away directory from which the repo launcher
// finds its checkout the same way it does for users with an initialized client.
package sandbox

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// checkoutDir is where the launcher looks for the repo source of a client.
const checkoutDir = ".repo"

type Sandbox struct {
	dir string
}

// New creates <tmp>/.repo/<name> linking to root and a copy of the
// <root>/<name> launcher at <tmp>/<name>.
func New(root, name string) (_ *Sandbox, err error) {
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp("", "update-manpages-")
	if err != nil {
		return nil, err
	}
	s := &Sandbox{dir: dir}
	defer func() {
		if err != nil {
			err = errors.Join(err, s.Close())
		}
	}()

	repoDir := filepath.Join(dir, checkoutDir)
	if err = os.Mkdir(repoDir, 0o755); err != nil {
		return nil, err
	}
	if err = os.Symlink(root, filepath.Join(repoDir, name)); err != nil {
		return nil, err
	}
	if err = copyExecutable(filepath.Join(root, name), filepath.Join(dir, name)); err != nil {
		return nil, fmt.Errorf("copy launcher: %w", err)
	}
	slog.Debug("sandbox created", "dir", dir)
	return s, nil
}

// Dir is the working directory for generator invocations.
func (s *Sandbox) Dir() string {
	return s.dir
}

// Close removes the sandbox and everything in it.
func (s *Sandbox) Close() error {
	slog.Debug("sandbox removed", "dir", s.dir)
	return os.RemoveAll(s.dir)
}

func copyExecutable(src, dst string) error {
	fin, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = fin.Close()
	}()

	fout, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o755)
	if err != nil {
		return err
	}

	_, err = io.Copy(fout, fin)
	return errors.Join(err, fout.Close())
}
