package server

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/frankli0324/go-httpd/internal/errors"
)

// Root confines file access to a single directory tree.
type Root struct {
	dir string
}

// NewRoot resolves dir to an absolute path, an empty dir means the
// working directory. dir doesn't need to exist.
func NewRoot(dir string) (*Root, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Root{abs}, nil
}

func (r *Root) Dir() string { return r.dir }

// resolve maps a slash separated name below the root to a filesystem path
// with symlinks evaluated, so a link can't lead outside the root either.
func (r *Root) resolve(name string) (string, error) {
	if name == "" {
		return "", errors.ErrRouteMismatch.WithDetail("empty file name")
	}
	p := filepath.Join(r.dir, filepath.FromSlash(name))
	if err := within(r.dir, p, name); err != nil {
		return "", err
	}
	root, err := canonical(r.dir)
	if err != nil {
		return "", errors.ErrIO.Wrap(err)
	}
	resolved, err := canonical(p)
	if err != nil {
		return "", err
	}
	if err := within(root, resolved, name); err != nil {
		return "", err
	}
	return resolved, nil
}

func within(root, p, name string) error {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.ErrForbiddenPath.WithDetail(name)
	}
	if rel == "." {
		return errors.ErrRouteMismatch.WithDetail("names the root directory")
	}
	return nil
}

// canonical evaluates the symlinks in p. the part of p that doesn't exist
// yet is appended to the nearest existing ancestor as is, a dangling
// symlink is an error since writing through it would create its target.
func canonical(p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if err == nil {
		return resolved, nil
	}
	if fi, lerr := os.Lstat(p); lerr == nil && fi.Mode()&fs.ModeSymlink != 0 {
		return "", errors.ErrForbiddenPath.WithDetail("dangling symlink " + p)
	}
	parent := filepath.Dir(p)
	if parent == p {
		return p, nil
	}
	dir, err := canonical(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(p)), nil
}

func (r *Root) ReadFile(name string) ([]byte, error) {
	p, err := r.resolve(name)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return nil, errors.ErrNotFound.Wrap(err)
	case err != nil:
		return nil, errors.ErrIO.Wrap(err)
	case fi.IsDir():
		return nil, errors.ErrNotFound.WithDetail(name + " is a directory")
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	return b, nil
}

// WriteFile creates or truncates name. parent directories are not created.
func (r *Root) WriteFile(name string, data []byte) error {
	p, err := r.resolve(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	return nil
}
