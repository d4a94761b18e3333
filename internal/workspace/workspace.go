// Package workspace resolves the workspace root and the path string a link embeds.
package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/link"
)

// Root returns the top of the git worktree containing dir.
// ok is false when dir is not inside a repository.
func Root(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to be relative to
		return "", false
	}
	return wt.Filesystem.Root(), true
}

// RootOrDir returns Root(dir), or the absolute dir itself outside a repository
func RootOrDir(dir string) string {
	if root, ok := Root(dir); ok {
		return root
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// LinkPath returns the path to embed in a link for format. Workspace-relative
// paths use forward slashes; files outside root keep their absolute path.
func LinkPath(path, root string, format link.PathFormat) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	if format == link.PathAbsolute || root == "" {
		return filepath.ToSlash(abs), nil
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs), nil
	}
	return filepath.ToSlash(rel), nil
}

// Resolve turns a path parsed from a link into an absolute file path.
// Relative paths are taken from root.
func Resolve(linkPath, root string) string {
	p := filepath.FromSlash(linkPath)
	if strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
