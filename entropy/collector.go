package entropy

import (
	"errors"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	gitignore "github.com/monochromegane/go-gitignore"
)

// Collector expands a root path into the files to scan.
type Collector struct {
	fs        billy.Filesystem
	gitIgnore bool
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithGitIgnore skips entries matched by a .gitignore at the root directory.
func WithGitIgnore() CollectorOption {
	return func(c *Collector) {
		c.gitIgnore = true
	}
}

// NewCollector returns a Collector listing paths on fsys.
func NewCollector(fsys billy.Filesystem, opts ...CollectorOption) *Collector {
	c := &Collector{fs: fsys}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns root itself when it is not a directory, and otherwise every
// non-directory entry below root. Entries are listed without following
// symlinks, so links, devices and sockets are returned as leaves.
//
// The order follows directory listing order and is not sorted. Directories
// are walked with an explicit stack; there is no cycle detection.
func (c *Collector) Collect(root string) ([]string, error) {
	info, err := c.fs.Stat(root)
	if err != nil {
		return nil, ioError("stat", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	matcher, err := c.ignoreMatcher(root)
	if err != nil {
		return nil, err
	}

	var targets []string
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := c.fs.ReadDir(dir)
		if err != nil {
			return nil, ioError("read dir", dir, err)
		}
		for _, entry := range entries {
			path := c.fs.Join(dir, entry.Name())
			if matcher != nil && matcher.Match(path, entry.IsDir()) {
				continue
			}
			if entry.IsDir() {
				stack = append(stack, path)
				continue
			}
			targets = append(targets, path)
		}
	}
	return targets, nil
}

// ignoreMatcher loads root/.gitignore. A missing file yields a nil matcher.
func (c *Collector) ignoreMatcher(root string) (gitignore.IgnoreMatcher, error) {
	if !c.gitIgnore {
		return nil, nil
	}
	path := c.fs.Join(root, ".gitignore")
	f, err := c.fs.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ioError("open", path, err)
	}
	defer f.Close()
	return gitignore.NewGitIgnoreFromReader(root, f), nil
}
