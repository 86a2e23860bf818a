// Package discovery finds the directories of a project tree that define Terraform infrastructure.
//
// A directory qualifies when it directly contains a `.tf` or `.tf.json` file. The tree is walked
// depth-first in pre-order with children visited in lexicographic order, and results are produced
// lazily so a consumer can stop the walk at any point.
package discovery

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gruntwork-io/casper/internal/filter"
	"github.com/gruntwork-io/casper/pkg/log"
)

// DefaultConfigSuffixes are the file suffixes that make a directory qualify.
var DefaultConfigSuffixes = []string{".tf", ".tf.json"}

// AlwaysExcludedDirs are never descended into.
var AlwaysExcludedDirs = []string{".git", ".terraform", ".terragrunt-cache"}

// Discovery walks a directory tree looking for Terraform directories.
type Discovery struct {
	root     string
	baseDir  string
	excludes filter.Patterns
	suffixes []string
	hidden   bool
}

// New returns a Discovery rooted at root.
func New(root string) *Discovery {
	return &Discovery{
		root:     root,
		suffixes: DefaultConfigSuffixes,
	}
}

// WithExcludes skips directories whose base name matches one of the patterns.
func (d *Discovery) WithExcludes(patterns ...string) *Discovery {
	d.excludes = append(d.excludes, filter.NewPatterns(patterns, '/')...)

	return d
}

// WithHidden descends into hidden directories other than the always excluded ones.
func (d *Discovery) WithHidden() *Discovery {
	d.hidden = true

	return d
}

// WithBaseDir resolves a relative root against dir instead of the process working directory.
// Yielded paths stay relative.
func (d *Discovery) WithBaseDir(dir string) *Discovery {
	d.baseDir = dir

	return d
}

// Walk yields the qualifying directories as paths joined from the root.
// Directories that cannot be read are skipped.
func (d *Discovery) Walk(l log.Logger) iter.Seq[string] {
	return func(yield func(string) bool) {
		d.walk(l, d.root, yield)
	}
}

// Collect returns all qualifying directories.
func (d *Discovery) Collect(l log.Logger) []string {
	return slices.Collect(d.Walk(l))
}

func (d *Discovery) walk(l log.Logger, dir string, yield func(string) bool) bool {
	entries, err := os.ReadDir(d.resolve(dir))
	if err != nil {
		l.Tracef("Skipping directory %s: %v", dir, err)

		return true
	}

	var (
		qualifies bool
		subdirs   []string
	)

	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() {
			if d.isExcluded(name) {
				l.Tracef("Skipping excluded directory %s", filepath.Join(dir, name))
				continue
			}

			subdirs = append(subdirs, name)

			continue
		}

		if !qualifies && d.isConfigFile(name) && isRegularFile(d.resolve(dir), entry) {
			qualifies = true
		}
	}

	if qualifies && !yield(dir) {
		return false
	}

	for _, name := range subdirs {
		if !d.walk(l, filepath.Join(dir, name), yield) {
			return false
		}
	}

	return true
}

func (d *Discovery) resolve(dir string) string {
	if d.baseDir == "" || filepath.IsAbs(dir) {
		return dir
	}

	return filepath.Join(d.baseDir, dir)
}

func (d *Discovery) isExcluded(name string) bool {
	if slices.Contains(AlwaysExcludedDirs, name) {
		return true
	}

	if !d.hidden && strings.HasPrefix(name, ".") {
		return true
	}

	return d.excludes.MatchAny(name)
}

func (d *Discovery) isConfigFile(name string) bool {
	for _, suffix := range d.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}

func isRegularFile(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}

	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))

	return err == nil && info.Mode().IsRegular()
}
