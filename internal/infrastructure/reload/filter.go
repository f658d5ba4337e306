package reload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which paths trigger a reload. Patterns use doublestar
// syntax; a pattern without a slash is matched against the base name only.
type Filter struct {
	includes []string
	excludes []string
}

// NewFilter validates the patterns and builds a filter
func NewFilter(includes, excludes []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range includes {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q", p)
		}
		f.includes = append(f.includes, p)
	}
	for _, p := range excludes {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
		f.excludes = append(f.excludes, p)
	}
	return f, nil
}

// Match reports whether rel (a path relative to a watched root) should
// trigger a reload. Excludes win over includes; no includes means all files.
func (f *Filter) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if f.excluded(rel) {
		return false
	}
	if len(f.includes) == 0 {
		return true
	}
	return matchAny(f.includes, rel)
}

// SkipDir reports whether a directory is excluded and need not be watched
func (f *Filter) SkipDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return false
	}
	return f.excluded(rel) || f.excluded(rel+"/")
}

func (f *Filter) excluded(rel string) bool {
	return matchAny(f.excludes, rel)
}

func matchAny(patterns []string, rel string) bool {
	base := rel
	if i := strings.LastIndexByte(strings.TrimSuffix(rel, "/"), '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, p := range patterns {
		target := rel
		if !strings.Contains(p, "/") {
			target = strings.TrimSuffix(base, "/")
		}
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}
