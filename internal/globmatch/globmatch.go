// Package globmatch resolves per-file merge/delete policy from
// template-declared glob lists, via doublestar so "**" behaves the way
// template authors expect (matching spec.md's own files.delete =
// ["**/*.tmp"] example literally). Grounded on the teacher's
// internal/ignore/ignore.go Matcher shape (NewMatcher/Match), generalized
// from "one hand-rolled ignore list" to "two named policy kinds, each a
// union of globs from every activated template".
package globmatch

import "github.com/bmatcuk/doublestar/v4"

// Kind names a glob policy list.
type Kind string

const (
	Merge  Kind = "merge"
	Delete Kind = "delete"
)

// Matcher holds the merge/delete glob lists in effect for a run, each the
// union of the main template's globs and every activated extend's globs.
type Matcher struct {
	patterns map[Kind][]string
}

// New builds a Matcher from the given merge/delete glob lists. Either may
// be nil, which behaves as an empty list.
func New(mergeGlobs, deleteGlobs []string) *Matcher {
	return &Matcher{
		patterns: map[Kind][]string{
			Merge:  append([]string{}, mergeGlobs...),
			Delete: append([]string{}, deleteGlobs...),
		},
	}
}

// Add unions extra globs of the given kind into the matcher, for folding in
// an activated extend template's policy after construction.
func (m *Matcher) Add(kind Kind, globs []string) {
	m.patterns[kind] = append(m.patterns[kind], globs...)
}

// Match reports whether pathname matches any glob declared for kind.
// Absent kinds behave as an empty list and never match. A malformed glob
// pattern is treated as never matching rather than propagated as an error,
// since a template author's typo shouldn't abort the whole run.
func (m *Matcher) Match(pathname string, kind Kind) bool {
	for _, pattern := range m.patterns[kind] {
		ok, err := doublestar.Match(pattern, pathname)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
