// Package linediff computes line-level changes between two texts.
//
// A Change is exactly one line plus a pair of flags describing whether the
// line was added or removed relative to a baseline, and a line number
// anchored in that baseline. Diff is the sole entry point; everything else
// in the overlay pipeline (Merger, BlockParser) consumes its output.
package linediff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change is exactly one line of content plus its relationship to the
// baseline. Added == Removed == false means "common" (unchanged).
type Change struct {
	Value      string
	Added      bool
	Removed    bool
	LineNumber int

	// Conflicted and ConflictGroup are set by the Merger, never by Diff.
	// ConflictGroup is "current" or "former".
	Conflicted    bool
	ConflictGroup string
}

// ChangeList is an ordered sequence of Change representing one file version
// relative to a baseline.
type ChangeList []Change

// Diff computes the ChangeList of current relative to baseline.
//
// It diffs line-by-line rather than character-by-character: each line is
// first collapsed to a single rune via diffmatchpatch's line-mode helpers,
// diffed, then expanded back, so a one-character edit inside a line still
// produces a whole-line remove+add pair rather than fragmenting the line.
func Diff(baseline, current string) ChangeList {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(baseline, current)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)
	return fromDiffMatchPatch(diffs)
}

// SelfDiff returns the diff of baseline against itself: a ChangeList
// containing only common lines, numbered 0..N-1. It is used to seed the
// baseline ChangeList for a pathname the first time it is encountered.
func SelfDiff(baseline string) ChangeList {
	return Diff(baseline, baseline)
}

// fromDiffMatchPatch converts diffmatchpatch's run-based diff into
// one-Change-per-line records with baseline-anchored line numbers.
//
// Each run's text is split on "\n" with the trailing empty element (if any)
// dropped first, so an empty trailing element is never fabricated into a
// phantom line; every emitted line is given back its "\n" terminator except
// possibly the very last line of the whole diff, which keeps whatever
// terminator (or lack of one) the source had.
func fromDiffMatchPatch(diffs []diffmatchpatch.Diff) ChangeList {
	var out ChangeList
	counter := 0

	// Determine whether the reconstructed "current" text ends with a
	// newline, so the final emitted line can faithfully omit/keep one.
	lastDiffIdx := -1
	for i, d := range diffs {
		if d.Type != diffmatchpatch.DiffDelete && d.Text != "" {
			lastDiffIdx = i
		}
	}
	endsWithNewline := lastDiffIdx >= 0 && strings.HasSuffix(diffs[lastDiffIdx].Text, "\n")

	for i, d := range diffs {
		lines := splitLines(d.Text)
		for j, line := range lines {
			isLastLineOfLastRun := i == len(diffs)-1 && j == len(lines)-1
			terminated := true
			if isLastLineOfLastRun && !endsWithNewline {
				terminated = false
			}
			value := line
			if terminated {
				value += "\n"
			}

			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, Change{Value: value, LineNumber: counter})
				counter++
			case diffmatchpatch.DiffDelete:
				out = append(out, Change{Value: value, Removed: true, LineNumber: counter})
				counter++
			case diffmatchpatch.DiffInsert:
				out = append(out, Change{Value: value, Added: true, LineNumber: counter - 1})
			}
		}
	}

	return out
}

// splitLines splits text into lines without fabricating an empty trailing
// element for a trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Text reconstitutes the non-removed lines of a ChangeList back into text,
// in order. This is Invariant 1 of the spec: concatenating the value of
// every non-removed change of Diff(a, b) reproduces b.
func (c ChangeList) Text() string {
	var b strings.Builder
	for _, ch := range c {
		if ch.Removed {
			continue
		}
		b.WriteString(ch.Value)
	}
	return b.String()
}
