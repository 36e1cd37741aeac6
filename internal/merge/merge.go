// Package merge implements the overlay pipeline's conflict-detecting
// merge: given a baseline ChangeList and N overlay ChangeLists (all diffed
// against that same baseline), it produces one merged ChangeList with
// conflicts flagged at any baseline anchor more than one overlay touches.
//
// The algorithm is grounded on the patch-table shape of the teacher's
// three-way merge planner (internal/store/merge.go's computeMergeActions),
// adapted from "classify each file path once" to "classify each baseline
// line anchor, across an arbitrary number of overlays" since spec.md
// explicitly rules out a common-ancestor three-way heuristic beyond
// first-overlay-wins-the-baseline.
package merge

import (
	"sort"

	"github.com/chelestewang/dollie/internal/linediff"
)

type patchEntry struct {
	changes      []linediff.Change
	modifyCount  int
	seenOverlays map[int]bool
	removed      bool

	// overlayLines records each overlay's inserted values at this anchor,
	// keyed by overlay index, so a two-overlay conflict can be replayed
	// through diff3 for former-side enrichment.
	overlayLines map[int][]string
}

// Merge combines a baseline ChangeList with zero or more overlay
// ChangeLists, all diffed against that same baseline text. Overlays are
// processed in the order given (main first, then extends in enqueue
// order); when two or more overlays insert at the same baseline anchor,
// every inserted change at that anchor is flagged Conflicted with
// ConflictGroup "current".
//
// Per spec.md §4.2: an empty overlay list returns baseline unchanged; a
// nil/empty baseline returns an empty ChangeList; overlay changes whose
// LineNumber falls outside the baseline range are silently dropped rather
// than causing a panic.
func Merge(baseline linediff.ChangeList, overlays []linediff.ChangeList) linediff.ChangeList {
	if len(baseline) == 0 {
		return linediff.ChangeList{}
	}
	if len(overlays) == 0 {
		return baseline
	}

	maxLine := baseline[len(baseline)-1].LineNumber

	patchTable := make(map[int]*patchEntry)
	entryAt := func(line int) *patchEntry {
		e, ok := patchTable[line]
		if !ok {
			e = &patchEntry{
				seenOverlays: make(map[int]bool),
				overlayLines: make(map[int][]string),
			}
			patchTable[line] = e
		}
		return e
	}

	for overlayIdx, overlay := range overlays {
		for _, ch := range overlay {
			if ch.LineNumber < -1 || ch.LineNumber > maxLine {
				continue // out of baseline range: silently dropped
			}
			if ch.Added {
				e := entryAt(ch.LineNumber)
				e.changes = append(e.changes, ch)
				e.overlayLines[overlayIdx] = append(e.overlayLines[overlayIdx], ch.Value)
				if !e.seenOverlays[overlayIdx] {
					e.seenOverlays[overlayIdx] = true
					e.modifyCount++
				}
			} else if ch.Removed {
				entryAt(ch.LineNumber).removed = true
			}
		}
	}

	baselineAt := make(map[int]string, len(baseline))
	for _, ch := range baseline {
		baselineAt[ch.LineNumber] = ch.Value
	}

	// Mark every inserted change at a multiply-touched anchor as conflicted.
	// Per spec.md §9's design note, the former side is only strengthened
	// when a baseline line was actually displaced at this anchor (a
	// co-located removed change): that's the one case where "what the
	// overlay should have replaced" is well defined. A pure two-insert
	// collision (no removal involved) has no baseline slice to attribute
	// to either side, so former stays empty and both insertions land in
	// current, per invariant 6's "both groups" only requiring the
	// conflicting content be present, not split across a specific label.
	for anchor, e := range patchTable {
		if e.modifyCount <= 1 {
			continue
		}
		for i := range e.changes {
			e.changes[i].Conflicted = true
			e.changes[i].ConflictGroup = "current"
		}
		if e.modifyCount == 2 && e.removed {
			overlayIdxs := make([]int, 0, 2)
			for idx := range e.overlayLines {
				overlayIdxs = append(overlayIdxs, idx)
			}
			sort.Ints(overlayIdxs)
			if len(overlayIdxs) == 2 {
				former := enrichFormer(baselineAt[anchor], e.overlayLines[overlayIdxs[0]], e.overlayLines[overlayIdxs[1]])
				for _, line := range former {
					e.changes = append(e.changes, linediff.Change{
						Value:         line,
						LineNumber:    anchor,
						Conflicted:    true,
						ConflictGroup: "former",
					})
				}
			}
		}
	}

	anchors := make([]int, 0, len(patchTable))
	for line := range patchTable {
		anchors = append(anchors, line)
	}
	sort.Ints(anchors)

	var out linediff.ChangeList
	baselineIdx := 0
	emitBaselineUpTo := func(line int) {
		for baselineIdx < len(baseline) && baseline[baselineIdx].LineNumber <= line {
			ch := baseline[baselineIdx]
			if patchTable[ch.LineNumber] != nil && patchTable[ch.LineNumber].removed {
				ch.Removed = true
			}
			out = append(out, ch)
			baselineIdx++
		}
	}

	for _, anchor := range anchors {
		if anchor >= 0 {
			emitBaselineUpTo(anchor)
		}
		out = append(out, patchTable[anchor].changes...)
	}
	emitBaselineUpTo(maxLine)

	return out
}
