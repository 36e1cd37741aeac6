// Package blocks converts merged ChangeLists to/from a sequence of
// OK/CONFLICT merge blocks and serialises them to text with conflict
// fences, grounded on the teacher's conflict-marker writer
// (internal/workspace/merge.go's writeConflictMarkers, before adaptation).
package blocks

import (
	"strings"

	"github.com/chelestewang/dollie/internal/linediff"
)

// Kind tags a MergeBlock as a contiguous run of agreed lines or a
// conflicting pair of alternatives at the same baseline position.
type Kind int

const (
	OK Kind = iota
	Conflict
)

// Block is a tagged variant: OK carries Lines, Conflict carries Former and
// Current plus an Ignored flag set by the resolver loop.
type Block struct {
	Kind    Kind
	Lines   []string // OK only
	Former  []string // Conflict only
	Current []string // Conflict only
	Ignored bool     // Conflict only
}

// ToBlocks walks a merged ChangeList and groups it into OK/Conflict blocks.
// Removed changes are skipped. Conflicted changes are appended to the
// conflict group named by their ConflictGroup ("current" or "former");
// everything else extends the trailing OK block's Lines.
//
// The Former side of a block produced here is empty unless the Merger
// populated ConflictGroup == "former" entries (see internal/merge's
// diff3 enrichment) — a conformant reader is expected to accept either,
// per spec.md §4.3.
func ToBlocks(changes linediff.ChangeList) []Block {
	var out []Block

	tail := func() *Block {
		if len(out) == 0 {
			return nil
		}
		return &out[len(out)-1]
	}

	for _, ch := range changes {
		if ch.Removed {
			continue
		}
		if ch.Conflicted {
			t := tail()
			if t == nil || t.Kind != Conflict {
				out = append(out, Block{Kind: Conflict})
				t = tail()
			}
			switch ch.ConflictGroup {
			case "former":
				t.Former = append(t.Former, ch.Value)
			default:
				t.Current = append(t.Current, ch.Value)
			}
			continue
		}

		t := tail()
		if t == nil || t.Kind != OK {
			out = append(out, Block{Kind: OK})
			t = tail()
		}
		t.Lines = append(t.Lines, ch.Value)
	}

	return out
}

// ToText serialises blocks back to a single string. OK blocks concatenate
// their lines; Conflict blocks emit the canonical fence with each marker on
// its own line.
func ToText(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Kind {
		case OK:
			for _, l := range blk.Lines {
				b.WriteString(l)
			}
		case Conflict:
			writeFence(&b, blk)
		}
	}
	return b.String()
}

// RenderedLines returns the lines a block contributes to the working-tree
// rendering of the file: OK blocks render their lines, Conflict blocks
// render their Current group (the "ignored" resolution picks Current
// deterministically, per spec.md §4.7).
func RenderedLines(blocks []Block) []string {
	var out []string
	for _, blk := range blocks {
		switch blk.Kind {
		case OK:
			out = append(out, blk.Lines...)
		case Conflict:
			out = append(out, blk.Current...)
		}
	}
	return out
}

func writeFence(b *strings.Builder, blk Block) {
	b.WriteString("<<<<<<< former\n")
	for _, l := range blk.Former {
		b.WriteString(l)
	}
	ensureNewline(b)
	b.WriteString("=======\n")
	for _, l := range blk.Current {
		b.WriteString(l)
	}
	ensureNewline(b)
	b.WriteString(">>>>>>> current\n")
}

// ensureNewline guarantees the fence separator lands on its own line even
// if the last content line in the group lacked a trailing terminator.
func ensureNewline(b *strings.Builder) {
	s := b.String()
	if len(s) > 0 && !strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
	}
}

// FromText is the inverse of ToText for plain (non-conflicted) content: it
// is equivalent to ToBlocks(linediff.SelfDiff(content)), producing a single
// OK block sequence. It does not reconstruct conflict fences from literal
// marker text — conflict structure only exists inside the pipeline's
// ChangeLists, not in arbitrary text a caller hands in.
func FromText(content string) []Block {
	return ToBlocks(linediff.SelfDiff(content))
}
