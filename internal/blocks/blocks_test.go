package blocks

import (
	"strings"
	"testing"

	"github.com/chelestewang/dollie/internal/linediff"
)

func TestRoundTripNoConflict(t *testing.T) {
	text := "one\ntwo\nthree\n"
	got := ToText(FromText(text))
	if got != text {
		t.Fatalf("ToText(FromText(%q)) = %q", text, got)
	}
}

func TestToBlocksGroupsConflictedRun(t *testing.T) {
	changes := linediff.ChangeList{
		{Value: "a\n", LineNumber: 0},
		{Value: "x\n", Added: true, LineNumber: 0, Conflicted: true, ConflictGroup: "current"},
		{Value: "y\n", Added: true, LineNumber: 0, Conflicted: true, ConflictGroup: "current"},
		{Value: "b\n", LineNumber: 1},
	}

	blks := ToBlocks(changes)
	if len(blks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(blks), blks)
	}
	if blks[0].Kind != OK || len(blks[0].Lines) != 1 || blks[0].Lines[0] != "a\n" {
		t.Fatalf("block 0 = %+v", blks[0])
	}
	if blks[1].Kind != Conflict || len(blks[1].Current) != 2 {
		t.Fatalf("block 1 = %+v", blks[1])
	}
	if blks[2].Kind != OK || len(blks[2].Lines) != 1 || blks[2].Lines[0] != "b\n" {
		t.Fatalf("block 2 = %+v", blks[2])
	}
}

func TestToTextFenceFormat(t *testing.T) {
	blks := []Block{
		{Kind: Conflict, Former: []string{"old\n"}, Current: []string{"new\n"}},
	}
	got := ToText(blks)
	want := "<<<<<<< former\nold\n=======\nnew\n>>>>>>> current\n"
	if got != want {
		t.Fatalf("ToText() = %q, want %q", got, want)
	}
}

func TestToTextFenceHandlesMissingTrailingNewline(t *testing.T) {
	blks := []Block{
		{Kind: Conflict, Former: []string{"old"}, Current: []string{"new"}},
	}
	got := ToText(blks)
	if !strings.Contains(got, "old\n=======\n") {
		t.Fatalf("ToText() = %q, want a newline inserted before the fence separator", got)
	}
}

func TestRenderedLinesPicksCurrent(t *testing.T) {
	blks := []Block{
		{Kind: OK, Lines: []string{"a\n"}},
		{Kind: Conflict, Former: []string{"old\n"}, Current: []string{"new\n"}},
	}
	got := RenderedLines(blks)
	if len(got) != 2 || got[0] != "a\n" || got[1] != "new\n" {
		t.Fatalf("RenderedLines() = %v", got)
	}
}

func TestRemovedChangesSkipped(t *testing.T) {
	changes := linediff.ChangeList{
		{Value: "a\n", LineNumber: 0},
		{Value: "gone\n", Removed: true, LineNumber: 1},
		{Value: "b\n", LineNumber: 2},
	}
	blks := ToBlocks(changes)
	if len(blks) != 1 || len(blks[0].Lines) != 2 {
		t.Fatalf("expected a single OK block with 2 lines, got %+v", blks)
	}
}
