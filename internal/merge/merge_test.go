package merge

import (
	"testing"

	"github.com/chelestewang/dollie/internal/linediff"
)

func TestMergeEmptyOverlaysReturnsBaseline(t *testing.T) {
	baseline := linediff.SelfDiff("a\nb\n")
	got := Merge(baseline, nil)
	if got.Text() != "a\nb\n" {
		t.Fatalf("Text() = %q, want %q", got.Text(), "a\nb\n")
	}
}

func TestMergeEmptyBaselineReturnsEmpty(t *testing.T) {
	got := Merge(nil, []linediff.ChangeList{linediff.SelfDiff("a\n")})
	if len(got) != 0 {
		t.Fatalf("expected empty ChangeList, got %v", got)
	}
}

func TestMergeSingleOverlayNoConflict(t *testing.T) {
	baseline := linediff.SelfDiff("1\n2\n3\n")
	overlay := linediff.Diff("1\n2\n3\n", "1\n1.5\n2\n3\n")

	got := Merge(baseline, []linediff.ChangeList{overlay})
	if got.Text() != "1\n1.5\n2\n3\n" {
		t.Fatalf("Text() = %q, want %q", got.Text(), "1\n1.5\n2\n3\n")
	}
	for _, ch := range got {
		if ch.Conflicted {
			t.Fatalf("expected no conflicts, got conflicted change %+v", ch)
		}
	}
}

func TestMergeDistinctAnchorsNoConflict(t *testing.T) {
	baseline := linediff.SelfDiff("a\nb\nc\n")
	overlayA := linediff.Diff("a\nb\nc\n", "x\na\nb\nc\n")
	overlayB := linediff.Diff("a\nb\nc\n", "a\nb\nc\ny\n")

	got := Merge(baseline, []linediff.ChangeList{overlayA, overlayB})
	if got.Text() != "x\na\nb\nc\ny\n" {
		t.Fatalf("Text() = %q, want %q", got.Text(), "x\na\nb\nc\ny\n")
	}
	for _, ch := range got {
		if ch.Conflicted {
			t.Fatalf("expected no conflicts, got conflicted change %+v", ch)
		}
	}
}

func TestMergeSameAnchorConflicts(t *testing.T) {
	baseline := linediff.SelfDiff("a\nb\n")
	overlayA := linediff.Diff("a\nb\n", "a\nx\nb\n")
	overlayB := linediff.Diff("a\nb\n", "a\ny\nb\n")

	got := Merge(baseline, []linediff.ChangeList{overlayA, overlayB})

	var conflicted []linediff.Change
	for _, ch := range got {
		if ch.Conflicted {
			conflicted = append(conflicted, ch)
		}
	}
	if len(conflicted) == 0 {
		t.Fatal("expected conflicted changes, got none")
	}
	var sawX, sawY bool
	for _, ch := range conflicted {
		if ch.ConflictGroup != "current" {
			continue
		}
		if ch.Value == "x\n" {
			sawX = true
		}
		if ch.Value == "y\n" {
			sawY = true
		}
	}
	if !sawX || !sawY {
		t.Fatalf("expected both x and y in the current conflict group, got %+v", conflicted)
	}
}

func TestMergeOutOfRangeChangeDropped(t *testing.T) {
	baseline := linediff.SelfDiff("a\n")
	overlay := linediff.ChangeList{
		{Value: "z\n", Added: true, LineNumber: 500},
	}

	got := Merge(baseline, []linediff.ChangeList{overlay})
	if got.Text() != "a\n" {
		t.Fatalf("Text() = %q, want %q (out-of-range insert should be dropped)", got.Text(), "a\n")
	}
}

func TestMergeRemovalApplied(t *testing.T) {
	baseline := linediff.SelfDiff("a\nb\nc\n")
	overlay := linediff.Diff("a\nb\nc\n", "a\nc\n")

	got := Merge(baseline, []linediff.ChangeList{overlay})
	if got.Text() != "a\nc\n" {
		t.Fatalf("Text() = %q, want %q", got.Text(), "a\nc\n")
	}
}
