package merge

import (
	"bufio"
	"io"
	"strings"

	"github.com/epiclabs-io/diff3"
)

// enrichFormer strengthens the "former" side of a two-overlay conflict by
// running a real three-way merge over (overlayA, baseline, overlayB) and
// lifting the base hunk out of its marker-delimited output, instead of
// leaving former empty. Grounded on the teacher's tryLinemerge
// (internal/store/merge.go), generalized from "accept only the no-conflict
// case" to "read the marker-delimited output ourselves" since here a
// conflict is the expected, interesting case rather than a failure to
// report upward.
//
// baselineLine is the single baseline line value the anchor refers to (may
// be empty if the anchor predates the baseline, e.g. the virtual -1
// anchor). a and b are the two overlays' inserted text at that anchor, each
// already newline-joined. Returns nil if diff3 errs, reports no conflict of
// its own, or its output doesn't contain the expected marker shape — never
// panics on an unexpected format.
func enrichFormer(baselineLine string, a, b []string) []string {
	result, err := diff3.Merge(
		strings.NewReader(strings.Join(a, "")),
		strings.NewReader(baselineLine),
		strings.NewReader(strings.Join(b, "")),
		false, "a", "b",
	)
	if err != nil || !result.Conflicts {
		return nil
	}

	out, err := io.ReadAll(result.Result)
	if err != nil {
		return nil
	}

	return extractBaseHunk(string(out))
}

// extractBaseHunk scans diff3-style marker output for the base/original
// section, the text between a "|||||||" line and the following "======="
// line. Any other shape (library version mismatch, unmarked output,
// truncated conflicts) yields nil rather than a guess.
func extractBaseHunk(text string) []string {
	var base []string
	inBase := false
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "|||||||"):
			inBase = true
		case strings.HasPrefix(line, "======="):
			if inBase {
				if base == nil {
					return nil
				}
				return base
			}
		case inBase:
			base = append(base, line+"\n")
		}
	}
	if base == nil {
		return nil
	}
	return base
}
