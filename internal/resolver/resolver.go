// Package resolver drives the pipeline's conflict resolution step: for
// every unresolved CONFLICT block left in the MergeTable, it calls a
// user-supplied solver and applies the returned verdict. Grounded on the
// teacher's ApplyMerge conflict-resolution shape (internal/workspace/merge.go:
// try a resolver callback per conflicting item, fall back only when it
// declines), generalized from "one fallback mode for every conflict" to
// the three-verdict contract (defer/ignore/replace) spec.md's ResolverLoop
// calls for.
package resolver

import (
	"github.com/chelestewang/dollie/internal/blocks"
)

// VerdictKind names what a Solver decided for one conflict block.
type VerdictKind int

const (
	// Defer requeues the item at the head of the work list: the solver
	// isn't ready to decide yet.
	Defer VerdictKind = iota
	// Ignored marks the block ignored; it still renders with its Current
	// group and still counts as a conflict in the final report.
	Ignored
	// Replace overwrites the block with Verdict.Block, forcing it OK.
	Replace
)

// Verdict is a Solver's response for one work item.
type Verdict struct {
	Kind  VerdictKind
	Block blocks.Block // only inspected when Kind == Replace
}

// Context is passed to the Solver for one CONFLICT block.
type Context struct {
	Pathname     string
	Total        int
	Index        int // this item's position in the original work list
	CurrentIndex int // how many items are still queued behind this one
	Block        blocks.Block
	Content      string // current textual rendering of the whole file
}

// Solver resolves one conflict block. A nil Solver makes Run a no-op,
// per spec.md §4.7 ("If no conflictsSolver is configured, the loop is a
// no-op and conflicts remain").
type Solver func(Context) Verdict

type workItem struct {
	pathname   string
	blockIndex int
	origIndex  int
}

// Run mutates table in place, resolving every non-ignored CONFLICT block
// via solver. Table entries are visited in pathname-insertion order (the
// order of pathnames, which callers should supply via orderedPaths) then
// by block index, per spec.md §5's ordering guarantee.
func Run(table map[string][]blocks.Block, orderedPaths []string, solver Solver) {
	if solver == nil {
		return
	}

	var queue []workItem
	idx := 0
	for _, path := range orderedPaths {
		for i, blk := range table[path] {
			if blk.Kind != blocks.Conflict || blk.Ignored {
				continue
			}
			queue = append(queue, workItem{pathname: path, blockIndex: i, origIndex: idx})
			idx++
		}
	}
	total := len(queue)

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		blk := table[item.pathname][item.blockIndex]
		ctx := Context{
			Pathname:     item.pathname,
			Total:        total,
			Index:        item.origIndex,
			CurrentIndex: len(queue),
			Block:        blk,
			Content:      blocks.ToText(table[item.pathname]),
		}

		verdict := solver(ctx)
		switch verdict.Kind {
		case Defer:
			queue = append([]workItem{item}, queue...)
		case Ignored:
			table[item.pathname][item.blockIndex].Ignored = true
		case Replace:
			replacement := verdict.Block
			replacement.Kind = blocks.OK
			table[item.pathname][item.blockIndex] = replacement
		}
	}
}
