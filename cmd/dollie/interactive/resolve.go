package interactive

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chelestewang/dollie/internal/blocks"
	"github.com/chelestewang/dollie/internal/resolver"
)

// resolveModel shows one CONFLICT block and lets the user pick which side
// wins, in the same single-screen, keypress-driven shape as the teacher's
// search model, with the list/filter machinery dropped since there's
// nothing to filter here.
type resolveModel struct {
	ctx    resolver.Context
	choice string // "former", "current", "both", "ignore", "defer"
}

func newResolveModel(ctx resolver.Context) resolveModel {
	return resolveModel{ctx: ctx}
}

func (m resolveModel) Init() tea.Cmd { return nil }

func (m resolveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "f":
		m.choice = "former"
		return m, tea.Quit
	case "c":
		m.choice = "current"
		return m, tea.Quit
	case "b":
		m.choice = "both"
		return m, tea.Quit
	case "i":
		m.choice = "ignore"
		return m, tea.Quit
	case "s", "ctrl+c", "esc":
		m.choice = "defer"
		return m, tea.Quit
	}
	return m, nil
}

func (m resolveModel) View() string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("conflict %d/%d in %s", m.ctx.Index+1, m.ctx.Total, m.ctx.Pathname)))
	b.WriteString("\n\n")
	b.WriteString(Warn("former:"))
	b.WriteString("\n")
	for _, l := range m.ctx.Block.Former {
		b.WriteString("  " + l)
	}
	if len(m.ctx.Block.Former) == 0 {
		b.WriteString(Muted("  (empty)\n"))
	}
	b.WriteString("\n")
	b.WriteString(Success("current:"))
	b.WriteString("\n")
	for _, l := range m.ctx.Block.Current {
		b.WriteString("  " + l)
	}
	b.WriteString("\n")
	b.WriteString(Muted("f former  c current  b both  i ignore  s skip for now"))
	return b.String()
}

// Solver returns a resolver.Solver that drives one resolveModel per
// conflict. "both" carries the former lines forward ahead of the current
// ones rather than picking a side, by returning a Block with both groups
// and Ignored left false so it's no longer flagged conflicted once
// replaced.
func Solver() resolver.Solver {
	return func(ctx resolver.Context) resolver.Verdict {
		m := newResolveModel(ctx)
		final, err := tea.NewProgram(m).Run()
		if err != nil {
			return resolver.Verdict{Kind: resolver.Defer}
		}
		fm := final.(resolveModel)

		switch fm.choice {
		case "former":
			return resolver.Verdict{Kind: resolver.Replace, Block: blocks.Block{Lines: ctx.Block.Former}}
		case "current":
			return resolver.Verdict{Kind: resolver.Replace, Block: blocks.Block{Lines: ctx.Block.Current}}
		case "both":
			lines := append(append([]string{}, ctx.Block.Former...), ctx.Block.Current...)
			return resolver.Verdict{Kind: resolver.Replace, Block: blocks.Block{Lines: lines}}
		case "ignore":
			return resolver.Verdict{Kind: resolver.Ignored}
		default:
			return resolver.Verdict{Kind: resolver.Defer}
		}
	}
}
