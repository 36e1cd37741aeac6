package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chelestewang/dollie/cmd/dollie/interactive"
	"github.com/chelestewang/dollie/internal/blocks"
	"github.com/chelestewang/dollie/internal/resolver"
)

func newResolveCmd() *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "resolve <directory>",
		Short: "Walk the conflict fences left in a generated project and resolve them interactively",
		Long: `resolve re-opens every conflict fence ("<<<<<<< former" ... "=======" ...
">>>>>>> current") still present under directory, drives the same
resolution prompt "dollie new" would have shown, and rewrites each file
with the chosen resolution in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				interactive.DisableColor()
			}
			return runResolve(cmd, args[0])
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func runResolve(cmd *cobra.Command, dir string) error {
	table := make(map[string][]blocks.Block)
	var order []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if !strings.Contains(string(data), "<<<<<<< former") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		table[rel] = parseFencedBlocks(string(data))
		order = append(order, rel)
		return nil
	})
	if err != nil {
		return fmt.Errorf("dollie resolve: %w", err)
	}

	if len(order) == 0 {
		fmt.Println("no unresolved conflicts found")
		return nil
	}

	resolver.Run(table, order, interactive.Solver())

	remaining := 0
	for _, rel := range order {
		blks := table[rel]
		for _, blk := range blks {
			if blk.Kind == blocks.Conflict {
				remaining++
				break
			}
		}
		out := blocks.ToText(blks)
		if err := os.WriteFile(filepath.Join(dir, rel), []byte(out), 0o644); err != nil {
			return fmt.Errorf("dollie resolve: write %s: %w", rel, err)
		}
	}

	fmt.Println(interactive.Bold(fmt.Sprintf("resolved conflicts in %d file(s)", len(order))))
	if remaining > 0 {
		fmt.Println(interactive.Warn(fmt.Sprintf("%d file(s) still carry unresolved conflicts", remaining)))
		cmd.SilenceErrors = true
		return SilentExit(1)
	}
	return nil
}

// parseFencedBlocks reads the canonical conflict fence format back into
// blocks: runs of plain lines become OK blocks, and each
// "<<<<<<< former" / "=======" / ">>>>>>> current" run becomes one
// Conflict block. This is a CLI-only, best-effort reader over text a
// previous "dollie new" run actually wrote; it has no bearing on the
// pipeline's own ChangeList-based merge representation.
func parseFencedBlocks(text string) []blocks.Block {
	var out []blocks.Block
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var okLines []string
	flushOK := func() {
		if len(okLines) > 0 {
			out = append(out, blocks.Block{Kind: blocks.OK, Lines: append([]string{}, okLines...)})
			okLines = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text() + "\n"
		switch {
		case strings.HasPrefix(line, "<<<<<<< former"):
			flushOK()
			var former, current []string
			for scanner.Scan() {
				inner := scanner.Text() + "\n"
				if strings.HasPrefix(inner, "=======") {
					break
				}
				former = append(former, inner)
			}
			for scanner.Scan() {
				inner := scanner.Text() + "\n"
				if strings.HasPrefix(inner, ">>>>>>> current") {
					break
				}
				current = append(current, inner)
			}
			out = append(out, blocks.Block{Kind: blocks.Conflict, Former: former, Current: current})
		default:
			okLines = append(okLines, line)
		}
	}
	flushOK()
	return out
}

func init() {
	register(func(root *cobra.Command) { root.AddCommand(newResolveCmd()) })
}
