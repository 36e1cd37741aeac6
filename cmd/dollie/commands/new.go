package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chelestewang/dollie/cmd/dollie/interactive"
	"github.com/chelestewang/dollie/internal/blobcache"
	"github.com/chelestewang/dollie/internal/cleanup"
	"github.com/chelestewang/dollie/internal/orchestrator"
	"github.com/chelestewang/dollie/internal/plog"
	"github.com/chelestewang/dollie/internal/templateconfig"
)

func newNewCmd() *cobra.Command {
	var noColor bool
	var noConflictsPrompt bool

	cmd := &cobra.Command{
		Use:   "new <project-name> <template-reference>",
		Short: "Generate a project from a template (plus any extend templates it offers)",
		Long: `new fetches the template named by template-reference (optionally
prefixed "origin:", defaulting to "github:"), prompts for its questions and
any extend templates the user opts into, renders and merges every file, and
writes the result under ./project-name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				interactive.DisableColor()
			}
			return runNew(cmd, args[0], args[1], noConflictsPrompt)
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&noConflictsPrompt, "no-resolve", false, "leave merge conflicts in place instead of prompting")

	return cmd
}

func runNew(cmd *cobra.Command, projectName, templateReference string, noConflictsPrompt bool) error {
	logger := plog.New(os.Stderr)

	cacheDir, err := blobcache.DefaultDir()
	if err != nil {
		return fmt.Errorf("dollie new: %w", err)
	}
	cache, err := blobcache.Open(cacheDir)
	if err != nil {
		return fmt.Errorf("dollie new: %w", err)
	}

	solver := interactive.Solver()
	if noConflictsPrompt {
		solver = nil
	}

	cfg := orchestrator.Config{
		Cache:            cache,
		GetTemplateProps: promptTemplateProps,
		ConflictsSolver:  solver,
		CleanupRegistry:  map[string]cleanup.Callback{},
		OnMessage:        plog.OnMessage(logger),
	}

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithTimeout(base, 5*time.Minute)
	defer cancel()

	result, err := orchestrator.Run(ctx, projectName, templateReference, cfg)
	if err != nil {
		return fmt.Errorf("dollie new: %w", err)
	}

	if err := writeResult(projectName, result); err != nil {
		return fmt.Errorf("dollie new: %w", err)
	}

	fmt.Println()
	fmt.Println(interactive.Bold(fmt.Sprintf("created %s (%d files)", projectName, len(result.Files))))
	if len(result.Conflicts) > 0 {
		fmt.Println(interactive.Warn(fmt.Sprintf("%d file(s) still carry unresolved conflicts:", len(result.Conflicts))))
		for _, path := range result.Conflicts {
			fmt.Println("  " + interactive.Danger(path))
		}
		cmd.SilenceErrors = true
		return SilentExit(1)
	}

	return nil
}

func writeResult(projectName string, result orchestrator.Result) error {
	for pathname, content := range result.Files {
		dest := filepath.Join(projectName, pathname)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", pathname, err)
		}
		switch v := content.(type) {
		case string:
			if err := os.WriteFile(dest, []byte(v), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", pathname, err)
			}
		case []byte:
			if err := os.WriteFile(dest, v, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", pathname, err)
			}
		}
	}
	return nil
}

// promptTemplateProps is the default GetTemplateProps: a plain stdin prompt
// per question, good enough for a non-interactive terminal or a CI run.
// Extend-template selection ($EXTEND$ questions) uses interactive.SelectOne
// whenever choices are offered; whether stdin is a terminal is not checked.
func promptTemplateProps(label string, questions []templateconfig.Question) (map[string]any, error) {
	answers := make(map[string]any, len(questions))
	reader := bufio.NewReader(os.Stdin)

	for _, q := range questions {
		prompt := q.Message
		if prompt == "" {
			prompt = q.Name
		}

		if strings.HasPrefix(q.Name, templateconfig.ExtendPrefix) && len(q.Choices) > 0 {
			choices := make([]string, len(q.Choices))
			for i, c := range q.Choices {
				choices[i] = fmt.Sprint(c)
			}
			chosen, err := interactive.SelectOne(prompt, choices)
			if err != nil {
				answers[q.Name] = ""
				continue
			}
			answers[q.Name] = chosen
			continue
		}

		fmt.Printf("%s ", prompt)
		if q.Default != nil {
			fmt.Printf("[%v] ", q.Default)
		}
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			answers[q.Name] = q.Default
			continue
		}
		answers[q.Name] = coerceAnswer(q.Type, line)
	}

	return answers, nil
}

func coerceAnswer(questionType, raw string) any {
	switch questionType {
	case "confirm", "boolean":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return raw
		}
		return b
	case "number":
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		return n
	default:
		return raw
	}
}

func init() {
	register(func(root *cobra.Command) { root.AddCommand(newNewCmd()) })
}
