// Package orchestrator drives the full overlay pipeline: enumerate
// templates, collect props, render and diff each file, merge, resolve
// conflicts, run cleanups, and emit the result. Grounded on the teacher's
// own command-level orchestration style (cmd/fst/commands' straight-line
// sequencing of config load → workspace op → result print), generalized
// from "one git workspace operation" to "the multi-template render/merge
// pipeline" spec.md §4.6 describes; it is the one component with no single
// teacher file to adapt since the teacher has no templating concept at
// all, so it's composed fresh from the packages built to its sub-steps.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/chelestewang/dollie/internal/blocks"
	"github.com/chelestewang/dollie/internal/cleanup"
	"github.com/chelestewang/dollie/internal/globmatch"
	"github.com/chelestewang/dollie/internal/linediff"
	"github.com/chelestewang/dollie/internal/merge"
	"github.com/chelestewang/dollie/internal/origin"
	"github.com/chelestewang/dollie/internal/plog"
	"github.com/chelestewang/dollie/internal/render"
	"github.com/chelestewang/dollie/internal/resolver"
	"github.com/chelestewang/dollie/internal/templateconfig"
	"github.com/chelestewang/dollie/internal/vtree"
)

// Error kinds, per spec.md §7. Wrapped with fmt.Errorf("...: %w", ...) so
// callers can errors.Is against them.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrContext         = errors.New("context error")
	ErrLoaderFailure   = errors.New("loader failure")
	ErrTemplateFailure = errors.New("template failure")
)

// CacheTable maps a relative pathname to its ordered ChangeLists: position
// 0 is the baseline, positions 1..N are overlays.
type CacheTable map[string][]linediff.ChangeList

// MergeTable maps a pathname to its merged blocks.
type MergeTable = cleanup.MergeTable

// BinaryTable maps a pathname to raw bytes.
type BinaryTable = cleanup.BinaryTable

// TemplatePropsEntry is one template's label and resolved props.
type TemplatePropsEntry struct {
	Label string
	Props map[string]any
}

// Config collects every external-interface hook spec.md §6 names.
type Config struct {
	// Origins appends additional origin handlers to the built-in
	// github/gitlab pair.
	Origins map[string]origin.Handler
	// OriginConfig carries per-origin credentials/options, keyed by
	// origin id.
	OriginConfig map[string]map[string]any
	// OriginHandlerOverride, if set, bypasses origin lookup entirely.
	OriginHandlerOverride origin.Handler

	HTTPClient *http.Client
	Cache      origin.Cache

	// GetTemplateProps prompts the user for a label's questions and
	// returns their raw answers.
	GetTemplateProps func(label string, questions []templateconfig.Question) (map[string]any, error)

	// ConflictsSolver resolves CONFLICT blocks; a nil solver leaves every
	// conflict unresolved, per spec.md §4.7.
	ConflictsSolver resolver.Solver

	// CleanupRegistry maps a cleanup callback name (as declared in a
	// template config's "cleanups" list) to its Go implementation. Script
	// config evaluation is out of scope (spec.md §9), so an unregistered
	// name is skipped rather than evaluated.
	CleanupRegistry map[string]cleanup.Callback

	// OnMessage is the progress reporter; defaults to a no-op.
	OnMessage func(string)
}

func (c Config) onMessage(text string) {
	if c.OnMessage != nil {
		c.OnMessage(text)
	} else {
		plog.Noop(text)
	}
}

// Result is the Orchestrator's output, per spec.md §6.
type Result struct {
	// Files maps pathname to either a string (text) or []byte (binary).
	Files map[string]any
	// Conflicts lists pathnames whose final MergeTable entry contains any
	// CONFLICT block, ignored or not (an ignored conflict still renders
	// with its current group and still counts as a conflict).
	Conflicts []string
}

// Run executes the full pipeline for one `dollie new` invocation.
func Run(ctx context.Context, projectName, templateReference string, cfg Config) (Result, error) {
	// 1. Validate.
	if projectName == "" || templateReference == "" {
		return Result{}, fmt.Errorf("orchestrator: projectName and templateReference are required: %w", ErrInvalidInput)
	}

	tree := vtree.New()

	// 2. Resolve origin, fetch, decompress into /template/main/.
	originID, templateName := origin.Split(templateReference)
	registry := origin.NewRegistry(cfg.Origins)
	if cfg.OriginHandlerOverride != nil {
		registry.SetOverride(cfg.OriginHandlerOverride)
	}

	cfg.onMessage(fmt.Sprintf("resolving origin %q for %q", originID, templateName))
	target, err := registry.Resolve(originID, templateName, cfg.OriginConfig[originID])
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w: %w", ErrContext, err)
	}

	cfg.onMessage("fetching template archive")
	archive, err := origin.Fetch(ctx, cfg.HTTPClient, target, cfg.Cache)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w: %w", ErrLoaderFailure, err)
	}
	if err := Decompress(archive, tree, vtree.MainRoot); err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w: %w", ErrLoaderFailure, err)
	}

	// 3. Parse template config.
	mainCfg := loadTemplateConfig(tree, vtree.MainRoot)

	// 4. Enumerate templates.
	propsList, activatedExtends, err := enumerateTemplates(ctx, tree, mainCfg, cfg, registry, originID)
	if err != nil {
		return Result{}, err
	}
	mainProps := propsList[0].Props

	// 5. Build GlobMatcher from main + activated extends.
	matcher := globmatch.New(mainCfg.Files.Merge, mainCfg.Files.Delete)
	for _, id := range activatedExtends {
		ext := mainCfg.ExtendTemplates[id]
		matcher.Add(globmatch.Merge, ext.Files.Merge)
		matcher.Add(globmatch.Delete, ext.Files.Delete)
	}

	// 6. Render & diff.
	cache := make(CacheTable)
	binary := make(BinaryTable)
	var pathOrder []string
	propsByLabel := make(map[string]map[string]any, len(propsList))
	for _, e := range propsList {
		propsByLabel[e.Label] = e.Props
	}

	labels := append([]string{"main"}, extendLabels(activatedExtends)...)
	for _, label := range labels {
		root := vtree.MainRoot
		if label != "main" {
			root = vtree.ExtendRoot(extendID(label))
		}
		currentProps := propsByLabel[label]

		for _, entry := range tree.Walk(root) {
			if entry.IsDirectory {
				continue
			}
			if entry.RelativeDirectoryPath == "" && isConfigFileName(entry.Name) {
				continue
			}
			data, err := tree.ReadFile(entry.AbsolutePath)
			if err != nil {
				return Result{}, fmt.Errorf("orchestrator: read %s: %w", entry.AbsolutePath, err)
			}

			relDir := entry.RelativeDirectoryPath
			name := entry.Name

			if entry.IsBinary {
				pathname := joinRel(relDir, name)
				binary[pathname] = data
				continue
			}

			text := string(data)
			if render.IsTemplateFile(name) {
				name = render.StripMarker(name)
				merged := render.MergeProps(mainProps, currentProps)
				rendered, err := render.Render(text, merged)
				if err != nil {
					return Result{}, fmt.Errorf("orchestrator: %w: render %s: %w", ErrTemplateFailure, entry.AbsolutePath, err)
				}
				text = rendered
			}

			pathname := joinRel(relDir, name)
			existing, seen := cache[pathname]
			if !seen {
				pathOrder = append(pathOrder, pathname)
				cache[pathname] = []linediff.ChangeList{linediff.SelfDiff(text)}
				continue
			}
			baselineText := existing[0].Text()
			cache[pathname] = append(existing, linediff.Diff(baselineText, text))
		}
	}

	// 7. Delete.
	var keptOrder []string
	for _, pathname := range pathOrder {
		if matcher.Match(pathname, globmatch.Delete) {
			delete(cache, pathname)
			continue
		}
		keptOrder = append(keptOrder, pathname)
	}
	pathOrder = keptOrder

	// 8. Merge into MergeTable.
	mergeTable := make(MergeTable, len(cache))
	for _, pathname := range pathOrder {
		changeLists := cache[pathname]
		var merged linediff.ChangeList
		if matcher.Match(pathname, globmatch.Merge) {
			if len(changeLists) == 1 {
				merged = changeLists[0]
			} else {
				merged = merge.Merge(changeLists[0], changeLists[1:])
			}
		} else {
			merged = changeLists[len(changeLists)-1]
		}
		mergeTable[pathname] = blocks.ToBlocks(merged)
	}

	// 9. Resolve conflicts.
	resolver.Run(mergeTable, pathOrder, cfg.ConflictsSolver)

	// 10. Run cleanups.
	callbacks := resolveCleanups(mainCfg, activatedExtends, cfg.CleanupRegistry)
	mergeTable, binary, err = cleanup.Run(mergeTable, binary, callbacks)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}

	// 11. Emit.
	files := make(map[string]any, len(mergeTable)+len(binary))
	var conflicts []string
	seenConflict := make(map[string]bool)
	for pathname, blks := range mergeTable {
		files[pathname] = blocks.ToText(blks)
		for _, blk := range blks {
			if blk.Kind == blocks.Conflict && !seenConflict[pathname] {
				conflicts = append(conflicts, pathname)
				seenConflict[pathname] = true
			}
		}
	}
	for pathname, data := range binary {
		files[pathname] = data
	}
	sort.Strings(conflicts)

	return Result{Files: files, Conflicts: conflicts}, nil
}

// isConfigFileName reports whether name is one of the template-root config
// file names, which are metadata consumed by the pipeline itself and never
// copied into the generated project.
func isConfigFileName(name string) bool {
	for _, candidate := range templateconfig.ConfigFileNames {
		if name == candidate {
			return true
		}
	}
	return false
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func extendLabels(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "extend:" + id
	}
	return out
}

func extendID(label string) string {
	const prefix = "extend:"
	if len(label) > len(prefix) {
		return label[len(prefix):]
	}
	return ""
}

func loadTemplateConfig(tree *vtree.Tree, root string) templateconfig.TemplateConfig {
	for _, name := range templateconfig.ConfigFileNames {
		p := root + "/" + name
		data, err := tree.ReadFile(p)
		if err != nil {
			continue
		}
		return templateconfig.Parse(data)
	}
	return templateconfig.TemplateConfig{}
}

// enumerateTemplates runs spec.md §4.6 step 4: a FIFO of pending labels
// seeded with "main", fetching and unpacking every newly activated extend
// template's archive as it's discovered.
func enumerateTemplates(ctx context.Context, tree *vtree.Tree, mainCfg templateconfig.TemplateConfig, cfg Config, registry *origin.Registry, defaultOriginID string) ([]TemplatePropsEntry, []string, error) {
	if cfg.GetTemplateProps == nil {
		return nil, nil, fmt.Errorf("orchestrator: %w: no getTemplateProps configured", ErrContext)
	}

	parser := templateconfig.NewAnswersParser()
	queue := []string{"main"}
	activated := make(map[string]bool)
	var activatedOrder []string
	var props []TemplatePropsEntry

	for len(queue) > 0 {
		label := queue[0]
		queue = queue[1:]

		questions := templateconfig.QuestionsFor(mainCfg, label)
		answers, err := cfg.GetTemplateProps(label, questions)
		if err != nil {
			return nil, nil, fmt.Errorf("orchestrator: getTemplateProps(%s): %w", label, err)
		}

		parsed := parser.Parse(answers)
		props = append(props, TemplatePropsEntry{Label: label, Props: parsed.Props})

		for _, pendingLabel := range parsed.PendingExtendTemplateLabels {
			id := extendID(pendingLabel)
			if activated[id] {
				continue
			}
			activated[id] = true
			activatedOrder = append(activatedOrder, id)
			queue = append(queue, pendingLabel)

			cfg.onMessage(fmt.Sprintf("fetching extend template %q", id))
			target, err := registry.Resolve(defaultOriginID, id, cfg.OriginConfig[defaultOriginID])
			if err != nil {
				return nil, nil, fmt.Errorf("orchestrator: %w: %w", ErrContext, err)
			}
			archive, err := origin.Fetch(ctx, cfg.HTTPClient, target, cfg.Cache)
			if err != nil {
				return nil, nil, fmt.Errorf("orchestrator: %w: %w", ErrLoaderFailure, err)
			}
			if err := Decompress(archive, tree, vtree.ExtendRoot(id)); err != nil {
				return nil, nil, fmt.Errorf("orchestrator: %w: %w", ErrLoaderFailure, err)
			}
		}
	}

	return props, activatedOrder, nil
}

func resolveCleanups(mainCfg templateconfig.TemplateConfig, activatedExtends []string, registry map[string]cleanup.Callback) []cleanup.Callback {
	var out []cleanup.Callback
	for _, name := range mainCfg.Cleanups {
		if cb, ok := registry[name]; ok {
			out = append(out, cb)
		}
	}
	for _, id := range activatedExtends {
		for _, name := range mainCfg.ExtendTemplates[id].Cleanups {
			if cb, ok := registry[name]; ok {
				out = append(out, cb)
			}
		}
	}
	return out
}
