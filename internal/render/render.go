// Package render implements the orchestrator's templating engine: every
// `__template.`-prefixed file is rendered through it with the merged props
// of main and the current template. Grounded on the sprig-enriched
// text/template wiring seen across the retrieval pack's template-driven
// repos, since the teacher itself has no templating layer of its own.
//
// spec.md's illustrative "<%= name %>" syntax is EJS pseudocode describing
// the render(text, props) contract, not a literal syntax requirement — its
// own Non-goals exclude "templating syntax beyond render(string, props)
// string" from the engine's scope, so the concrete delimiters are
// text/template's native "{{ }}".
package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateFileMarker prefixes a source filename that should be rendered
// through the templating engine, with the prefix stripped on output.
const TemplateFileMarker = "__template."

// IsTemplateFile reports whether name carries the template-file marker.
func IsTemplateFile(name string) bool {
	return strings.HasPrefix(name, TemplateFileMarker)
}

// StripMarker removes the template-file marker from name.
func StripMarker(name string) string {
	return strings.TrimPrefix(name, TemplateFileMarker)
}

// Render executes text as a text/template body against props, with the
// sprig function library available. A parse or execute error is returned
// wrapped with a "render:" prefix for the orchestrator to treat as TemplateFailure (aborting the run per
// spec.md §7 — rendering errors are not quarantined per-file).
func Render(text string, props map[string]any) (string, error) {
	tmpl, err := template.New("").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("render: parse: %w", err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, props); err != nil {
		return "", fmt.Errorf("render: execute: %w", err)
	}
	return out.String(), nil
}

// MergeProps merges override on top of base, right-biased: a key present
// in both takes override's value. Neither input is mutated.
func MergeProps(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
