// Package templateconfig loads and parses a template's configuration: its
// questions, extend templates, cleanup callback names, and merge/delete
// glob policy. Grounded on the teacher's internal/config/config.go for
// JSON-load style (encoding/json, "degrade to zero value
// rather than fail the caller") rather than its actual schema, which is a
// workspace/snapshot config unrelated to templating.
package templateconfig

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ConfigFileNames is the fixed list of template-root config file names
// checked, in order, when the orchestrator loads a template's config. Script config evaluation (".dollie.js") is
// out of scope per spec.md §9's design note that a port may restrict to
// JSON config and drop script support; the name is still recognized so a
// template carrying only a script config degrades to an empty config
// instead of silently looking unconfigured.
var ConfigFileNames = []string{".dollie.json", ".dollie.js"}

// ExtendPrefix marks a question name whose answer routes to
// pendingExtendTemplateLabels instead of becoming a prop.
const ExtendPrefix = "$EXTEND$"

// Question describes one prompt a template author declares. Fields beyond
// Name/Message are passed through to getTemplateProps verbatim; the engine
// itself only inspects Name.
type Question struct {
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Default any    `json:"default,omitempty"`
	Choices []any  `json:"choices,omitempty"`
}

// FilesPolicy is the per-template merge/delete glob declaration.
type FilesPolicy struct {
	Merge  []string `json:"merge,omitempty"`
	Delete []string `json:"delete,omitempty"`
}

// ExtendTemplate is one entry of a TemplateConfig's extendTemplates map.
type ExtendTemplate struct {
	Questions []Question  `json:"questions,omitempty"`
	Cleanups  []string    `json:"cleanups,omitempty"`
	Files     FilesPolicy `json:"files,omitempty"`
}

// TemplateConfig is the parsed shape of a template-root config file.
type TemplateConfig struct {
	Questions       []Question                `json:"questions,omitempty"`
	ExtendTemplates map[string]ExtendTemplate `json:"extendTemplates,omitempty"`
	Cleanups        []string                   `json:"cleanups,omitempty"`
	Files           FilesPolicy                `json:"files,omitempty"`
}

// Parse parses raw JSON config bytes. A parse failure degrades to an empty
// TemplateConfig rather than propagating, per spec.md §7's TemplateFailure
// handling ("config file parse failure degrades to empty config,
// non-fatal").
func Parse(data []byte) TemplateConfig {
	var cfg TemplateConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return TemplateConfig{}
	}
	return cfg
}

// QuestionsFor returns the question set for a label, per spec.md §9's
// canonical resolution of the main/extend routing open question: the
// "main" label queries cfg.Questions; an "extend:<id>" label queries
// cfg.ExtendTemplates[id].Questions.
func QuestionsFor(cfg TemplateConfig, label string) []Question {
	if label == "main" {
		return cfg.Questions
	}
	id := strings.TrimPrefix(label, "extend:")
	return cfg.ExtendTemplates[id].Questions
}

// AnswersParser routes a label's raw answers into props and pending extend
// labels, uniquifying question names that collide across templates with a
// counter-based postfix instead of a random one (spec.md §9: "a counter
// suffices, no RNG required").
type AnswersParser struct {
	seen    map[string]bool
	counter int
}

// NewAnswersParser returns an AnswersParser with no names observed yet.
func NewAnswersParser() *AnswersParser {
	return &AnswersParser{seen: make(map[string]bool)}
}

// Parsed is the result of parsing one label's answers.
type Parsed struct {
	Props                      map[string]any
	PendingExtendTemplateLabels []string
}

// Parse consumes answers keyed by question name. Keys prefixed with
// ExtendPrefix yield comma-separated extend ids, each becoming a pending
// "extend:<id>" label; every other key becomes a prop, uniquified against
// every name this parser has already seen across prior Parse calls.
func (p *AnswersParser) Parse(answers map[string]any) Parsed {
	out := Parsed{Props: make(map[string]any, len(answers))}
	for name, value := range answers {
		if strings.HasPrefix(name, ExtendPrefix) {
			ids := splitAndTrim(fmt.Sprint(value))
			for _, id := range ids {
				out.PendingExtendTemplateLabels = append(out.PendingExtendTemplateLabels, "extend:"+id)
			}
			continue
		}
		key := name
		if p.seen[key] {
			p.counter++
			key = key + "_" + strconv.Itoa(p.counter)
		}
		p.seen[key] = true
		out.Props[key] = value
	}
	return out
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
