package templateconfig

import "testing"

func TestParseInvalidJSONDegradesToEmpty(t *testing.T) {
	got := Parse([]byte("not json"))
	if len(got.Questions) != 0 || len(got.ExtendTemplates) != 0 {
		t.Fatalf("expected empty config, got %+v", got)
	}
}

func TestParseValidConfig(t *testing.T) {
	data := []byte(`{
		"questions": [{"name": "name", "message": "Your name?"}],
		"extendTemplates": {
			"typescript": {"questions": [{"name": "strict"}]}
		},
		"files": {"merge": ["*.md"], "delete": ["**/*.tmp"]}
	}`)
	got := Parse(data)
	if len(got.Questions) != 1 || got.Questions[0].Name != "name" {
		t.Fatalf("Questions = %+v", got.Questions)
	}
	if len(got.ExtendTemplates["typescript"].Questions) != 1 {
		t.Fatalf("ExtendTemplates = %+v", got.ExtendTemplates)
	}
	if got.Files.Merge[0] != "*.md" || got.Files.Delete[0] != "**/*.tmp" {
		t.Fatalf("Files = %+v", got.Files)
	}
}

func TestQuestionsForRoutesByLabel(t *testing.T) {
	cfg := TemplateConfig{
		Questions: []Question{{Name: "name"}},
		ExtendTemplates: map[string]ExtendTemplate{
			"ts": {Questions: []Question{{Name: "strict"}}},
		},
	}
	if qs := QuestionsFor(cfg, "main"); len(qs) != 1 || qs[0].Name != "name" {
		t.Fatalf("main questions = %+v", qs)
	}
	if qs := QuestionsFor(cfg, "extend:ts"); len(qs) != 1 || qs[0].Name != "strict" {
		t.Fatalf("extend questions = %+v", qs)
	}
}

func TestAnswersParserRoutesExtendAndUniquifies(t *testing.T) {
	p := NewAnswersParser()

	main := p.Parse(map[string]any{
		"name":            "demo",
		"$EXTEND$choices": "typescript, eslint",
	})
	if main.Props["name"] != "demo" {
		t.Fatalf("main props = %+v", main.Props)
	}
	if len(main.PendingExtendTemplateLabels) != 2 ||
		main.PendingExtendTemplateLabels[0] != "extend:typescript" ||
		main.PendingExtendTemplateLabels[1] != "extend:eslint" {
		t.Fatalf("pending labels = %v", main.PendingExtendTemplateLabels)
	}

	extend := p.Parse(map[string]any{"name": "override"})
	if _, collided := extend.Props["name"]; collided {
		t.Fatal("expected colliding name to be uniquified, not overwritten")
	}
	var uniquified bool
	for k, v := range extend.Props {
		if v == "override" && k != "name" {
			uniquified = true
		}
	}
	if !uniquified {
		t.Fatalf("expected a uniquified key for the colliding name, got %+v", extend.Props)
	}
}
