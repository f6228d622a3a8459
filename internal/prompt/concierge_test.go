package prompt

import (
	"strings"
	"testing"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func TestBuildConciergeSystem(t *testing.T) {
	data := ConciergeSystemData{
		ToolCount:   1,
		ToolContext: "- Jasper (Text & Copywriting): Writes. Price: Paid. Rating: 4.8/5",
	}

	got := BuildConciergeSystem(newBuilder(t), data)

	for _, want := range []string{data.ToolContext, "**text**", "100 words", "OFFER", "URLs", "(1 entry)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("system instruction missing %q:\n%s", want, got)
		}
	}
}

func TestBuildConciergeSystemPlural(t *testing.T) {
	got := BuildConciergeSystem(nil, ConciergeSystemData{ToolCount: 10, ToolContext: "- A"})
	if !strings.Contains(got, "(10 entries)") {
		t.Fatalf("expected plural count:\n%s", got)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := newBuilder(t).Render("missing.yaml", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRenderMissingKey(t *testing.T) {
	if _, err := newBuilder(t).Render(TemplateConciergeSystem, map[string]any{}); err == nil {
		t.Fatal("expected error for missing template data")
	}
}

func TestFallbackConciergeSystem(t *testing.T) {
	got := FallbackConciergeSystem(ConciergeSystemData{ToolCount: 2, ToolContext: "- A\n- B"})
	if !strings.Contains(got, "- A\n- B") || !strings.Contains(got, "**text**") {
		t.Fatalf("unexpected fallback prompt:\n%s", got)
	}
}

func TestNames(t *testing.T) {
	names := newBuilder(t).Names()
	if len(names) != 1 || names[0] != TemplateConciergeSystem {
		t.Fatalf("unexpected templates: %v", names)
	}
}
