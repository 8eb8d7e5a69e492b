package digest

import (
	"strings"
	"testing"
)

func richParagraph(text string) map[string]interface{} {
	return map[string]interface{}{
		"type": "doc",
		"content": []interface{}{
			map[string]interface{}{
				"type":    "paragraph",
				"content": []interface{}{map[string]interface{}{"type": "text", "text": text}},
			},
		},
	}
}

func summaryPanel(text string) map[string]interface{} {
	return map[string]interface{}{
		"template_slug": "meeting-summary",
		"title":         "Summary",
		"content":       richParagraph(text),
	}
}

func TestPanelSummary(t *testing.T) {
	tests := []struct {
		name   string
		panels map[string]interface{}
		want   string
	}{
		{
			name:   "no entry for document",
			panels: map[string]interface{}{},
			want:   "",
		},
		{
			name: "summary panel by slug",
			panels: map[string]interface{}{
				"doc-1": map[string]interface{}{
					"p1": summaryPanel("the gist"),
				},
			},
			want: "the gist",
		},
		{
			name: "summary panel by title only",
			panels: map[string]interface{}{
				"doc-1": map[string]interface{}{
					"p1": map[string]interface{}{
						"template_slug": "notes",
						"title":         "AI Summary",
						"content":       richParagraph("titled"),
					},
				},
			},
			want: "titled",
		},
		{
			name: "non-summary panels skipped",
			panels: map[string]interface{}{
				"doc-1": map[string]interface{}{
					"p1": map[string]interface{}{
						"template_slug": "action-items",
						"content":       richParagraph("do things"),
					},
				},
			},
			want: "",
		},
		{
			name: "first matching panel in sorted id order wins",
			panels: map[string]interface{}{
				"doc-1": map[string]interface{}{
					"b": summaryPanel("second"),
					"a": summaryPanel("first"),
				},
			},
			want: "first",
		},
		{
			name: "empty summary panel falls through to the next",
			panels: map[string]interface{}{
				"doc-1": map[string]interface{}{
					"a": summaryPanel("   "),
					"b": summaryPanel("real"),
				},
			},
			want: "real",
		},
		{
			name: "content must be a mapping",
			panels: map[string]interface{}{
				"doc-1": map[string]interface{}{
					"a": map[string]interface{}{
						"template_slug": "summary",
						"content":       "not a tree",
					},
				},
			},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PanelSummary("doc-1", tc.panels); got != tc.want {
				t.Fatalf("PanelSummary() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveNotesPriority(t *testing.T) {
	panels := map[string]interface{}{
		"doc-1": map[string]interface{}{"p1": summaryPanel("panel text")},
	}

	tests := []struct {
		name string
		doc  map[string]interface{}
		want string
	}{
		{
			name: "manual markdown and panel combine with separator",
			doc:  map[string]interface{}{"notes_markdown": "manual"},
			want: "manual\n\n---\n\n## AI-Generated Summary\npanel text",
		},
		{
			name: "markdown beats plain",
			doc:  map[string]interface{}{"notes_markdown": "md", "notes_plain": "plain"},
			want: "md\n\n---\n\n## AI-Generated Summary\npanel text",
		},
		{
			name: "whitespace markdown falls back to plain",
			doc:  map[string]interface{}{"notes_markdown": "   ", "notes_plain": "plain"},
			want: "plain\n\n---\n\n## AI-Generated Summary\npanel text",
		},
		{
			name: "panel alone",
			doc:  map[string]interface{}{},
			want: "panel text",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveNotes(tc.doc, "doc-1", panels); got != tc.want {
				t.Fatalf("ResolveNotes() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveNotesFallbacks(t *testing.T) {
	noPanels := map[string]interface{}{}

	t.Run("manual only", func(t *testing.T) {
		doc := map[string]interface{}{"notes_markdown": " manual \n"}
		if got := ResolveNotes(doc, "doc-1", noPanels); got != "manual" {
			t.Fatalf("ResolveNotes() = %q", got)
		}
	})

	t.Run("structural notes tree", func(t *testing.T) {
		doc := map[string]interface{}{"notes": richParagraph("from tree")}
		got := ResolveNotes(doc, "doc-1", noPanels)
		if strings.TrimSpace(got) != "from tree" {
			t.Fatalf("ResolveNotes() = %q", got)
		}
	})

	t.Run("whitespace-only notes tree cascades to summary", func(t *testing.T) {
		doc := map[string]interface{}{
			"notes":   richParagraph("   "),
			"summary": map[string]interface{}{"text": " summarized "},
		}
		if got := ResolveNotes(doc, "doc-1", noPanels); got != "summarized" {
			t.Fatalf("ResolveNotes() = %q", got)
		}
	})

	t.Run("summary string form", func(t *testing.T) {
		doc := map[string]interface{}{"summary": " plain summary "}
		if got := ResolveNotes(doc, "doc-1", noPanels); got != "plain summary" {
			t.Fatalf("ResolveNotes() = %q", got)
		}
	})

	t.Run("nothing resolves to empty", func(t *testing.T) {
		if got := ResolveNotes(map[string]interface{}{}, "doc-1", noPanels); got != "" {
			t.Fatalf("ResolveNotes() = %q", got)
		}
	})
}
