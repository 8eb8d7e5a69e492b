package digest

import (
	"sort"
	"strings"

	"granolad/internal/richtext"
)

// aiSectionSeparator joins manual notes and AI panel content. Downstream
// automations parse this exact layout; do not reformat it.
const aiSectionSeparator = "\n\n---\n\n## AI-Generated Summary\n"

// PanelSummary returns the text of the first panel for docID recognizable
// as an AI-generated summary: its template_slug or title contains
// "summary" (case-insensitive) and its content tree flattens to something
// non-empty. First match wins — the resolver treats empty as absent, so
// this must not keep scanning for a "better" panel. Panels are visited in
// sorted id order to keep resolution deterministic.
func PanelSummary(docID string, panels map[string]interface{}) string {
	entry, ok := panels[docID].(map[string]interface{})
	if !ok {
		return ""
	}

	ids := make([]string, 0, len(entry))
	for id := range entry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		panel, ok := entry[id].(map[string]interface{})
		if !ok {
			continue
		}
		slug := strings.ToLower(stringField(panel, "template_slug"))
		title := strings.ToLower(stringField(panel, "title"))
		if !strings.Contains(slug, "summary") && !strings.Contains(title, "summary") {
			continue
		}
		content, ok := panel["content"].(map[string]interface{})
		if !ok {
			continue
		}
		if text := richtext.Extract(content); text != "" {
			return text
		}
	}
	return ""
}

// ResolveNotes produces one "enhanced notes" string for a document.
// Priority: manual notes (notes_markdown, then notes_plain), AI panel
// content, both combined when both exist, then the structural notes tree,
// then the summary field. Absence cascades silently; this never fails.
func ResolveNotes(doc map[string]interface{}, docID string, panels map[string]interface{}) string {
	manual := manualNotes(doc)
	ai := PanelSummary(docID, panels)

	switch {
	case manual != "" && ai != "":
		return manual + aiSectionSeparator + ai
	case manual != "":
		return manual
	case ai != "":
		return ai
	}

	// Structural fallback: flatten the raw notes tree. Unlike the panel
	// path this keeps the raw joined spacing.
	if notes, ok := doc["notes"].(map[string]interface{}); ok {
		if raw := richtext.ExtractRaw(notes); strings.TrimSpace(raw) != "" {
			return raw
		}
	}

	switch s := doc["summary"].(type) {
	case map[string]interface{}:
		if t, ok := s["text"].(string); ok {
			if v := strings.TrimSpace(t); v != "" {
				return v
			}
		}
	case string:
		if v := strings.TrimSpace(s); v != "" {
			return v
		}
	}

	return ""
}

func manualNotes(doc map[string]interface{}) string {
	if v, ok := doc["notes_markdown"].(string); ok {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	if v, ok := doc["notes_plain"].(string); ok {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
