package digest

import "strings"

// transcript segment fields, in lookup priority order
var segmentTextKeys = []string{"text", "content", "transcript"}

// NormalizeTranscript flattens a transcript value of unknown shape to text.
// The cache stores transcripts as a sequence of segments, a bare string, or
// a single mapping; anything else reads as empty. Malformed segments
// contribute nothing — no shape ever produces an error.
func NormalizeTranscript(value interface{}) string {
	switch v := value.(type) {
	case []interface{}:
		var parts []string
		for _, seg := range v {
			switch s := seg.(type) {
			case map[string]interface{}:
				if t := segmentText(s); t != "" {
					parts = append(parts, t)
				}
			case string:
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case string:
		return v
	case map[string]interface{}:
		return scalarString(v["text"])
	}
	return ""
}

// segmentText returns the first non-empty of a segment's candidate fields.
// An empty "text" falls through to "content" and then "transcript".
func segmentText(seg map[string]interface{}) string {
	for _, key := range segmentTextKeys {
		if t := scalarString(seg[key]); t != "" {
			return t
		}
	}
	return ""
}
