// Package richtext flattens the note-taking app's rich-text node trees to
// plain text.
//
// A node is either a mapping (may carry "text", a "marks" sequence whose
// entries may carry "attrs.text", and a "content" sequence of child nodes)
// or a sequence of nodes. Anything else is ignored. The shapes come from
// JSON unmarshaling, so mappings are map[string]interface{} and sequences
// are []interface{}.
package richtext

import (
	"regexp"
	"strconv"
	"strings"
)

// Traversal bounds. The tree comes from an external application's cache and
// its depth is not guaranteed by anything, so the walk refuses to follow
// pathological nesting instead of growing without limit.
const (
	maxDepth = 200
	maxNodes = 250000
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Extract returns the concatenation of all text values and mark-attribute
// text values in the tree, depth-first in document order, joined by single
// spaces, with whitespace runs collapsed and the result trimmed.
func Extract(node interface{}) string {
	joined := strings.Join(collect(node), " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(joined, " "))
}

// ExtractRaw is Extract without whitespace collapsing or trimming: the
// collected parts are joined by single spaces and returned as-is. Used by
// the structural notes fallback, which preserves raw spacing.
func ExtractRaw(node interface{}) string {
	return strings.Join(collect(node), " ")
}

// collect walks the tree iteratively with an explicit stack. A node's own
// text contributes before its mark texts, and mark texts before its content
// children.
func collect(root interface{}) []string {
	if root == nil {
		return nil
	}

	type frame struct {
		node  interface{}
		depth int
	}

	var parts []string
	stack := []frame{{node: root}}
	visited := 0

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > maxDepth {
			continue
		}
		visited++
		if visited > maxNodes {
			break
		}

		switch n := f.node.(type) {
		case map[string]interface{}:
			if v, ok := n["text"]; ok {
				if t, ok := scalarText(v); ok {
					parts = append(parts, t)
				}
			}
			if marks, ok := n["marks"].([]interface{}); ok {
				for _, m := range marks {
					mark, ok := m.(map[string]interface{})
					if !ok {
						continue
					}
					attrs, ok := mark["attrs"].(map[string]interface{})
					if !ok {
						continue
					}
					if v, ok := attrs["text"]; ok {
						if t, ok := scalarText(v); ok {
							parts = append(parts, t)
						}
					}
				}
			}
			if content, ok := n["content"].([]interface{}); ok {
				for i := len(content) - 1; i >= 0; i-- {
					stack = append(stack, frame{node: content[i], depth: f.depth + 1})
				}
			}
		case []interface{}:
			for i := len(n) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: n[i], depth: f.depth + 1})
			}
		}
	}

	return parts
}

// scalarText renders a JSON scalar as text. Mappings, sequences, and nulls
// carry no text of their own.
func scalarText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}
