package digest

import "strings"

// Patterns holds the title markers and participant threshold the classifier
// consults. Lists are matched as case-insensitive substrings of the title.
type Patterns struct {
	Team            []string
	Client          []string
	Personal        []string
	MaxParticipants int
}

// DefaultPatterns returns the built-in marker lists. Deployments with
// company-specific client markers extend these through the rules file.
func DefaultPatterns() Patterns {
	return Patterns{
		Team: []string{
			"daily standup", "standup", "sprint", "retrospective", "planning",
			"all hands", "team meeting", "scrum", "demo", "review meeting",
		},
		Client: []string{
			"<>", "demo call", "intro call", "discovery call",
		},
		Personal: []string{
			"1:1", "one-on-one", "personal", "career", "feedback",
			"check-in", "catch up", "sync",
		},
		MaxParticipants: 4,
	}
}

type rule struct {
	name  string
	owned bool
	match func(doc map[string]interface{}) bool
}

// Classifier decides whether a document belongs to the target user. The
// heuristics are an ordered chain: the first rule whose precondition holds
// wins and later rules are never consulted.
type Classifier struct {
	identity Identity
	patterns Patterns
	rules    []rule
}

// NewClassifier builds a classifier for one identity. The personal marker
// list is extended with name-qualified forms ("/ kate", "kate /") derived
// from the identity's first name.
func NewClassifier(identity Identity, patterns Patterns) *Classifier {
	if patterns.MaxParticipants <= 0 {
		patterns.MaxParticipants = DefaultPatterns().MaxParticipants
	}
	patterns.Personal = withNameMarkers(patterns.Personal, identity.Name)

	c := &Classifier{identity: identity, patterns: patterns}
	c.rules = []rule{
		{
			name:  "user_id_match",
			owned: true,
			match: func(doc map[string]interface{}) bool {
				id := stringField(doc, "user_id")
				return id != "" && c.identity.UserID != "" && id == c.identity.UserID
			},
		},
		{
			// A populated user_id that did not match above belongs to
			// someone else (or no target id is configured at all).
			name:  "user_id_mismatch",
			owned: false,
			match: func(doc map[string]interface{}) bool {
				return stringField(doc, "user_id") != ""
			},
		},
		{
			// Workspace documents are team material.
			name:  "workspace",
			owned: false,
			match: func(doc map[string]interface{}) bool {
				return stringField(doc, "workspace_id") != ""
			},
		},
		{
			name:  "public",
			owned: false,
			match: func(doc map[string]interface{}) bool {
				pub, _ := doc["public"].(bool)
				return pub || stringField(doc, "visibility") == "public"
			},
		},
		{
			name:  "participants",
			owned: false,
			match: func(doc map[string]interface{}) bool {
				people, _ := doc["people"].([]interface{})
				return len(people) > c.patterns.MaxParticipants
			},
		},
		{
			name:  "team_title",
			owned: false,
			match: func(doc map[string]interface{}) bool {
				return titleContainsAny(doc, c.patterns.Team)
			},
		},
		{
			name:  "client_title",
			owned: false,
			match: func(doc map[string]interface{}) bool {
				return titleContainsAny(doc, c.patterns.Client)
			},
		},
		{
			name:  "personal_title",
			owned: true,
			match: func(doc map[string]interface{}) bool {
				return titleContainsAny(doc, c.patterns.Personal)
			},
		},
		{
			// No user_id and nothing conclusive above: exclude rather than
			// leak someone else's meeting into the digest.
			name:  "no_user_id",
			owned: false,
			match: func(doc map[string]interface{}) bool {
				return stringField(doc, "user_id") == ""
			},
		},
		{
			// Cannot fire while no_user_id precedes it (a populated user_id
			// already decided in the first two rules). Retained so the chain
			// is total over every input.
			name:  "default",
			owned: true,
			match: func(map[string]interface{}) bool { return true },
		},
	}
	return c
}

// Classify evaluates the rule chain and returns the verdict of the first
// matching rule. Exactly one rule always fires.
func (c *Classifier) Classify(doc map[string]interface{}) Decision {
	for _, r := range c.rules {
		if r.match(doc) {
			return Decision{Owned: r.owned, Rule: r.name}
		}
	}
	// Unreachable: the final rule matches everything.
	return Decision{Owned: false, Rule: "none"}
}

func titleContainsAny(doc map[string]interface{}, markers []string) bool {
	title := strings.ToLower(stringField(doc, "title"))
	if title == "" {
		return false
	}
	for _, m := range markers {
		if m != "" && strings.Contains(title, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func withNameMarkers(personal []string, name string) []string {
	out := make([]string, len(personal))
	copy(out, personal)
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(fields) == 0 {
		return out
	}
	first := fields[0]
	return append(out, "/ "+first, first+" /")
}
