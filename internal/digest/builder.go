package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Builder runs the full pipeline over one cache snapshot's worth of data.
// It holds no mutable state beyond the classifier and an injectable clock;
// every call operates only on the structures passed in, so a Builder is
// safe to discard after each snapshot.
type Builder struct {
	classifier *Classifier
	now        func() time.Time
}

func NewBuilder(classifier *Classifier) *Builder {
	return &Builder{classifier: classifier, now: time.Now}
}

// Build filters documents to the target user and the lookback window and
// assembles normalized records. Documents with a missing or unparseable
// created_at are skipped, never fatal; only ownership exclusions count
// toward FilteredDocuments. A document created exactly at the cutoff
// instant is excluded (strictly-after semantics). Records are ordered by
// creation time descending; equal instants order by id ascending.
func (b *Builder) Build(documents map[string]interface{}, transcripts, panels map[string]interface{}, daysBack int) *Digest {
	if daysBack <= 0 {
		daysBack = 7
	}
	cutoff := b.now().UTC().Add(-time.Duration(daysBack) * 24 * time.Hour)

	type entry struct {
		rec     DocumentContent
		created time.Time
	}
	var entries []entry
	filtered := 0

	for docID, raw := range documents {
		doc, ok := raw.(map[string]interface{})
		if !ok {
			filtered++
			continue
		}
		if !b.classifier.Classify(doc).Owned {
			filtered++
			continue
		}

		created, ok := parseTimestamp(stringField(doc, "created_at"))
		if !ok {
			continue
		}
		created = created.UTC()
		if !created.After(cutoff) {
			continue
		}

		entries = append(entries, entry{
			rec: DocumentContent{
				ID:            docID,
				Title:         documentTitle(doc),
				CreatedAt:     created.Format(time.RFC3339),
				EnhancedNotes: ResolveNotes(doc, docID, panels),
				Transcript:    NormalizeTranscript(transcripts[docID]),
				Duration:      durationSeconds(doc["duration"]),
				Participants:  participantNames(doc["people"]),
			},
			created: created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].created.Equal(entries[j].created) {
			return entries[i].created.After(entries[j].created)
		}
		return entries[i].rec.ID < entries[j].rec.ID
	})

	records := make([]DocumentContent, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.rec)
	}

	return &Digest{
		Period:            fmt.Sprintf("Last %d days", daysBack),
		CutoffDate:        cutoff.Format(time.RFC3339),
		TotalDocuments:    len(records),
		FilteredDocuments: filtered,
		Documents:         records,
	}
}

// Recent lists the most recently created owned documents without window
// filtering or content resolution. Same ownership rules, same ordering and
// tie-break as Build.
func (b *Builder) Recent(documents map[string]interface{}, limit int) []MeetingRef {
	if limit <= 0 {
		limit = 10
	}

	type entry struct {
		ref     MeetingRef
		created time.Time
	}
	var entries []entry

	for docID, raw := range documents {
		doc, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if !b.classifier.Classify(doc).Owned {
			continue
		}
		created, ok := parseTimestamp(stringField(doc, "created_at"))
		if !ok {
			continue
		}
		created = created.UTC()
		entries = append(entries, entry{
			ref: MeetingRef{
				ID:        docID,
				Title:     stringField(doc, "title"),
				StartTime: created.Format(time.RFC3339),
			},
			created: created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].created.Equal(entries[j].created) {
			return entries[i].created.After(entries[j].created)
		}
		return entries[i].ref.ID < entries[j].ref.ID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	refs := make([]MeetingRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.ref)
	}
	return refs
}

func documentTitle(doc map[string]interface{}) string {
	if t := stringField(doc, "title"); t != "" {
		return t
	}
	return "Untitled"
}

// durationSeconds coerces a duration value to a non-negative integer number
// of seconds; anything non-numeric reads as 0.
func durationSeconds(v interface{}) int {
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

// participantNames coerces a people value to a list of non-empty strings.
// Non-sequence values and empty entries are dropped.
func participantNames(v interface{}) []string {
	people, ok := v.([]interface{})
	names := make([]string, 0, len(people))
	if !ok {
		return names
	}
	for _, p := range people {
		if name := strings.TrimSpace(scalarString(p)); name != "" {
			names = append(names, name)
		}
	}
	return names
}
