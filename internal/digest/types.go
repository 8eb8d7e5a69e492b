package digest

// Identity is the resolved target user the pipeline filters for. It is an
// immutable value threaded into the classifier at construction, never
// ambient state.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Decision is the outcome of classifying a single document, together with
// the name of the rule that produced it (for diagnostics).
type Decision struct {
	Owned bool   `json:"owned"`
	Rule  string `json:"rule"`
}

// MeetingRef is the lightweight discovery record: one owned document with a
// parseable timestamp.
type MeetingRef struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
}

// DocumentContent is the fully normalized record for one owned document
// inside the digest window. All string fields are always present and
// participants entries are always non-empty strings.
type DocumentContent struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	CreatedAt     string   `json:"created_at"`
	EnhancedNotes string   `json:"enhanced_notes"`
	Transcript    string   `json:"transcript"`
	Duration      int      `json:"duration"`
	Participants  []string `json:"participants"`
}

// Digest is the envelope returned by Builder.Build.
type Digest struct {
	Period            string            `json:"period"`
	CutoffDate        string            `json:"cutoff_date"`
	TotalDocuments    int               `json:"total_documents"`
	FilteredDocuments int               `json:"filtered_documents"`
	Documents         []DocumentContent `json:"documents"`
}
