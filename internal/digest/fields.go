package digest

import (
	"strconv"
	"strings"
	"time"
)

// stringField reads a document field as text. Fields in the cache are not
// validated by anything upstream, so a numeric id is rendered rather than
// dropped; mappings, sequences, and nulls read as empty.
func stringField(doc map[string]interface{}, key string) string {
	return scalarString(doc[key])
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// timestampLayouts covers the formats observed in cache snapshots. Layouts
// without a zone are interpreted as UTC.
var timestampLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02", false},
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timestampLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, s); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
