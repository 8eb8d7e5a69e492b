package digest

import "testing"

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{
			name: "mixed segment shapes join in order",
			value: []interface{}{
				map[string]interface{}{"text": "a"},
				"b",
				map[string]interface{}{"content": "c"},
			},
			want: "a b c",
		},
		{
			name: "empty text falls through to content",
			value: []interface{}{
				map[string]interface{}{"text": "", "content": "fallback"},
			},
			want: "fallback",
		},
		{
			name: "transcript key is the last candidate",
			value: []interface{}{
				map[string]interface{}{"text": "", "content": "", "transcript": "deep"},
			},
			want: "deep",
		},
		{
			name:  "string segments keep their spacing",
			value: []interface{}{"  padded  ", "next"},
			want:  "  padded   next",
		},
		{
			name:  "bare string verbatim",
			value: "  already text  ",
			want:  "  already text  ",
		},
		{
			name:  "single mapping reads text",
			value: map[string]interface{}{"text": "solo"},
			want:  "solo",
		},
		{
			name:  "mapping without text is empty",
			value: map[string]interface{}{"content": "ignored"},
			want:  "",
		},
		{
			name:  "numeric segment text renders",
			value: []interface{}{map[string]interface{}{"text": float64(3)}},
			want:  "3",
		},
		{
			name: "malformed segments contribute nothing",
			value: []interface{}{
				float64(1),
				nil,
				map[string]interface{}{"speaker": "kate"},
				map[string]interface{}{"text": "kept"},
			},
			want: "kept",
		},
		{
			name:  "nil is empty",
			value: nil,
			want:  "",
		},
		{
			name:  "number is empty",
			value: float64(12),
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTranscript(tc.value); got != tc.want {
				t.Fatalf("NormalizeTranscript() = %q, want %q", got, tc.want)
			}
		})
	}
}
