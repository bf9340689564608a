package markdown

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single sentence",
			input: "Hello there.",
			want:  []string{"Hello there."},
		},
		{
			name:  "mixed punctuation",
			input: "Ready? Go! Done.",
			want:  []string{"Ready?", "Go!", "Done."},
		},
		{
			name:  "lower case continues",
			input: "Version 1. then more",
			want:  []string{"Version 1. then more"},
		},
		{
			name:  "decimal and ellipsis",
			input: "Pi is 3.14 roughly... Maybe. Yes.",
			want:  []string{"Pi is 3.14 roughly... Maybe.", "Yes."},
		},
		{
			name:  "titles keep the name",
			input: "Ask Dr. Smith. She knows.",
			want:  []string{"Ask Dr. Smith.", "She knows."},
		},
		{
			name:  "no split inside elements",
			input: `<emphasis level="strong">One. Two.</emphasis> Three.`,
			want:  []string{`<emphasis level="strong">One. Two.</emphasis> Three.`},
		},
		{
			name:  "sentence opening with an element",
			input: `First. <emphasis level="moderate">Second</emphasis> part.`,
			want:  []string{"First.", `<emphasis level="moderate">Second</emphasis> part.`},
		},
		{
			name:  "self closing tags do not nest",
			input: `Listen. <audio src="https://x/a.mp3"/> Then. More.`,
			want:  []string{"Listen.", `<audio src="https://x/a.mp3"/> Then.`, "More."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSentences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
