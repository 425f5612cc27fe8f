package markup

import "testing"

func TestPlain(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "A lighthouse keeper finds a map.", "A lighthouse keeper finds a map."},
		{"soft break joins lines", "line one\nline two", "line one line two"},
		{"paragraphs", "first\n\nsecond", "first\n\nsecond"},
		{"heading and emphasis", "# Awards\n\nWinner, *Best Film* and **Best Score**", "Awards\n\nWinner, Best Film and Best Score"},
		{"bullet list", "- Sundance\n- Berlinale", "- Sundance\n- Berlinale"},
		{"ordered list", "1. Setup\n2. Confrontation\n3. Resolution", "1. Setup\n2. Confrontation\n3. Resolution"},
		{"ordered list start", "3. third\n4. fourth", "3. third\n4. fourth"},
		{"nested list", "- Festivals\n  - Sundance", "- Festivals\n  - Sundance"},
		{"link", "See [the trailer](https://example.com/t).", "See the trailer (https://example.com/t)."},
		{"autolink", "<https://example.com>", "https://example.com"},
		{"code span", "Run `make kit` first", "Run make kit first"},
		{"fenced code", "```\nINT. LIGHTHOUSE - NIGHT\nRain.\n```", "INT. LIGHTHOUSE - NIGHT\nRain."},
		{"thematic break", "above\n\n---\n\nbelow", "above\n\nbelow"},
		{"blockquote", "> Luminous.\n\n- Variety", "Luminous.\n\n- Variety"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plain(tt.src); got != tt.want {
				t.Errorf("Plain(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}
