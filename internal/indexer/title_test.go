package indexer

import "testing"

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
		{
			name:    "first H1",
			content: "# Weekly Plan\n\nSome content.",
			want:    "Weekly Plan",
		},
		{
			name:    "H2 when no H1",
			content: "## Shopping List\n\nEggs, milk.",
			want:    "Shopping List",
		},
		{
			name:    "H1 wins over earlier H2",
			content: "## Sub\n\n# Main\n\nBody.",
			want:    "Main",
		},
		{
			name:    "no headings",
			content: "Plain text with no headings at all.",
			want:    "",
		},
		{
			name:    "inline formatting stripped",
			content: "# My **Bold** Title\n",
			want:    "My Bold Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTitle([]byte(tt.content))
			if got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
