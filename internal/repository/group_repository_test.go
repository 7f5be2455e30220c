package repository

import "testing"

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"Plain term", "chess", `%chess%`},
		{"Underscore is literal", "a_b", `%a\_b%`},
		{"Percent is literal", "100%", `%100\%%`},
		{"Backslash is literal", `c:\club`, `%c:\\club%`},
		{"Empty term matches all", "", `%%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsPattern(tt.query); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
