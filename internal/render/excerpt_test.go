package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		note  string
		limit int
		want  string
	}{
		{name: "empty", note: "", limit: 20, want: ""},
		{name: "strips emphasis", note: "Went **outside**.\nNice day.", limit: 140, want: "Went outside. Nice day."},
		{name: "joins blocks", note: "## Title\n\n- eggs\n- milk", limit: 140, want: "Title eggs milk"},
		{name: "link text only", note: "see [this](https://example.com)", limit: 140, want: "see this"},
		{name: "cut at word", note: "one two three four five", limit: 12, want: "one two…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.note, tt.limit); got != tt.want {
				t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.note, tt.limit, got, tt.want)
			}
		})
	}
}

func TestExcerpt_Limit(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := Excerpt(long, ExcerptLength)
	if n := utf8.RuneCountInString(got); n > ExcerptLength {
		t.Errorf("excerpt has %d runes, limit %d", n, ExcerptLength)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("cut excerpt should end with an ellipsis: %q", got)
	}
}

func TestYAML(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "plain string", in: "rad", want: "rad"},
		{name: "flow list", in: []string{"work", "long walk"}, want: "[work, long walk]"},
		{name: "empty list", in: []string{}, want: "[]"},
		{name: "number", in: int64(3), want: "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := YAML(tt.in)
			if err != nil {
				t.Fatalf("YAML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("YAML(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestYAML_QuotesAmbiguousStrings(t *testing.T) {
	for _, s := range []string{"yes", "12", "a: b", "- dash", "two\nlines", "#hash"} {
		got, err := YAML(s)
		if err != nil {
			t.Fatalf("YAML(%q) error = %v", s, err)
		}
		if strings.Contains(got, "\n") {
			t.Errorf("YAML(%q) = %q spans lines", s, got)
		}

		var back any
		if err := yaml.Unmarshal([]byte("v: "+got), &back); err != nil {
			t.Fatalf("YAML(%q) = %q does not parse: %v", s, got, err)
		}
		if v := back.(map[string]any)["v"]; v != s {
			t.Errorf("YAML(%q) = %q parses back as %#v", s, got, v)
		}
	}
}

func TestHashtags(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: []string{"work", "long walk"}, want: "#work #long-walk"},
		{in: []any{"a", "#b"}, want: "#a #b"},
		{in: "solo", want: "#solo"},
		{in: nil, want: ""},
		{in: []string{" ", ""}, want: ""},
	}
	for _, tt := range tests {
		if got := Hashtags(tt.in); got != tt.want {
			t.Errorf("Hashtags(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
