// internal/description/description_test.go
package description

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFromReadme(t *testing.T) {
	testCases := []struct {
		name   string
		readme string
		want   string
	}{
		{
			name:   "skips heading and badge",
			readme: "# Title\n\n![badge](x.svg)\n\nThis tool converts CSV files into charts. It supports many formats.",
			want:   "This tool converts CSV files into charts.",
		},
		{
			name:   "joins wrapped line without punctuation",
			readme: "# Demo\n\nA small service that exposes metrics\nfor every cluster node we run.\n\nMore text here.",
			want:   "A small service that exposes metrics for every cluster node we run.",
		},
		{
			name:   "ignores fenced code",
			readme: "# Demo\n\n```\nthis line is inside a code block and long\n```\n\nA real paragraph that describes the thing.",
			want:   "A real paragraph that describes the thing.",
		},
		{
			name:   "skips boilerplate sections",
			readme: "## Installation\n\nRun the installation script before anything else.\n\nDashboard for tracking personal finances.",
			want:   "Dashboard for tracking personal finances.",
		},
		{
			name:   "skips list items and quotes",
			readme: "- item one that is rather long indeed\n> a quoted line that is long enough\nPlain prose describing the repository well.",
			want:   "Plain prose describing the repository well.",
		},
		{
			name:   "cleans inline markdown",
			readme: "A **fast** [parser](https://x.dev) for `json` documents written in Go.",
			want:   "A fast parser for json documents written in Go.",
		},
		{
			name:   "empty readme",
			readme: "",
			want:   "",
		},
		{
			name:   "only short lines",
			readme: "# X\n\nshort\n",
			want:   "",
		},
		{
			name:   "setext title is not a paragraph",
			readme: "My Wonderful Project Title\n==========================\n\nCollects weather data from public stations.",
			want:   "Collects weather data from public stations.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromReadme(tc.readme))
		})
	}
}

func TestFromReadme_HardTruncatesWithoutSentence(t *testing.T) {
	long := strings.Repeat("word ", 80)
	got := FromReadme(long)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxLength+3)
}

func TestFromReadme_LeadLinesFallback(t *testing.T) {
	readme := "# Tiny tool\nshort one-liner\n## Next bit here"
	assert.Equal(t, "Tiny tool short one-liner Next bit here", FromReadme(readme))
}

func TestChoose(t *testing.T) {
	testCases := []struct {
		name     string
		metadata string
		readme   string
		language string
		owner    string
		want     string
	}{
		{
			name:     "short metadata loses to readme",
			metadata: "CSV tool",
			readme:   "This tool converts CSV files into charts.",
			want:     "This tool converts CSV files into charts.",
		},
		{
			name:     "adequate metadata wins",
			metadata: "Converts CSV files into charts quickly",
			readme:   "This tool converts CSV files into charts.",
			want:     "Converts CSV files into charts quickly",
		},
		{
			name:     "much richer readme wins",
			metadata: "Converts CSV into charts",
			readme:   "This tool converts CSV files into interactive charts with zoom, export and theming support.",
			want:     "This tool converts CSV files into interactive charts with zoom, export and theming support.",
		},
		{
			name:     "boilerplate metadata loses",
			metadata: "No description, website, or topics provided.",
			readme:   "A weather station.",
			want:     "A weather station.",
		},
		{
			name:     "nothing usable",
			language: "Go",
			owner:    "octo",
			want:     "A Go project by octo",
		},
		{
			name:  "no language",
			owner: "octo",
			want:  "A software project by octo",
		},
		{
			name:     "boilerplate metadata and no readme",
			metadata: "Add description here",
			language: "Rust",
			owner:    "octo",
			want:     "A Rust project by octo",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Choose(tc.metadata, tc.readme, tc.language, tc.owner))
		})
	}
}

func TestExtract(t *testing.T) {
	got := Extract("", "# Title\n\n![badge](x.svg)\n\nThis tool converts CSV files into charts. It supports many formats.", "Python", "octo")
	assert.Equal(t, "This tool converts CSV files into charts.", got)
}

func TestClean(t *testing.T) {
	testCases := map[string]string{
		"## Heading text":                 "Heading text",
		"> quoted":                        "quoted",
		"[![ci](b.svg)](ci) Build status": "Build status",
		"see [docs](https://d) now":       "see docs now",
		"__bold__ and *italic*":           "bold and italic",
		"  many   spaces  ":               "many spaces",
	}
	for in, want := range testCases {
		assert.Equal(t, want, Clean(in), in)
	}
}

func TestFormat(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "Short one.", Format("Short one.", 200))
	})

	t.Run("keeps whole sentences", func(t *testing.T) {
		first := strings.Repeat("a", 20) + "."
		second := " " + strings.Repeat("b", 20) + "."
		got := Format(first+second, 30)
		assert.Equal(t, first, got)
	})

	t.Run("hard cut when first sentence is too long", func(t *testing.T) {
		got := Format(strings.Repeat("x", 300), 200)
		assert.Equal(t, 200, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		got := Format(strings.Repeat("é", 250), 200)
		assert.Equal(t, 200, utf8.RuneCountInString(got))
	})

	t.Run("deterministic", func(t *testing.T) {
		in := "Some **markdown** with [links](x). And more text here!"
		assert.Equal(t, Format(in, 40), Format(in, 40))
	})
}
