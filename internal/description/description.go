// internal/description/description.go
package description

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLength bounds every description handed to callers.
const MaxLength = 200

const (
	minMetadataLength  = 20
	minCandidateLength = 20
	minLeadLength      = 30
	minSentenceLength  = 10
	readmeRichness     = 1.5
)

var (
	headingPrefix    = regexp.MustCompile(`^\s*#+\s*`)
	headingAnywhere  = regexp.MustCompile(`#+\s*`)
	quotePrefix      = regexp.MustCompile(`^\s*>\s*`)
	imagePattern     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	emptyLinkPattern = regexp.MustCompile(`\[\s*\]\([^)]*\)`)
	linkPattern      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	codePattern      = regexp.MustCompile("`([^`]+)`")
	boldPattern      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderscore   = regexp.MustCompile(`__([^_]+)__`)
	italicPattern    = regexp.MustCompile(`\*([^*]+)\*`)
	orderedItem      = regexp.MustCompile(`^[0-9]+\.\s`)
	setextUnderline  = regexp.MustCompile(`^(=+|-+)$`)
)

var skipKeywords = []string{"license", "installation", "usage", "getting started", "table of contents"}

var boilerplateMarkers = []string{"no description", "add description"}

// Extract derives the display description of a repository from its metadata
// description and README text.
func Extract(metadata, readme, language, owner string) string {
	return Choose(metadata, FromReadme(readme), language, owner)
}

// Choose picks between the metadata description and a README candidate, falling
// back to a synthesized sentence when neither is usable.
func Choose(metadata, readmeCandidate, language, owner string) string {
	metadata = strings.TrimSpace(metadata)
	readmeCandidate = strings.TrimSpace(readmeCandidate)

	chosen := metadata
	if readmeCandidate != "" && preferReadme(metadata, readmeCandidate) {
		chosen = readmeCandidate
	}
	if chosen == "" || (chosen == metadata && hasBoilerplate(metadata)) {
		chosen = Fallback(language, owner)
	}
	return Format(chosen, MaxLength)
}

func preferReadme(metadata, readme string) bool {
	metaLen := runeLen(metadata)
	if metaLen < minMetadataLength || hasBoilerplate(metadata) {
		return true
	}
	return float64(runeLen(readme)) > readmeRichness*float64(metaLen)
}

func hasBoilerplate(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Fallback synthesizes a description when nothing usable was found.
func Fallback(language, owner string) string {
	if language == "" {
		language = "software"
	}
	if owner == "" {
		return fmt.Sprintf("A %s project", language)
	}
	return fmt.Sprintf("A %s project by %s", language, owner)
}

// FromReadme returns the first descriptive paragraph line of a README, cleaned
// and cut at its first sentence, or "" when the README has nothing usable.
func FromReadme(readme string) string {
	lines := nonBlankLines(readme)
	if len(lines) == 0 {
		return ""
	}

	inFence := false
	for i, line := range lines {
		if isFence(line) {
			inFence = !inFence
			continue
		}
		if inFence || skipLine(line) || isSetextTitle(lines, i) {
			continue
		}
		if runeLen(line) <= minCandidateLength {
			continue
		}

		candidate := line
		if !endsWithTerminal(candidate) && i+1 < len(lines) {
			next := lines[i+1]
			if !isFence(next) && !skipLine(next) && !isSetextTitle(lines, i+1) {
				candidate += " " + next
			}
		}
		return truncateSentence(Clean(candidate))
	}

	return leadLines(lines)
}

// leadLines joins the first few prose lines when no paragraph qualified.
func leadLines(lines []string) string {
	var lead []string
	inFence := false
	for _, line := range lines {
		if len(lead) == 3 {
			break
		}
		if isFence(line) {
			inFence = !inFence
			continue
		}
		if inFence || strings.HasPrefix(line, "<") {
			continue
		}
		lead = append(lead, line)
	}

	joined := strings.Join(lead, " ")
	if runeLen(joined) <= minLeadLength {
		return ""
	}
	cleaned := Clean(headingAnywhere.ReplaceAllString(joined, ""))
	if runeLen(cleaned) <= minLeadLength {
		return ""
	}
	return hardTruncate(cleaned, MaxLength)
}

func nonBlankLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}

func isSetextTitle(lines []string, i int) bool {
	return i+1 < len(lines) && setextUnderline.MatchString(lines[i+1])
}

func skipLine(line string) bool {
	switch {
	case strings.HasPrefix(line, "#"),
		strings.HasPrefix(line, "[!["),
		strings.HasPrefix(line, "!["),
		strings.HasPrefix(line, "- "),
		strings.HasPrefix(line, "* "),
		strings.HasPrefix(line, "+ "),
		strings.HasPrefix(line, ">"),
		strings.HasPrefix(line, "<"),
		strings.HasPrefix(line, "|"),
		setextUnderline.MatchString(line),
		orderedItem.MatchString(line):
		return true
	}

	lower := strings.ToLower(line)
	for _, kw := range skipKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func endsWithTerminal(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == '.' || r == '!' || r == '?'
}

// Clean strips markdown decoration: heading and quote markers, images, links,
// inline code, bold and italic.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = headingPrefix.ReplaceAllString(s, "")
	s = quotePrefix.ReplaceAllString(s, "")
	s = imagePattern.ReplaceAllString(s, "")
	s = emptyLinkPattern.ReplaceAllString(s, "")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = codePattern.ReplaceAllString(s, "$1")
	s = boldPattern.ReplaceAllString(s, "$1")
	s = boldUnderscore.ReplaceAllString(s, "$1")
	s = italicPattern.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}

// sentenceEnd returns the byte offset just past the first sentence terminator
// that is followed by whitespace or the end of s, or -1.
func sentenceEnd(s string) int {
	for i, r := range s {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next == len(s) {
			return next
		}
		if nr, _ := utf8.DecodeRuneInString(s[next:]); unicode.IsSpace(nr) {
			return next
		}
	}
	return -1
}

func truncateSentence(s string) string {
	if end := sentenceEnd(s); end > 0 {
		if first := strings.TrimSpace(s[:end]); runeLen(first) > minSentenceLength {
			return first
		}
	}
	return hardTruncate(s, MaxLength)
}

func hardTruncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

func splitSentences(s string) []string {
	var out []string
	for s != "" {
		end := sentenceEnd(s)
		if end < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:end])
		s = s[end:]
	}
	return out
}

// Format cleans s and bounds it to max runes, keeping whole sentences where
// possible and ending in "..." when it has to cut mid-sentence.
func Format(s string, max int) string {
	cleaned := Clean(s)
	if runeLen(cleaned) <= max {
		return cleaned
	}

	var b strings.Builder
	for _, sentence := range splitSentences(cleaned) {
		if runeLen(strings.TrimSpace(b.String()+sentence)) > max {
			break
		}
		b.WriteString(sentence)
	}
	if result := strings.TrimSpace(b.String()); result != "" {
		return result
	}
	return hardTruncate(cleaned, max-3)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
