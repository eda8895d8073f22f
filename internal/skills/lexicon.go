// Package skills is the reference vocabulary every heuristic in the engine
// scans against: resume skill extraction, posting skill tagging and the
// fallback scorer.
package skills

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxPostingSkills caps the skills attached to a single posting.
const MaxPostingSkills = 8

// lexicon order is significant: scans report matches in this order.
var lexicon = []string{
	"JavaScript", "React", "Node.js", "Python", "Java", "TypeScript",
	"AWS", "Docker", "SQL", "MongoDB", "Vue.js", "Angular", "Git",
	"HTML", "CSS", "Figma", "Machine Learning", "Express", "Next.js",
	"GraphQL", "REST API", "Kubernetes", "PostgreSQL", "Redis",
	"UI/UX", "Agile", "Scrum",
}

// DefaultResumeSkills is what a resume is credited with when nothing in the
// lexicon matches.
var DefaultResumeSkills = []string{"JavaScript", "React"}

// Lexicon returns a copy of the vocabulary in scan order.
func Lexicon() []string {
	out := make([]string, len(lexicon))
	copy(out, lexicon)
	return out
}

// Normalize lower-cases s and folds diacritics so "Pythön" and "python" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Mentions reports whether skill occurs as a substring of text. text must
// already be normalized.
func Mentions(normalizedText, skill string) bool {
	needle := Normalize(skill)
	if needle == "" {
		return false
	}
	return strings.Contains(normalizedText, needle)
}

// Scan returns every lexicon term mentioned in text, in lexicon order,
// with the lexicon's casing.
func Scan(text string) []string {
	return ScanLimit(text, 0)
}

// ScanLimit is Scan capped at limit results. A non-positive limit means no cap.
func ScanLimit(text string, limit int) []string {
	normalized := Normalize(text)
	found := make([]string, 0)
	if strings.TrimSpace(normalized) == "" {
		return found
	}

	for _, term := range lexicon {
		if !Mentions(normalized, term) {
			continue
		}
		found = append(found, term)
		if limit > 0 && len(found) == limit {
			break
		}
	}
	return found
}

// ForPosting extracts the skills tagged on a job posting from its description.
func ForPosting(description string) []string {
	return ScanLimit(description, MaxPostingSkills)
}

// Unique drops blanks and case-insensitive duplicates, keeping first occurrence order.
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := Normalize(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
