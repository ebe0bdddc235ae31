// Package diagnosis checks uploaded document names against the expected
// document catalogue of a reference standard and reports completeness.
package diagnosis

import (
	"math"
	"strings"
	"unicode"
)

// normalizeName strips whitespace, hyphens and underscores and lowercases
// the rest, so "质量手册 V2" and "质量手册-v2" normalize identically.
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// keywordThreshold is the fraction of an expected document's keywords that
// must appear in an uploaded name for a keyword match.
const keywordThreshold = 0.6

// matchResult reports whether an uploaded name satisfies an expected
// document and with what confidence.
type matchResult struct {
	matched    bool
	confidence float64
}

// matchDocument compares one expected document name against one uploaded
// name. An uploaded name that contains the whole expected name is a strong
// match; otherwise the expected name is split into keywords and a sufficient
// keyword overlap counts as a weaker match with proportional confidence.
// Containment is one-directional: an uploaded name that is only a fragment
// of the expected name does not satisfy it.
func matchDocument(expected string, uploaded string) matchResult {
	normExpected := normalizeName(expected)
	normUploaded := normalizeName(uploaded)
	if normExpected == "" || normUploaded == "" {
		return matchResult{}
	}

	if strings.Contains(normUploaded, normExpected) {
		return matchResult{matched: true, confidence: 0.9}
	}

	keywords := splitKeywords(expected)
	if len(keywords) == 0 {
		return matchResult{}
	}
	matchCount := 0
	for _, kw := range keywords {
		if strings.Contains(normUploaded, normalizeName(kw)) {
			matchCount++
		}
	}
	needed := int(math.Ceil(float64(len(keywords)) * keywordThreshold))
	if matchCount >= needed {
		return matchResult{
			matched:    true,
			confidence: float64(matchCount) / float64(len(keywords)),
		}
	}
	return matchResult{}
}

// splitKeywords breaks an expected document name into matchable fragments.
// Latin script splits on spaces and separators; CJK text splits into
// two-rune chunks, which track the typical length of Chinese terms.
func splitKeywords(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '/'
	})

	keywords := make([]string, 0, len(fields))
	for _, field := range fields {
		runes := []rune(field)
		if !containsCJK(runes) {
			keywords = append(keywords, field)
			continue
		}
		for i := 0; i < len(runes); i += 2 {
			end := i + 2
			if end > len(runes) {
				end = len(runes)
			}
			keywords = append(keywords, string(runes[i:end]))
		}
	}
	return keywords
}

func containsCJK(runes []rune) bool {
	for _, r := range runes {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
