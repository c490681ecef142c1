package generation

import (
	"fmt"
	"regexp"
	"strings"
)

// Fallback values used when the prompt carries no recognizable signal.
const (
	DefaultHotelName = "The Paradise Beach Resort"
	DefaultLocation  = "Paradise Island"
	DefaultTheme     = "Luxury"
)

// textPromptPrefix frames the cleaned prompt for the text backend.
const textPromptPrefix = "Create engaging travel content for: "

var (
	// knownLocations is the gazetteer of destination names recognized when
	// no "in"/"at" phrase identifies a location.
	knownLocations = []string{"Maldives", "Bali", "Hawaii", "Fiji", "Seychelles"}

	// themes are matched in order; the first hit wins.
	themes = []string{"Luxury", "Beach", "Resort", "Spa", "Wellness", "Adventure"}

	// visualKeywords introduce phrases describing something to depict.
	visualKeywords = []string{"showing", "featuring", "with", "including", "displaying"}

	// cleanupKeywords introduce image-directed phrases stripped from the
	// text prompt. Independent of visualKeywords: the two streams feed
	// different backends and may overlap.
	cleanupKeywords = []string{"show", "display", "include", "featuring"}
)

var (
	forWordRe      = regexp.MustCompile(`(?i)\bfor\b`)
	resortHotelRe  = regexp.MustCompile(`(?i)(resort|hotel)`)
	lineSplitRe    = regexp.MustCompile(`[\r\n]+`)
	visualRes      = make(map[string]*regexp.Regexp, len(visualKeywords))
	cleanupRes     = make(map[string]*regexp.Regexp, len(cleanupKeywords))
)

func init() {
	for _, kw := range visualKeywords {
		visualRes[kw] = regexp.MustCompile(kw + `\s+([^,.]+)`)
	}
	for _, kw := range cleanupKeywords {
		cleanupRes[kw] = regexp.MustCompile(`(?i)` + kw + `\s+[^,.]+`)
	}
}

// ProcessedPrompt is the ephemeral result of analyzing a generation prompt:
// one cleaned prompt for the text backend and an ordered list of visual
// sub-prompts for the image backend. Never empty: when no visual phrase is
// found the whole original prompt becomes the sole image prompt.
type ProcessedPrompt struct {
	TextPrompt   string
	ImagePrompts []string
}

// Analyze derives the structured prompts for the generation backends from a
// raw free-text prompt. Pure and deterministic.
func Analyze(prompt string) ProcessedPrompt {
	return ProcessedPrompt{
		TextPrompt:   cleanTextPrompt(prompt),
		ImagePrompts: extractVisualElements(prompt),
	}
}

// ExtractHotelName derives a hotel name from the prompt. Policy, first match
// wins:
//  1. text inside the first pair of double quotes, verbatim
//  2. the remainder of a line after the word "for", stripped of a leading
//     "the", cut at the first comma or resort/hotel keyword, title-cased and
//     prefixed with "The"
//  3. the text before a "resort"/"hotel" keyword, capitalized and suffixed
//     with "Resort"
//  4. DefaultHotelName
func ExtractHotelName(prompt string) string {
	if quoted, ok := firstQuoted(prompt); ok {
		return quoted
	}

	for _, rawLine := range lineSplitRe.Split(prompt, -1) {
		line := strings.ToLower(strings.TrimSpace(rawLine))

		if loc := forWordRe.FindStringIndex(line); loc != nil {
			afterFor := strings.TrimSpace(line[loc[1]:])
			afterFor = strings.TrimPrefix(afterFor, "the ")

			end := len(afterFor)
			if comma := strings.Index(afterFor, ","); comma > 0 {
				end = comma
			}
			if kw := resortHotelRe.FindStringIndex(afterFor); kw != nil && kw[0] < end {
				end = kw[0]
			}

			if name := strings.TrimSpace(afterFor[:end]); name != "" {
				return "The " + titleCase(name)
			}
		}

		if resortHotelRe.MatchString(line) {
			before := resortHotelRe.Split(line, 2)[0]
			name := strings.TrimSpace(before)
			name = strings.TrimPrefix(name, "the ")
			if name != "" {
				return fmt.Sprintf("The %s Resort", capitalize(name))
			}
		}
	}

	return DefaultHotelName
}

// ExtractLocation finds the destination mentioned in the prompt: the token
// following "in" or "at", a gazetteer hit, or DefaultLocation.
func ExtractLocation(prompt string) string {
	words := strings.Fields(prompt)
	for i := 0; i < len(words)-1; i++ {
		if strings.EqualFold(words[i], "in") || strings.EqualFold(words[i], "at") {
			location := strings.Trim(words[i+1], ".,")
			if location != "" {
				return location
			}
		}
	}

	for _, location := range knownLocations {
		if strings.Contains(prompt, location) {
			return location
		}
	}

	return DefaultLocation
}

// ExtractTheme matches the prompt against the fixed theme list,
// case-insensitively, first match wins. Falls back to DefaultTheme.
func ExtractTheme(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, theme := range themes {
		if strings.Contains(lower, strings.ToLower(theme)) {
			return theme
		}
	}
	return DefaultTheme
}

// extractVisualElements collects the distinct phrases introduced by a visual
// keyword, in keyword order. Guarantees at least one prompt: the original
// prompt itself when nothing matches.
func extractVisualElements(prompt string) []string {
	lower := strings.ToLower(prompt)

	var elements []string
	seen := make(map[string]bool)

	for _, kw := range visualKeywords {
		for _, match := range visualRes[kw].FindAllStringSubmatch(lower, -1) {
			element := strings.TrimSpace(match[1])
			if element != "" && !seen[element] {
				seen[element] = true
				elements = append(elements, element)
			}
		}
	}

	if len(elements) == 0 {
		elements = append(elements, prompt)
	}

	return elements
}

// cleanTextPrompt strips image-directed phrases from the prompt and frames
// what remains for the text backend.
func cleanTextPrompt(prompt string) string {
	cleaned := prompt
	for _, kw := range cleanupKeywords {
		cleaned = cleanupRes[kw].ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(textPromptPrefix + cleaned)
}

// firstQuoted returns the text between the first pair of double quotes.
func firstQuoted(s string) (string, bool) {
	start := strings.Index(s, `"`)
	if start < 0 {
		return "", false
	}
	end := strings.Index(s[start+1:], `"`)
	if end < 0 {
		return "", false
	}
	return s[start+1 : start+1+end], true
}

// titleCase upper-cases the first letter of each whitespace-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first byte of s, leaving the rest untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
