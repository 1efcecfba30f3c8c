package crew

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugHyphenRe   = regexp.MustCompile(`[\s_-]+`)
	scriptTagRe    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	iframeTagRe    = regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)
	eventHandlerRe = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*["'][^"']*["']`)
	urlRe          = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
)

// Slug generates a URL-friendly slug from a title.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugHyphenRe.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// readingTimeWPM is the average reading speed used for the estimate.
const readingTimeWPM = 200

// ReadingTime estimates how long the text takes to read, formatted like
// "1 min" or "8 mins".
func ReadingTime(text string) string {
	words := CountWords(text)
	minutes := (words + readingTimeWPM/2) / readingTimeWPM
	if minutes < 1 {
		minutes = 1
	}
	if minutes == 1 {
		return "1 min"
	}

	return fmt.Sprintf("%d mins", minutes)
}

// CountWords counts whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ExtractURLs returns all http(s) URLs found in text, in order of appearance.
// Trailing sentence punctuation and closing brackets picked up by the pattern
// (markdown links, parenthesized citations) are stripped so the URLs stay
// clickable.
func ExtractURLs(text string) []string {
	matches := urlRe.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.TrimRight(m, `).,;:!?'"`)
	}

	return matches
}

// SanitizeHTML removes script and iframe tags and inline event handlers from
// the generated HTML body.
func SanitizeHTML(html string) string {
	html = scriptTagRe.ReplaceAllString(html, "")
	html = iframeTagRe.ReplaceAllString(html, "")
	html = eventHandlerRe.ReplaceAllString(html, "")

	return html
}

// Truncate shortens text to at most maxLength bytes, appending the suffix
// when truncation happens. It prefers breaking at a word boundary unless doing
// so would drop too much of the text, and never splits a multi-byte rune.
func Truncate(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}

	cut := maxLength - len(suffix)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	truncated := text[:cut]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > maxLength*8/10 {
		truncated = truncated[:lastSpace]
	}

	return truncated + suffix
}
