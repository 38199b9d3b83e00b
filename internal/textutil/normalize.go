package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// punctuationRun matches the punctuation the trainer cannot model.
var punctuationRun = regexp.MustCompile(`[,.?!]+`)

// Lower lowercases text using Unicode case mapping rather than ASCII folding,
// so accented prompts ("AMANHÃ") map the same way the corpus authors expect.
func Lower(text string) string {
	return cases.Lower(language.Und).String(text)
}

// CollapsePunctuation replaces every run of ",.?!" with a single space and
// squeezes the resulting whitespace. Leading and trailing blanks are removed.
func CollapsePunctuation(text string) string {
	replaced := punctuationRun.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(replaced), " ")
}

// NormalizeTranscript lowercases text and collapses punctuation.
func NormalizeTranscript(text string) string {
	return CollapsePunctuation(Lower(text))
}
