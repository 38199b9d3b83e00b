package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// known seeds the word-form lookup. Display names come from CLDR.
var known = []language.Tag{
	language.English, language.Spanish, language.French, language.German,
	language.Italian, language.Portuguese, language.Japanese, language.Korean,
	language.Chinese, language.Russian, language.Arabic, language.Hindi,
	language.Dutch, language.Polish, language.Swedish, language.Danish,
	language.Norwegian, language.Finnish,
}

// ISO 639-2/B codes that BCP 47 parsing does not accept.
var bibliographic = map[string]language.Tag{
	"fre": language.French,
	"ger": language.German,
	"chi": language.Chinese,
	"dut": language.Dutch,
}

var byWord map[string]language.Tag

func init() {
	namer := display.English.Languages()
	byWord = make(map[string]language.Tag, len(known))
	for _, tag := range known {
		byWord[strings.ToLower(namer.Name(tag))] = tag
	}
}

// Normalize maps value to a tag. ok is false for empty or unrecognized input.
func Normalize(value string) (language.Tag, bool) {
	value = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(value, "\u0000", "")))
	if value == "" {
		return language.Und, false
	}
	if tag, ok := byWord[value]; ok {
		return tag, true
	}
	// "english (us)" and similar free text: try the first word.
	if word, _, found := strings.Cut(value, " "); found {
		if tag, ok := byWord[word]; ok {
			return tag, true
		}
	}
	if tag, ok := bibliographic[value]; ok {
		return tag, true
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

// Code returns the canonical BCP 47 form of value, or "" when unknown.
func Code(value string) string {
	tag, ok := Normalize(value)
	if !ok {
		return ""
	}
	return tag.String()
}

// DisplayName returns the English name of value. Unrecognized input is
// returned trimmed; empty input yields "Unknown".
func DisplayName(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "Unknown"
	}
	tag, ok := Normalize(trimmed)
	if !ok {
		return trimmed
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return trimmed
}
