package speaker

import (
	"fmt"
	"regexp"
	"strings"

	"setupam/internal/faults"
	"setupam/internal/language"
	"setupam/internal/textenc"
)

// Metadata field names produced by DefaultMetadataPattern.
const (
	FieldUserName = "USERNAME"
	FieldGender   = "GENDER"
	FieldAge      = "AGE"
	FieldLanguage = "LANGUAGE"
	FieldDialect  = "DIALECT"
)

// DefaultMetadataPattern recognizes the VoxForge README layout. Each
// alternative captures the rest of its line into a named group.
var DefaultMetadataPattern = regexp.MustCompile(`(?m)` + strings.Join([]string{
	`User Name:(?P<` + FieldUserName + `>.*)$`,
	`Gender:(?P<` + FieldGender + `>.*)$`,
	`Age Range:(?P<` + FieldAge + `>.*)$`,
	`Language:(?P<` + FieldLanguage + `>.*)$`,
	`Pronunciation dialect:(?P<` + FieldDialect + `>.*)$`,
}, "|"))

// Metadata maps field names to trimmed values. Missing fields are absent.
type Metadata map[string]string

// LoadMetadata applies pattern to the whole content of path. Every named group
// that participates in a match contributes one entry; later matches overwrite
// earlier ones. A nil pattern uses DefaultMetadataPattern.
func LoadMetadata(path string, pattern *regexp.Regexp) (Metadata, error) {
	if strings.TrimSpace(path) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "metadata", "load", "", fmt.Errorf("missing file path"))
	}
	if pattern == nil {
		pattern = DefaultMetadataPattern
	}
	text, _, err := textenc.ReadFile(path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "metadata", "read info file", path, err)
	}
	return extractMetadata(text, pattern), nil
}

func extractMetadata(text string, pattern *regexp.Regexp) Metadata {
	names := pattern.SubexpNames()
	data := make(Metadata)
	for _, match := range pattern.FindAllStringSubmatchIndex(text, -1) {
		for group, name := range names {
			if name == "" {
				continue
			}
			start, end := match[2*group], match[2*group+1]
			if start < 0 {
				continue
			}
			data[name] = strings.TrimSpace(text[start:end])
		}
	}
	return data
}

// LanguageCode is the BCP 47 form of the LANGUAGE field, or "" when the
// field is missing or unrecognized.
func (m Metadata) LanguageCode() string {
	return language.Code(m[FieldLanguage])
}
