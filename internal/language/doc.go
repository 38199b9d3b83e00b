// Package language normalizes the free-text language fields found in speaker
// metadata ("EN", "english", "pt_BR", "ger") to BCP 47 tags and display names.
package language
