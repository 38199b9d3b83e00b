package language

import "testing"

func TestCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{" es ", "es"},
		{"eng", "en"},
		{"deu", "de"},
		{"ger", "de"},
		{"fre", "fr"},
		{"dut", "nl"},
		{"pt_BR", "pt-BR"},
		{"pt-br", "pt-BR"},
		{"english", "en"},
		{"Portuguese", "pt"},
		{"GERMAN", "de"},
		{"English (US)", "en"},
		{"en\u0000", "en"},
		{"", ""},
		{"not a language", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Code(tt.input); got != tt.expected {
				t.Fatalf("Code(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"EN", "English"},
		{"spanish", "Spanish"},
		{"ger", "German"},
		{"", "Unknown"},
		{"  ", "Unknown"},
		{"Klingonish dialect", "Klingonish dialect"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Fatalf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWordFormsCoverKnownTags(t *testing.T) {
	if len(byWord) != len(known) {
		t.Fatalf("word index has %d entries, want %d", len(byWord), len(known))
	}
}
