package security

import (
	"strings"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Trims whitespace",
			input:    "  hello  ",
			expected: "hello",
		},
		{
			name:     "Removes null bytes",
			input:    "hel\x00lo",
			expected: "hello",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeString(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeString_LimitsLength(t *testing.T) {
	input := strings.Repeat("a", 2000)
	result := SanitizeString(input)
	if len(result) != 1000 {
		t.Errorf("SanitizeString() length = %d, want 1000", len(result))
	}
}

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Strips script tags",
			input:    `<script>alert("x")</script>hello`,
			expected: "hello",
		},
		{
			name:     "Strips markup keeping text",
			input:    "<b>bold</b> text",
			expected: "bold text",
		},
		{
			name:     "Plain text unchanged",
			input:    "plain text",
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeHTML(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeHTML(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"Valid simple", "alice", true},
		{"Valid with separators", "alice_91.dev-x", true},
		{"Too short", "ab", false},
		{"Too long", strings.Repeat("a", 65), false},
		{"Spaces rejected", "a lice", false},
		{"Special chars rejected", "alice!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateUsername(tt.username); got != tt.want {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestValidateFileType(t *testing.T) {
	allowed := []string{".xlsx", ".xls"}

	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"Allowed extension", "games.xlsx", true},
		{"Case insensitive", "GAMES.XLSX", true},
		{"Disallowed extension", "games.csv", false},
		{"No extension", "games", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateFileType(tt.filename, allowed); got != tt.want {
				t.Errorf("ValidateFileType(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestValidateFileSize(t *testing.T) {
	maxSize := int64(10 * 1024 * 1024)

	tests := []struct {
		name string
		size int64
		want bool
	}{
		{"Within limit", 1024, true},
		{"At limit", maxSize, true},
		{"Over limit", maxSize + 1, false},
		{"Zero", 0, false},
		{"Negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateFileSize(tt.size, maxSize); got != tt.want {
				t.Errorf("ValidateFileSize(%d) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}
