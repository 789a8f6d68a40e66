package ai

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRunesKeepsShortInput(t *testing.T) {
	if got := truncateRunes("hello", 10); got != "hello" {
		t.Errorf("truncateRunes = %q, want input unchanged", got)
	}
}

func TestTruncateRunesCutsOnRuneBoundary(t *testing.T) {
	// Multi-byte runes near the cut point must not be split.
	text := strings.Repeat("ü", 3000)
	got := truncateRunes(text, maxEmbedInputChars)

	if !utf8.ValidString(got) {
		t.Fatal("truncated text is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != maxEmbedInputChars {
		t.Errorf("truncated to %d runes, want %d", n, maxEmbedInputChars)
	}
}

func TestTruncateRunesExactLimit(t *testing.T) {
	text := strings.Repeat("日", 50)
	got := truncateRunes(text, 50)
	if got != text {
		t.Errorf("input at the rune limit should be unchanged, got %d bytes", len(got))
	}
}
