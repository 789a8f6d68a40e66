package services

import (
	"strings"
	"testing"

	"rag-context-service/internal/config"
)

func testExtractor() *PDFExtractor {
	return NewPDFExtractor(&config.Config{})
}

func TestEvaluateTextQualityCleanProse(t *testing.T) {
	e := testExtractor()

	text := "The quick brown fox jumps over the lazy dog. It was the best of times, " +
		"and the worst of times. Revenue grew to 1,250 units in the last quarter of the year."
	score := e.evaluateTextQuality(text)
	if score < 0.7 {
		t.Errorf("expected clean prose to score >= 0.7, got %.2f", score)
	}
}

func TestEvaluateTextQualityCorruptedText(t *testing.T) {
	e := testExtractor()

	text := strings.Repeat("��� ", 50)
	score := e.evaluateTextQuality(text)
	if score > 0.3 {
		t.Errorf("expected corrupted text to score low, got %.2f", score)
	}
}

func TestEvaluateTextQualityEmpty(t *testing.T) {
	e := testExtractor()

	if score := e.evaluateTextQuality(""); score != 0 {
		t.Errorf("expected 0 for empty text, got %.2f", score)
	}
	if score := e.evaluateTextQuality("hi"); score != 0.1 {
		t.Errorf("expected 0.1 for tiny text, got %.2f", score)
	}
}

func TestHasGoodPatterns(t *testing.T) {
	prose := "The results improved. Sales of the product reached 10,000 units in March."
	if !hasGoodPatterns(prose) {
		t.Errorf("expected prose to match good-text patterns")
	}

	junk := "@@@@ #### %%%% &&&&"
	if hasGoodPatterns(junk) {
		t.Errorf("expected junk to fail good-text patterns")
	}
}

func TestAnalyzeTextCounts(t *testing.T) {
	e := testExtractor()

	result := &ExtractionResult{Text: "one two three"}
	e.analyzeText(result)
	if result.WordCount != 3 {
		t.Errorf("expected 3 words, got %d", result.WordCount)
	}
	if result.CharacterCount != 13 {
		t.Errorf("expected 13 chars, got %d", result.CharacterCount)
	}
}
