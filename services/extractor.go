package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"rag-context-service/internal/config"
	"rag-context-service/internal/logger"

	"github.com/ledongthuc/pdf"
)

// ErrNoText indicates the PDF was readable but yielded no usable text.
var ErrNoText = fmt.Errorf("no text could be extracted from PDF")

// PDFExtractor handles robust PDF text extraction
type PDFExtractor struct {
	config *config.Config
}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor(cfg *config.Config) *PDFExtractor {
	return &PDFExtractor{config: cfg}
}

// ExtractionResult contains the result of PDF text extraction
type ExtractionResult struct {
	Text           string
	Pages          int
	Method         string
	QualityScore   float64
	ProcessingTime time.Duration
	WordCount      int
	CharacterCount int
}

// ExtractText extracts text from PDF content, trying the native Go reader
// first and falling back to poppler's pdftotext when the result is poor.
func (e *PDFExtractor) ExtractText(ctx context.Context, content []byte) (*ExtractionResult, error) {
	start := time.Now()

	methods := []struct {
		name    string
		extract func(context.Context, []byte) (*ExtractionResult, error)
	}{
		{"go-pdf", e.extractWithGoPDF},
		{"poppler", e.extractWithPoppler},
	}

	var lastErr error
	var bestResult *ExtractionResult

	for _, method := range methods {
		result, err := method.extract(ctx, content)
		if err != nil {
			logger.Debug("Extraction method failed", "method", method.name, "error", err)
			lastErr = err
			continue
		}

		result.Method = method.name
		result.ProcessingTime = time.Since(start)
		result.QualityScore = e.evaluateTextQuality(result.Text)

		logger.Debug("Extraction method finished",
			"method", method.name, "chars", len(result.Text), "quality", result.QualityScore)

		// Good enough, stop here
		if result.QualityScore >= 0.7 {
			return result, nil
		}

		if bestResult == nil || result.QualityScore > bestResult.QualityScore {
			bestResult = result
		}
	}

	if bestResult != nil && bestResult.QualityScore >= 0.3 {
		logger.Info("Using best available extraction result", "method", bestResult.Method, "quality", bestResult.QualityScore)
		return bestResult, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all extraction methods failed: %w", lastErr)
	}
	return nil, ErrNoText
}

// extractWithGoPDF uses the Go PDF library for extraction
func (e *PDFExtractor) extractWithGoPDF(ctx context.Context, content []byte) (*ExtractionResult, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("Failed to extract text from page", "page", i, "error", err)
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	extractedText := strings.TrimSpace(textBuilder.String())
	if len(extractedText) == 0 {
		return nil, ErrNoText
	}

	result := &ExtractionResult{
		Text:  extractedText,
		Pages: pages,
	}
	e.analyzeText(result)
	return result, nil
}

// extractWithPoppler uses poppler-utils (pdftotext) for extraction
func (e *PDFExtractor) extractWithPoppler(ctx context.Context, content []byte) (*ExtractionResult, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available")
	}

	extractCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(extractCtx, "pdftotext", "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftotext failed: %v, stderr: %s", err, stderr.String())
	}

	extractedText := strings.TrimSpace(stdout.String())
	if len(extractedText) == 0 {
		return nil, ErrNoText
	}

	result := &ExtractionResult{
		Text:  extractedText,
		Pages: strings.Count(stdout.String(), "\f"),
	}
	e.analyzeText(result)
	return result, nil
}

// evaluateTextQuality assesses the quality of extracted text
func (e *PDFExtractor) evaluateTextQuality(text string) float64 {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return 0.0
	}
	if len(text) < 10 {
		return 0.1
	}

	var alphanumeric, printable, corrupted int

	for _, r := range text {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			alphanumeric++
			printable++
		case r == ' ' || r == '\n' || r == '\t':
			printable++
		case r == '.' || r == ',' || r == ';' || r == ':' || r == '!' || r == '?' || r == '-' || r == '_':
			printable++
		case r == '�':
			corrupted++
		case r >= 32 && r <= 126:
			printable++
		default:
			if r > 127 && !isCommonUnicodeChar(r) {
				corrupted++
			} else {
				printable++
			}
		}
	}

	total := len([]rune(text))
	alphanumericRatio := float64(alphanumeric) / float64(total)
	printableRatio := float64(printable) / float64(total)
	corruptedRatio := float64(corrupted) / float64(total)

	score := printableRatio * 0.4

	if alphanumericRatio >= 0.3 {
		score += 0.3
	} else {
		score += alphanumericRatio
	}

	score -= corruptedRatio * 2.0

	if len(text) > 100 {
		score += 0.1
	}

	if hasGoodPatterns(text) {
		score += 0.2
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// isCommonUnicodeChar checks if a character is a common Unicode character
func isCommonUnicodeChar(r rune) bool {
	common := []rune{'—', '“', '”', '‘', '’', '…', '€', '£', '¥', '©', '®', '™'}
	for _, c := range common {
		if r == c {
			return true
		}
	}
	return false
}

var goodTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][a-z]+\b`),       // Capitalized words
	regexp.MustCompile(`\b\d{1,3}[,.]?\d{3}\b`), // Numbers with separators
	regexp.MustCompile(`[.!?]\s+[A-Z]`),         // Sentence boundaries
	regexp.MustCompile(`\b(the|and|or|of|to|in|for|with|on|at|by|from)\b`), // Common words
}

// hasGoodPatterns checks for patterns that indicate good text extraction
func hasGoodPatterns(text string) bool {
	goodPatterns := 0
	for _, pattern := range goodTextPatterns {
		if pattern.MatchString(text) {
			goodPatterns++
		}
	}
	return goodPatterns >= 3
}

// analyzeText fills in word and character counts
func (e *PDFExtractor) analyzeText(result *ExtractionResult) {
	result.WordCount = len(strings.Fields(result.Text))
	result.CharacterCount = len(result.Text)
}
