// Package doctext extracts best-effort plain text from resume payloads.
// Total failure yields an empty string, never an error: the extractor
// downstream treats empty text as "no candidates", not a fault.
package doctext

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Service converts uploaded resume payloads to text.
type Service struct {
	pdf *PdfToText
}

// New creates a Service. pdfToTextPath may be empty to use the default
// binary name.
func New(pdfToTextPath string) *Service {
	return &Service{pdf: NewPdfToText(pdfToTextPath)}
}

// Extract returns the best-effort text content of payload. mediaType and
// filename guide format detection; unknown formats fall through PDF, then
// DOCX, then raw bytes.
func (s *Service) Extract(ctx context.Context, payload []byte, mediaType, filename string) string {
	if len(payload) == 0 {
		return ""
	}

	name := strings.ToLower(filename)

	switch {
	case mediaType == "application/pdf" || strings.HasSuffix(name, ".pdf"):
		return s.extractPDF(ctx, payload)
	case mediaType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		strings.HasSuffix(name, ".docx"):
		return s.extractDocx(payload)
	case strings.HasPrefix(mediaType, "text/") || strings.HasSuffix(name, ".txt"):
		return string(payload)
	}

	if text := s.extractPDF(ctx, payload); text != "" {
		return text
	}
	if text := s.extractDocx(payload); text != "" {
		return text
	}
	return string(payload)
}

func (s *Service) extractPDF(ctx context.Context, payload []byte) string {
	text, err := s.pdf.ExtractText(ctx, payload)
	if err != nil {
		zap.L().Debug("doctext: pdf extraction failed", zap.Error(err))
		return ""
	}
	return text
}

func (s *Service) extractDocx(payload []byte) string {
	text, err := docxText(payload)
	if err != nil {
		zap.L().Debug("doctext: docx extraction failed", zap.Error(err))
		return ""
	}
	return text
}
