package doctext

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDF payloads using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText runs pdftotext -layout over the payload on stdin and returns
// stdout.
func (p *PdfToText) ExtractText(ctx context.Context, payload []byte) (string, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "doctext: pdftotext failed: %s", stderr.String())
	}

	return stdout.String(), nil
}
