package doctext

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a unix shell")
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}

func TestNewPdfToText_DefaultBinary(t *testing.T) {
	t.Parallel()

	p := NewPdfToText("")
	assert.Equal(t, "pdftotext", p.binPath)

	p = NewPdfToText("/usr/local/bin/pdftotext")
	assert.Equal(t, "/usr/local/bin/pdftotext", p.binPath)
}

func TestExtractText_MissingBinary(t *testing.T) {
	t.Parallel()

	p := NewPdfToText("/nonexistent/pdftotext")
	_, err := p.ExtractText(context.Background(), []byte("%PDF-1.4"))
	require.Error(t, err)
}

func TestExtractText_StubBinary(t *testing.T) {
	t.Parallel()

	// Stand in a shell script for pdftotext so the test does not depend
	// on poppler being installed.
	bin := t.TempDir() + "/pdftotext"
	script := "#!/bin/sh\ncat\n"
	writeExecutable(t, bin, script)

	p := NewPdfToText(bin)
	got, err := p.ExtractText(context.Background(), []byte("resume text"))
	require.NoError(t, err)
	assert.Equal(t, "resume text", got)
}
