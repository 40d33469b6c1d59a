package doctext

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// docxText extracts the raw text of a DOCX payload. A .docx file is a zip
// archive whose word/document.xml holds paragraphs of <w:t> text runs.
func docxText(payload []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", eris.Wrap(err, "doctext: open docx archive")
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", eris.New("doctext: docx has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", eris.Wrap(err, "doctext: open document.xml")
	}
	defer rc.Close() //nolint:errcheck

	return documentText(rc)
}

// documentText walks the WordprocessingML token stream, collecting text
// runs and inserting a line break at each paragraph boundary.
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "doctext: parse document.xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
