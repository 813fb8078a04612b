package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills:</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve">Go, </w:t></w:r><w:r><w:t>AWS</w:t></w:r></w:p>
    <w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>
  </w:body>
</w:document>`

const testDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocx(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"word/document.xml":            testDocumentXML,
		"word/_rels/document.xml.rels": testDocumentRels,
	})

	text, err := NewTextExtractor().Extract("docx", data)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nSkills:\tGo, AWS\nLine one\nLine two\n", text)
}

func TestExtractDocxMalformed(t *testing.T) {
	_, err := NewTextExtractor().Extract("docx", []byte("definitely not a zip archive"))
	assert.Error(t, err)

	missingDocument := buildDocx(t, map[string]string{"word/other.xml": "<x/>"})
	_, err = NewTextExtractor().Extract("docx", missingDocument)
	assert.Error(t, err)
}

// buildPDF writes a one page PDF whose page draws the given content stream.
func buildPDF(t *testing.T, content string) []byte {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	buf := new(bytes.Buffer)
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func TestExtractPDF(t *testing.T) {
	data := buildPDF(t, "BT /F1 12 Tf 72 720 Td (Technical Skills Go) Tj ET")

	text, err := NewTextExtractor().Extract("pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "Technical Skills Go", strings.TrimSpace(text))
	assert.True(t, strings.HasSuffix(text, "\n"))
}

func TestExtractPDFWithoutText(t *testing.T) {
	data := buildPDF(t, "BT ET")

	text, err := NewTextExtractor().Extract("pdf", data)
	assert.ErrorIs(t, err, ErrNoTextContent)
	assert.Empty(t, text)
}

func TestExtractPDFMalformed(t *testing.T) {
	_, err := NewTextExtractor().Extract("pdf", []byte("%PDF-1.4 garbage without xref"))
	assert.Error(t, err)
}

func TestExtractText(t *testing.T) {
	text, err := NewTextExtractor().Extract(".TXT", []byte("plain resume"))
	require.NoError(t, err)
	assert.Equal(t, "plain resume", text)
}

func TestExtractUnsupported(t *testing.T) {
	for _, ext := range []string{"bin", "doc", "png", ""} {
		_, err := NewTextExtractor().Extract(ext, []byte("data"))
		assert.ErrorIs(t, err, ErrUnsupportedFileType, ext)
	}
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension("0b7c.pdf"))
	assert.Equal(t, "docx", FileExtension("a.b.docx"))
	assert.Equal(t, "noext", FileExtension("noext"))
}

func TestDocumentXMLTextInvalid(t *testing.T) {
	_, err := documentXMLText("<w:p><w:t>unterminated")
	assert.Error(t, err)
}
