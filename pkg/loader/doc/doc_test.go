package doc

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stratakg/strata/pkg/loader"
)

type bytesLoader struct {
	content []byte
}

func (l *bytesLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	return l.content, nil
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestGetFileText_Docx(t *testing.T) {
	content := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>质量部负责质量手册。</w:t></w:r></w:p>
    <w:p><w:r><w:t>第二段。</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	l := NewDocFileLoader(&bytesLoader{content: content})
	file := loader.DocumentFile{ID: "f1", FilePath: "manual.docx", Format: loader.FormatDocx}

	text, err := l.GetFileText(context.Background(), file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(text)
	if !strings.Contains(got, "质量部负责质量手册。") {
		t.Errorf("missing first paragraph: %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("paragraphs not separated: %q", got)
	}
}

func TestGetFileText_LegacyDocDegradesToPlaceholder(t *testing.T) {
	// Not a zip at all, as a real legacy .doc would be.
	l := NewDocFileLoader(&bytesLoader{content: []byte{0xD0, 0xCF, 0x11, 0xE0}})
	file := loader.DocumentFile{ID: "f1", FilePath: "old.doc", Format: loader.FormatDoc}

	text, err := l.GetFileText(context.Background(), file)
	if err != nil {
		t.Fatalf("legacy .doc must not fail: %v", err)
	}
	if string(text) != DocPlaceholder {
		t.Errorf("expected placeholder, got %q", text)
	}
}

func TestGetFileText_BrokenDocxFails(t *testing.T) {
	l := NewDocFileLoader(&bytesLoader{content: []byte("not a zip")})
	file := loader.DocumentFile{ID: "f1", FilePath: "broken.docx", Format: loader.FormatDocx}

	if _, err := l.GetFileText(context.Background(), file); err == nil {
		t.Error("expected error for broken .docx")
	}
}

func TestGetFileText_DocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	l := NewDocFileLoader(&bytesLoader{content: buf.Bytes()})
	file := loader.DocumentFile{ID: "f1", FilePath: "odd.docx", Format: loader.FormatDocx}

	if _, err := l.GetFileText(context.Background(), file); err == nil {
		t.Error("expected error when document.xml is absent")
	}
}
