package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"faqforge/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildDocx assembles a minimal DOCX archive in memory.
func buildDocx(t *testing.T, parts map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range parts {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const simpleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Getting Started</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Welcome to the manual.</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading2"/></w:pPr>
      <w:r><w:t>Installation</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Run the installer </w:t></w:r>
      <w:r><w:t>and wait.</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

func TestConvert_HeadingsAndParagraphs(t *testing.T) {
	docx := buildDocx(t, map[string][]byte{
		"word/document.xml": []byte(simpleDocument),
	})

	c := NewDocxConverter(testLogger())
	out, err := c.Convert(context.Background(), docx)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	for _, want := range []string{
		"<h1>Getting Started</h1>",
		"<p>Welcome to the manual.</p>",
		"<h2>Installation</h2>",
		"<p>Run the installer and wait.</p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConvert_TitleStyleBecomesH1(t *testing.T) {
	doc := `<w:document xmlns:w="http://x">
	  <w:body>
	    <w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>User Manual</w:t></w:r></w:p>
	  </w:body>
	</w:document>`
	docx := buildDocx(t, map[string][]byte{"word/document.xml": []byte(doc)})

	c := NewDocxConverter(testLogger())
	out, err := c.Convert(context.Background(), docx)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(out, "<h1>User Manual</h1>") {
		t.Errorf("output missing title heading:\n%s", out)
	}
}

func TestConvert_EscapesText(t *testing.T) {
	doc := `<w:document xmlns:w="http://x">
	  <w:body>
	    <w:p><w:r><w:t>Use &lt;Enter&gt; to continue</w:t></w:r></w:p>
	  </w:body>
	</w:document>`
	docx := buildDocx(t, map[string][]byte{"word/document.xml": []byte(doc)})

	c := NewDocxConverter(testLogger())
	out, err := c.Convert(context.Background(), docx)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(out, "&lt;Enter&gt;") {
		t.Errorf("angle brackets not escaped:\n%s", out)
	}
}

func TestConvert_Table(t *testing.T) {
	doc := `<w:document xmlns:w="http://x">
	  <w:body>
	    <w:tbl>
	      <w:tr>
	        <w:tc><w:p><w:r><w:t>Key</w:t></w:r></w:p></w:tc>
	        <w:tc><w:p><w:r><w:t>Value</w:t></w:r></w:p></w:tc>
	      </w:tr>
	    </w:tbl>
	  </w:body>
	</w:document>`
	docx := buildDocx(t, map[string][]byte{"word/document.xml": []byte(doc)})

	c := NewDocxConverter(testLogger())
	out, err := c.Convert(context.Background(), docx)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(out, "<table><tr><td><p>Key</p></td><td><p>Value</p></td></tr></table>") {
		t.Errorf("table structure wrong:\n%s", out)
	}
}

func TestConvert_InlineImage(t *testing.T) {
	doc := `<w:document xmlns:w="http://x" xmlns:r="http://y" xmlns:a="http://z">
	  <w:body>
	    <w:p>
	      <w:r><w:t>Before </w:t></w:r>
	      <w:r><a:blip r:embed="rId5"/></w:r>
	      <w:r><w:t> after.</w:t></w:r>
	    </w:p>
	  </w:body>
	</w:document>`
	rels := `<?xml version="1.0"?>
	<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
	  <Relationship Id="rId5" Type="http://image" Target="media/image1.png"/>
	</Relationships>`
	docx := buildDocx(t, map[string][]byte{
		"word/document.xml":            []byte(doc),
		"word/_rels/document.xml.rels": []byte(rels),
		"word/media/image1.png":        {0x89, 0x50, 0x4E, 0x47},
	})

	c := NewDocxConverter(testLogger())
	out, err := c.Convert(context.Background(), docx)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(out, `<img src="data:image/png;base64,iVBORw=="/>`) {
		t.Errorf("inline image not embedded:\n%s", out)
	}
}

func TestConvert_Errors(t *testing.T) {
	c := NewDocxConverter(testLogger())

	tests := []struct {
		name string
		docx func(t *testing.T) []byte
	}{
		{
			name: "empty input",
			docx: func(t *testing.T) []byte { return nil },
		},
		{
			name: "not a zip archive",
			docx: func(t *testing.T) []byte { return []byte("this is not a docx") },
		},
		{
			name: "zip without document part",
			docx: func(t *testing.T) []byte {
				return buildDocx(t, map[string][]byte{"other.txt": []byte("x")})
			},
		},
		{
			name: "malformed document xml",
			docx: func(t *testing.T) []byte {
				return buildDocx(t, map[string][]byte{"word/document.xml": []byte("<w:document><unclosed")})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Convert(context.Background(), tt.docx(t))
			if err == nil {
				t.Fatal("Convert() succeeded, want error")
			}
			var convErr *domain.ConversionError
			if !errors.As(err, &convErr) {
				t.Errorf("error type = %T, want *domain.ConversionError", err)
			}
		})
	}
}
