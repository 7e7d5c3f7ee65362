// Package convert implements the DOCX to HTML converter boundary. It walks
// the OOXML main document part and emits headings, paragraphs, tables and
// inline images (as base64 data URLs), which is all the downstream splitter
// needs from a manual-style document.
package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"path"
	"strings"

	"faqforge/internal/domain"
)

const documentPart = "word/document.xml"

// DocxConverter implements services.Converter for DOCX input.
type DocxConverter struct {
	logger *slog.Logger
}

// NewDocxConverter creates a converter.
func NewDocxConverter(logger *slog.Logger) *DocxConverter {
	return &DocxConverter{logger: logger}
}

// Convert parses the DOCX archive and returns an HTML fragment string.
// Corrupt or unsupported input fails with a ConversionError.
func (c *DocxConverter) Convert(ctx context.Context, docx []byte) (string, error) {
	if len(docx) == 0 {
		return "", &domain.ConversionError{Message: "empty document"}
	}

	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return "", &domain.ConversionError{Message: "open docx archive", Err: err}
	}

	docXML, err := readZipFile(zr, documentPart)
	if err != nil {
		return "", &domain.ConversionError{Message: "read " + documentPart, Err: err}
	}

	images := c.imageSources(zr)

	out, err := renderBody(docXML, images)
	if err != nil {
		return "", &domain.ConversionError{Message: "convert document body", Err: err}
	}

	c.logger.Debug("docx converted", "input_bytes", len(docx), "html_chars", len(out), "images", len(images))
	_ = ctx
	return out, nil
}

type relationships struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// imageSources maps relationship ids to data URLs for every media part the
// document references. Unresolvable images are skipped, not fatal.
func (c *DocxConverter) imageSources(zr *zip.Reader) map[string]string {
	relsXML, err := readZipFile(zr, "word/_rels/document.xml.rels")
	if err != nil {
		return nil
	}
	var rels relationships
	if err := xml.Unmarshal(relsXML, &rels); err != nil {
		c.logger.Warn("unparsable document relationships", "error", err)
		return nil
	}

	sources := make(map[string]string)
	for _, rel := range rels.Rels {
		mime := imageMime(rel.Target)
		if mime == "" {
			continue
		}
		data, err := readZipFile(zr, path.Join("word", rel.Target))
		if err != nil {
			c.logger.Warn("missing media part", "target", rel.Target)
			continue
		}
		sources[rel.ID] = "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	}
	return sources
}

// renderBody walks the document token stream. Table containers push nested
// buffers so cell paragraphs land inside their cells.
func renderBody(docXML []byte, images map[string]string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(docXML))

	root := &strings.Builder{}
	stack := []*strings.Builder{root}
	cur := func() *strings.Builder { return stack[len(stack)-1] }

	var par *strings.Builder
	var parStyle string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				par = &strings.Builder{}
				parStyle = ""
			case "pStyle":
				parStyle = attrVal(t, "val")
			case "t":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return "", err
				}
				if par != nil {
					par.WriteString(html.EscapeString(s))
				}
			case "br", "cr":
				if par != nil {
					par.WriteString("<br/>")
				}
			case "tab":
				if par != nil {
					par.WriteString(" ")
				}
			case "blip":
				if par != nil {
					if src, ok := images[attrVal(t, "embed")]; ok {
						fmt.Fprintf(par, `<img src="%s"/>`, src)
					}
				}
			case "tbl", "tr", "tc":
				stack = append(stack, &strings.Builder{})
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if par != nil {
					flushParagraph(cur(), par.String(), parStyle)
					par = nil
				}
			case "tbl", "tr", "tc":
				inner := cur().String()
				stack = stack[:len(stack)-1]
				switch t.Name.Local {
				case "tbl":
					fmt.Fprintf(cur(), "<table>%s</table>", inner)
				case "tr":
					fmt.Fprintf(cur(), "<tr>%s</tr>", inner)
				case "tc":
					fmt.Fprintf(cur(), "<td>%s</td>", inner)
				}
			}
		}
	}

	if len(stack) != 1 {
		return "", fmt.Errorf("unbalanced table structure")
	}
	return root.String(), nil
}

func flushParagraph(dst *strings.Builder, content, style string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	if lvl := headingStyleLevel(style); lvl > 0 {
		fmt.Fprintf(dst, "<h%d>%s</h%d>", lvl, content, lvl)
		return
	}
	fmt.Fprintf(dst, "<p>%s</p>", content)
}

// headingStyleLevel maps Word paragraph styles to heading levels.
func headingStyleLevel(style string) int {
	s := strings.ToLower(style)
	if s == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(s, "heading"); ok {
		if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}
	return 0
}

// attrVal matches on the local attribute name, ignoring the w:/r: namespaces.
func attrVal(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func imageMime(target string) string {
	switch strings.ToLower(path.Ext(target)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	}
	return ""
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
