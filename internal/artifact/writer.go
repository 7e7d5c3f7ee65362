// Package artifact assembles and writes the pipeline's two output files:
// the concatenated HTML fragments and the newline-delimited questions file.
// Both are produced on every run, persistence or not, as a dry-run and
// diagnostic aid.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"faqforge/internal/domain/models"
)

// FragmentHTML wraps one section in its container element, carrying the
// slug as id, the heading level, and the text direction.
func FragmentHTML(sec models.FaqSection) string {
	tag := sec.Level
	if tag < 1 {
		tag = 1
	}
	if tag > 6 {
		tag = 6
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<section class=\"faq-item\" data-level=\"%d\" id=%q dir=%q>\n", sec.Level, sec.Slug, sec.Direction)
	if sec.Heading != "" {
		fmt.Fprintf(&b, "  <h%d class=\"faq-q\">%s</h%d>\n", tag, html.EscapeString(sec.Heading), tag)
	}
	fmt.Fprintf(&b, "  <div class=\"faq-a\">\n    %s\n  </div>\n</section>", sec.HTML)
	return b.String()
}

// Writer persists run artifacts to disk.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates an artifact writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteFragments writes the concatenated fragments file in section order.
func (w *Writer) WriteFragments(path string, sections []models.FaqSection) error {
	parts := make([]string, 0, len(sections))
	for _, sec := range sections {
		parts = append(parts, FragmentHTML(sec))
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(strings.Join(parts, "\n\n")), 0o644); err != nil {
		return fmt.Errorf("write fragments file: %w", err)
	}

	w.logger.Info("wrote fragments", "path", path, "sections", len(sections))
	return nil
}

type questionRecord struct {
	Slug         string   `json:"slug"`
	Heading      string   `json:"heading"`
	Level        int      `json:"level"`
	Alternatives []string `json:"alternatives"`
}

// WriteQuestions writes one JSON object per section, in document order.
// Sections without generated questions get an empty alternatives array.
func (w *Writer) WriteQuestions(path string, sections []models.FaqSection, sets map[string]models.QuestionSet) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for _, sec := range sections {
		rec := questionRecord{
			Slug:         sec.Slug,
			Heading:      sec.Heading,
			Level:        sec.Level,
			Alternatives: []string{},
		}
		if set, ok := sets[sec.Slug]; ok && len(set.Alternatives) > 0 {
			rec.Alternatives = set.Alternatives
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode question record %s: %w", sec.Slug, err)
		}
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write questions file: %w", err)
	}

	w.logger.Info("wrote questions", "path", path, "sections", len(sections))
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}
