package generate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"faqforge/internal/domain/models"
)

var (
	fenceOpen  = regexp.MustCompile("(?im)^\\s*```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("(?m)```\\s*$")
	spaceRun   = regexp.MustCompile(`\s+`)
)

// Limits are the constraints enforced on a generator response regardless of
// whether the service honored them.
type Limits struct {
	Min      int
	Max      int
	MaxWords int
}

// ParseAlternatives extracts the alternatives array from a raw model
// response and enforces the limits: question-mark punctuation normalized,
// over-long alternatives dropped, duplicates removed, the list truncated to
// Max in generator order. Fewer than Min survivors is a failure.
func ParseAlternatives(raw string, limits Limits) ([]string, error) {
	payload := extractObject(stripCodeFences(raw))
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	alts := gjson.Get(payload, "alternatives")
	if !alts.Exists() || !alts.IsArray() {
		return nil, fmt.Errorf("response has no alternatives array")
	}

	out := make([]string, 0, limits.Max)
	seen := make(map[string]bool)
	for _, v := range alts.Array() {
		q := spaceRun.ReplaceAllString(strings.TrimSpace(v.String()), " ")
		if q == "" {
			continue
		}
		q = models.EnsureQuestionMark(q)
		if len(strings.Fields(q)) > limits.MaxWords {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
		if len(out) == limits.Max {
			break
		}
	}

	if len(out) < limits.Min {
		return nil, fmt.Errorf("only %d valid alternatives, need at least %d", len(out), limits.Min)
	}
	return out, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractObject returns the outermost {...} span, tolerating prose before
// or after the JSON.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
