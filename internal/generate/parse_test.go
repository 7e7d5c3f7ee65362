package generate

import (
	"reflect"
	"testing"
)

func TestParseAlternatives(t *testing.T) {
	limits := Limits{Min: 3, Max: 8, MaxWords: 12}

	tests := []struct {
		name     string
		raw      string
		limits   Limits
		expected []string
		wantErr  bool
	}{
		{
			name:   "plain json",
			raw:    `{"alternatives": ["How do I log in?", "Where is the login page?", "What are the login steps?"]}`,
			limits: limits,
			expected: []string{
				"How do I log in?",
				"Where is the login page?",
				"What are the login steps?",
			},
		},
		{
			name: "json wrapped in code fences",
			raw: "```json\n" +
				`{"alternatives": ["One thing?", "Two things?", "Three things?"]}` +
				"\n```",
			limits:   limits,
			expected: []string{"One thing?", "Two things?", "Three things?"},
		},
		{
			name:     "prose around the json object",
			raw:      `Sure, here you go: {"alternatives": ["A one?", "A two?", "A three?"]} Hope that helps!`,
			limits:   limits,
			expected: []string{"A one?", "A two?", "A three?"},
		},
		{
			name:     "missing question marks get appended",
			raw:      `{"alternatives": ["How to reset password", "Reset password steps", "Password reset help"]}`,
			limits:   limits,
			expected: []string{"How to reset password?", "Reset password steps?", "Password reset help?"},
		},
		{
			name:     "arabic text gets the arabic question mark",
			raw:      `{"alternatives": ["كيف أسجل", "ما هي خطوات التسجيل", "أين أجد التسجيل"]}`,
			limits:   limits,
			expected: []string{"كيف أسجل؟", "ما هي خطوات التسجيل؟", "أين أجد التسجيل؟"},
		},
		{
			name:     "over-long alternatives dropped",
			raw:      `{"alternatives": ["Short one?", "This alternative has far too many words to survive the word limit filter applied here?", "Short two?", "Short three?"]}`,
			limits:   limits,
			expected: []string{"Short one?", "Short two?", "Short three?"},
		},
		{
			name:     "case-insensitive dedupe",
			raw:      `{"alternatives": ["How do I pay?", "HOW DO I PAY?", "How do I pay a bill?", "Where do I pay?"]}`,
			limits:   limits,
			expected: []string{"How do I pay?", "How do I pay a bill?", "Where do I pay?"},
		},
		{
			name: "ten returned two overlong yields eight survivors",
			raw: `{"alternatives": [
				"How do I open an account?",
				"What are the steps to open a brand new savings account at this branch today please?",
				"Where can I open an account?",
				"What do I need to open an account?",
				"Can I open an account online?",
				"Who is eligible to open an account?",
				"This second overly verbose alternative also runs well past the configured word ceiling here?",
				"How long does account opening take?",
				"Is there a fee to open an account?",
				"What documents are required for opening?"
			]}`,
			limits: limits,
			expected: []string{
				"How do I open an account?",
				"Where can I open an account?",
				"What do I need to open an account?",
				"Can I open an account online?",
				"Who is eligible to open an account?",
				"How long does account opening take?",
				"Is there a fee to open an account?",
				"What documents are required for opening?",
			},
		},
		{
			name:     "truncated to max in generator order",
			raw:      `{"alternatives": ["Q1?", "Q2?", "Q3?", "Q4?"]}`,
			limits:   Limits{Min: 1, Max: 3, MaxWords: 12},
			expected: []string{"Q1?", "Q2?", "Q3?"},
		},
		{
			name:     "whitespace normalized inside alternatives",
			raw:      "{\"alternatives\": [\"How  do\\n I   start?\", \"Second question?\", \"Third question?\"]}",
			limits:   limits,
			expected: []string{"How do I start?", "Second question?", "Third question?"},
		},
		{
			name:    "too few survivors",
			raw:     `{"alternatives": ["Only one?", "Only two?"]}`,
			limits:  limits,
			wantErr: true,
		},
		{
			name:    "no alternatives key",
			raw:     `{"questions": ["A?", "B?", "C?"]}`,
			limits:  limits,
			wantErr: true,
		},
		{
			name:    "alternatives is not an array",
			raw:     `{"alternatives": "A?"}`,
			limits:  limits,
			wantErr: true,
		},
		{
			name:    "no json at all",
			raw:     "I cannot answer that.",
			limits:  limits,
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "",
			limits:  limits,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlternatives(tt.raw, tt.limits)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAlternatives() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlternatives() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseAlternatives() = %v, want %v", got, tt.expected)
			}
		})
	}
}
