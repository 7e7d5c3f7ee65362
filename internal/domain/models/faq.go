package models

import (
	"regexp"
	"strings"
)

// Direction is the rendering direction of section text.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// AnswerLanguage selects which answer column receives the section body.
// Modeled as a tagged variant over {Other, Arabic} so the synchronizer's
// write path stays exhaustive.
type AnswerLanguage string

const (
	// AnswerOther targets answer_text_oth (English and every non-Arabic language).
	AnswerOther AnswerLanguage = "OTH"
	// AnswerArabic targets answer_text_ar.
	AnswerArabic AnswerLanguage = "AR"
)

// Valid reports whether the value is one of the two known variants.
func (l AnswerLanguage) Valid() bool {
	return l == AnswerOther || l == AnswerArabic
}

// Direction returns the text direction implied by the answer language.
func (l AnswerLanguage) Direction() Direction {
	if l == AnswerArabic {
		return DirectionRTL
	}
	return DirectionLTR
}

var arabicScript = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)

// EnsureQuestionMark appends language-appropriate question punctuation if
// the string does not already end with one. Arabic-script text gets the
// Arabic question mark.
func EnsureQuestionMark(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "?") || strings.HasSuffix(s, "؟") {
		return s
	}
	if arabicScript.MatchString(s) {
		return s + "؟"
	}
	return s + "?"
}

// FaqSection is one heading-delimited unit of content extracted from a
// document. Created by the splitter in a single pass and immutable after.
type FaqSection struct {
	Slug      string
	Level     int
	Heading   string
	HTML      string
	Direction Direction
}

// QuestionSet holds the generated alternative phrasings for one section.
// An empty Alternatives slice means generation was disabled or failed; the
// synchronizer then falls back to the punctuated heading.
type QuestionSet struct {
	Slug         string
	Alternatives []string
}

// SequenceNames configures the database sequences used for primary keys.
// An empty name means the table's identity column allocates the id instead.
type SequenceNames struct {
	Answers   string
	Questions string
}

// ConsoleOption is one row of the console / sub-console lookup tables.
type ConsoleOption struct {
	ID      int64   `json:"id"`
	DescEng *string `json:"desc_eng"`
	DescNat *string `json:"desc_nat"`
}

// SyncResult reports the row-level outcome of one persistence sync.
type SyncResult struct {
	InsertedAnswers   int   `json:"inserted_answers"`
	InsertedQuestions int   `json:"inserted_questions"`
	DeletedAnswers    int64 `json:"deleted_answers"`
	DeletedQuestions  int64 `json:"deleted_questions"`
}

// Warning records a non-fatal per-section failure surfaced with the result.
type Warning struct {
	Slug    string `json:"slug"`
	Message string `json:"message"`
}

// PipelineResult is the outcome of a successful pipeline run.
type PipelineResult struct {
	RunID         string         `json:"run_id"`
	FragmentsPath string         `json:"fragments_path"`
	QuestionsPath string         `json:"questions_path"`
	Sections      []FaqSection   `json:"-"`
	SectionCount  int            `json:"section_count"`
	Warnings      []Warning      `json:"warnings"`
	Sync          *SyncResult    `json:"sync,omitempty"`
	QuestionSets  []QuestionSet  `json:"-"`
}
