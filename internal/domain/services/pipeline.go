package services

import (
	"context"

	"faqforge/internal/domain/models"
)

// Converter turns DOCX bytes into an HTML document string. It is an opaque
// collaborator boundary; implementations fail with a conversion error on
// corrupt or unsupported input.
type Converter interface {
	Convert(ctx context.Context, docx []byte) (string, error)
}

// GenerationRequest carries one section's inputs to the question generator.
type GenerationRequest struct {
	Heading  string
	Context  string // compacted section body supplied as prompt context
	Min      int
	Max      int
	MaxWords int
}

// QuestionGenerator produces alternative question phrasings for a section
// heading. Implementations must enforce the Min/Max/MaxWords constraints on
// the response even if the backing service does not honor them.
type QuestionGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) ([]string, error)
}

// Synchronizer replaces the persisted question/answer set for a targeting
// key with a freshly computed one inside a single transaction.
type Synchronizer interface {
	Sync(ctx context.Context, sections []models.FaqSection, questions map[string]models.QuestionSet, key models.TargetingKey, seqs models.SequenceNames) (*models.SyncResult, error)
}

// RunRequest describes one pipeline run.
type RunRequest struct {
	Docx              []byte
	Key               models.TargetingKey
	GenerateQuestions bool
	QMin              int
	QMax              int
	QMaxWords         int
	Limit             int // when > 0, only the first Limit sections get generated questions
	WriteToStore      bool
	FragmentsPath     string
	QuestionsPath     string
	Sequences         models.SequenceNames
}

// Pipeline sequences conversion, splitting, optional question generation,
// artifact assembly and persistence for one document.
type Pipeline interface {
	Run(ctx context.Context, req RunRequest) (*models.PipelineResult, error)
}

// OptionsService exposes the console lookup tables.
type OptionsService interface {
	ListConsoles(ctx context.Context) ([]models.ConsoleOption, error)
	ListSubConsoles(ctx context.Context, consoleID int64) ([]models.ConsoleOption, error)
}
