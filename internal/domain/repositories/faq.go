package repositories

import (
	"context"

	"faqforge/internal/domain/models"
)

// FAQRepository defines data access operations for the FAQ answer and
// question tables. All methods participate in an ambient transaction when
// one is present in the context.
type FAQRepository interface {
	// DeleteByConsole removes every question and answer row for the given
	// console/sub-console replacement scope and reports the deleted counts
	// (questions first, then answers - questions reference answers).
	DeleteByConsole(ctx context.Context, consoleID, subConsoleID int) (questions, answers int64, err error)

	// InsertAnswer inserts one answer row with the language-appropriate
	// column populated and returns the new answer id. When seq is non-empty
	// the id is drawn from that sequence; otherwise the identity column
	// allocates it.
	InsertAnswer(ctx context.Context, key models.TargetingKey, html string, seq string) (int64, error)

	// InsertQuestions inserts one question row per entry, all referencing
	// answerID. Question text longer than the column limit is truncated.
	InsertQuestions(ctx context.Context, key models.TargetingKey, answerID int64, questions []string, seq string) error
}

// OptionsRepository reads the console lookup tables that drive the GUI
// dropdowns.
type OptionsRepository interface {
	ListConsoles(ctx context.Context) ([]models.ConsoleOption, error)
	ListSubConsoles(ctx context.Context, consoleID int64) ([]models.ConsoleOption, error)
}
