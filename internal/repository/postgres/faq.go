package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"faqforge/internal/domain/models"
	"faqforge/internal/domain/repositories"
)

// questionTextLimit matches the question_text column width; longer
// generated questions are truncated, not rejected.
const questionTextLimit = 1000

// PostgresFAQRepository implements the FAQRepository interface.
type PostgresFAQRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFAQRepository creates a new FAQ repository.
func NewFAQRepository(config *RepositoryConfig) repositories.FAQRepository {
	return &PostgresFAQRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// DeleteByConsole removes the existing question/answer set for a
// console/sub-console. Questions go first - they hold the answer foreign key.
func (r *PostgresFAQRepository) DeleteByConsole(ctx context.Context, consoleID, subConsoleID int) (int64, int64, error) {
	executor := GetExecutor(ctx, r.pool)

	questionsTag, err := executor.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s
		WHERE console_code = $1 AND sub_console_code = $2
	`, r.tables.Questions), consoleID, subConsoleID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete questions: %w", err)
	}

	answersTag, err := executor.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s
		WHERE console_code = $1 AND sub_console_code = $2
	`, r.tables.Answers), consoleID, subConsoleID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete answers: %w", err)
	}

	return questionsTag.RowsAffected(), answersTag.RowsAffected(), nil
}

// InsertAnswer inserts one answer row. The AnswerLanguage variant selects
// which text column is populated; the opposite column stays NULL and is
// never overwritten for the other language under the same key.
func (r *PostgresFAQRepository) InsertAnswer(ctx context.Context, key models.TargetingKey, html string, seq string) (int64, error) {
	var textAR, textOTH *string
	switch key.Answers {
	case models.AnswerArabic:
		textAR = &html
	case models.AnswerOther:
		textOTH = &html
	default:
		return 0, fmt.Errorf("unknown answer language %q", key.Answers)
	}

	executor := GetExecutor(ctx, r.pool)

	var id int64
	var err error
	if seq != "" {
		query := fmt.Sprintf(`
			INSERT INTO %s
			  (id, console_code, sub_console_code, country_code, inst_code, bank_map_code,
			   answer_text_ar, answer_text_oth, created_at)
			VALUES (nextval($1), $2, $3, $4, $5, $6, $7, $8, now())
			RETURNING id
		`, r.tables.Answers)
		err = executor.QueryRow(ctx, query,
			seq, key.ConsoleID, key.SubConsoleID, key.Country, key.Institution,
			nullableString(key.BankMap), textAR, textOTH,
		).Scan(&id)
	} else {
		query := fmt.Sprintf(`
			INSERT INTO %s
			  (console_code, sub_console_code, country_code, inst_code, bank_map_code,
			   answer_text_ar, answer_text_oth, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			RETURNING id
		`, r.tables.Answers)
		err = executor.QueryRow(ctx, query,
			key.ConsoleID, key.SubConsoleID, key.Country, key.Institution,
			nullableString(key.BankMap), textAR, textOTH,
		).Scan(&id)
	}
	if err != nil {
		if IsPgUndefinedObjectError(err) {
			return 0, fmt.Errorf("unknown sequence %q: %w", seq, err)
		}
		return 0, fmt.Errorf("insert answer: %w", err)
	}

	return id, nil
}

// InsertQuestions inserts one row per question, batched, all referencing
// answerID.
func (r *PostgresFAQRepository) InsertQuestions(ctx context.Context, key models.TargetingKey, answerID int64, questions []string, seq string) error {
	if len(questions) == 0 {
		return nil
	}

	var query string
	if seq != "" {
		query = fmt.Sprintf(`
			INSERT INTO %s
			  (id, country_code, inst_code, lang_id, console_code, sub_console_code,
			   bank_map_code, question_text, vector_csv, hit_count, answer_id)
			VALUES (nextval($1), $2, $3, $4, $5, $6, $7, $8, NULL, 0, $9)
		`, r.tables.Questions)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %s
			  (country_code, inst_code, lang_id, console_code, sub_console_code,
			   bank_map_code, question_text, vector_csv, hit_count, answer_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, 0, $8)
		`, r.tables.Questions)
	}

	batch := &pgx.Batch{}
	for _, question := range questions {
		text := truncateQuestion(question)
		if seq != "" {
			batch.Queue(query, seq, key.Country, key.Institution, key.LangID,
				key.ConsoleID, key.SubConsoleID, nullableString(key.BankMap), text, answerID)
		} else {
			batch.Queue(query, key.Country, key.Institution, key.LangID,
				key.ConsoleID, key.SubConsoleID, nullableString(key.BankMap), text, answerID)
		}
	}

	executor := GetExecutor(ctx, r.pool)
	results := executor.SendBatch(ctx, batch)
	defer results.Close()

	for range questions {
		if _, err := results.Exec(); err != nil {
			if IsPgForeignKeyError(err) {
				return fmt.Errorf("insert question: answer %d missing: %w", answerID, err)
			}
			return fmt.Errorf("insert question: %w", err)
		}
	}

	return results.Close()
}

func truncateQuestion(q string) string {
	runes := []rune(q)
	if len(runes) > questionTextLimit {
		return string(runes[:questionTextLimit])
	}
	return q
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
