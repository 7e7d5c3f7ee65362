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

// PostgresOptionsRepository implements the OptionsRepository interface over
// the console lookup tables.
type PostgresOptionsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewOptionsRepository creates a new options repository.
func NewOptionsRepository(config *RepositoryConfig) repositories.OptionsRepository {
	return &PostgresOptionsRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ListConsoles returns every console option ordered by id.
func (r *PostgresOptionsRepository) ListConsoles(ctx context.Context) ([]models.ConsoleOption, error) {
	query := fmt.Sprintf(`
		SELECT id, desc_eng, desc_nat
		FROM %s
		ORDER BY id
	`, r.tables.Consoles)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list consoles: %w", err)
	}

	return scanOptions(rows)
}

// ListSubConsoles returns the sub-console options for one console.
func (r *PostgresOptionsRepository) ListSubConsoles(ctx context.Context, consoleID int64) ([]models.ConsoleOption, error) {
	query := fmt.Sprintf(`
		SELECT id, desc_eng, desc_nat
		FROM %s
		WHERE console_id = $1
		ORDER BY id
	`, r.tables.SubConsoles)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, consoleID)
	if err != nil {
		return nil, fmt.Errorf("list sub-consoles: %w", err)
	}

	return scanOptions(rows)
}

func scanOptions(rows pgx.Rows) ([]models.ConsoleOption, error) {
	defer rows.Close()

	options := make([]models.ConsoleOption, 0)
	for rows.Next() {
		var opt models.ConsoleOption
		if err := rows.Scan(&opt.ID, &opt.DescEng, &opt.DescNat); err != nil {
			return nil, fmt.Errorf("scan console option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate console options: %w", err)
	}

	return options, nil
}
