package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"faqforge/internal/domain/repositories"
)

// RepositoryConfig holds shared dependencies for repository implementations.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the environment-prefixed FAQ and lookup table names.
type TableNames struct {
	Answers     string
	Questions   string
	Consoles    string
	SubConsoles string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Answers:     fmt.Sprintf("%schatbot_answers", prefix),
		Questions:   fmt.Sprintf("%suser_manual_faq", prefix),
		Consoles:    fmt.Sprintf("%spio_console", prefix),
		SubConsoles: fmt.Sprintf("%spio_sub_console", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies
// connectivity. Table names are interpolated into SQL before it reaches the
// database, so each prefix gets its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction from the context when present,
// otherwise the pool. This lets repositories automatically participate in
// an ambient transaction.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
