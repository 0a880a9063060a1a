package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresAttemptStore is a PostgreSQL-backed AttemptStore.
type PostgresAttemptStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAttemptStore creates an attempt store on the quiz_attempts table.
func NewPostgresAttemptStore(pool *pgxpool.Pool) (*PostgresAttemptStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresAttemptStore{pool: pool}, nil
}

func (s *PostgresAttemptStore) RecordAttempt(ctx context.Context, a Attempt) (string, error) {
	if a.VisitorID == "" {
		return "", fmt.Errorf("visitor_id is required")
	}
	if a.Total <= 0 {
		return "", fmt.Errorf("total must be positive, got %d", a.Total)
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	finishedAt := a.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}
	locale := a.Locale
	if locale == "" {
		locale = "en"
	}

	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts (visitor_id, article, section_id, locale, score, total, percentage, tier, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id::text`,
		a.VisitorID,
		a.Article,
		a.SectionID,
		locale,
		a.Score,
		a.Total,
		a.Percentage,
		a.Tier.String(),
		finishedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert quiz attempt: %w", err)
	}
	return id, nil
}

func (s *PostgresAttemptStore) RecentAttempts(ctx context.Context, visitorID string, limit int) ([]Attempt, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, visitor_id, article, section_id, locale, score, total, percentage, tier, finished_at
		 FROM quiz_attempts
		 WHERE visitor_id = $1
		 ORDER BY finished_at DESC
		 LIMIT $2`,
		visitorID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var tier string
		if err := rows.Scan(
			&a.ID,
			&a.VisitorID,
			&a.Article,
			&a.SectionID,
			&a.Locale,
			&a.Score,
			&a.Total,
			&a.Percentage,
			&tier,
			&a.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		a.Tier = ParseTier(tier)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz attempts: %w", err)
	}
	return out, nil
}
