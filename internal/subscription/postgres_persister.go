package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nftrelay/pkg/metrics"
	"nftrelay/pkg/retry"
)

const (
	selectDestinationsQuery = `SELECT destination, locale, collections FROM relay_destinations`

	upsertDestinationQuery = `
		INSERT INTO relay_destinations (destination, locale, collections, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (destination) DO UPDATE
		SET locale = EXCLUDED.locale,
		    collections = EXCLUDED.collections,
		    updated_at = NOW()`

	deleteDestinationQuery = `DELETE FROM relay_destinations WHERE destination = $1`
)

// PostgresPersister keeps one row per destination. The schema is created by
// the embedded migrations in pkg/migrations.
type PostgresPersister struct {
	db     *sql.DB
	policy retry.Policy
}

func NewPostgresPersister(db *sql.DB, policy retry.Policy) *PostgresPersister {
	return &PostgresPersister{
		db:     db,
		policy: policy,
	}
}

func (p *PostgresPersister) Load(ctx context.Context) (State, error) {
	start := time.Now()
	rows, err := p.db.QueryContext(ctx, selectDestinationsQuery)
	if err != nil {
		metrics.ObserveDatabaseQuery("postgres", "load", "error", time.Since(start))
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	state := make(State)
	for rows.Next() {
		var (
			dest string
			rec  Record
		)
		if err := rows.Scan(&dest, &rec.Locale, pq.Array(&rec.Collections)); err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		state[dest] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate destinations: %w", err)
	}

	metrics.ObserveDatabaseQuery("postgres", "load", "ok", time.Since(start))
	return state, nil
}

func (p *PostgresPersister) Put(ctx context.Context, destination string, record Record) error {
	collections := record.Collections
	if collections == nil {
		collections = []string{}
	}

	return p.exec(ctx, "put", upsertDestinationQuery, destination, record.Locale, pq.Array(collections))
}

func (p *PostgresPersister) Delete(ctx context.Context, destination string) error {
	return p.exec(ctx, "delete", deleteDestinationQuery, destination)
}

func (p *PostgresPersister) exec(ctx context.Context, operation, query string, args ...interface{}) error {
	start := time.Now()
	err := retry.RetryWithCallback(ctx, p.policy, func() error {
		_, err := p.db.ExecContext(ctx, query, args...)
		return err
	}, func(attempt int, err error, _ time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues("subscriptions", "postgres_"+operation).Inc()
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ObserveDatabaseQuery("postgres", operation, status, time.Since(start))

	if err != nil {
		return fmt.Errorf("postgres %s failed: %w", operation, err)
	}
	return nil
}
