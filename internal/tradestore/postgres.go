package tradestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradestack/trade-store/internal/model"
)

const readColumns = `trade_id, version, counterparty_id, book_id, maturity_date,
	created_date, maturity_date < CURRENT_DATE AS expired, is_current,
	created_at, updated_at`

// Postgres is the pgx-backed Store implementation.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres creates a Postgres store around an existing pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// CurrentVersion implements Store.
func (s *Postgres) CurrentVersion(ctx context.Context, tradeID string) (int, bool, error) {
	var version int
	err := s.db.QueryRow(ctx,
		`SELECT version FROM trades WHERE trade_id = $1 AND is_current`,
		tradeID,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read current version for %s: %w", tradeID, err)
	}
	return version, true, nil
}

// Upsert implements Store. The whole comparison-and-write runs in one
// transaction: the SELECT ... FOR UPDATE on the trade's newest row serializes
// concurrent upserts for the same trade_id.
func (s *Postgres) Upsert(ctx context.Context, sub model.TradeSubmission) (Outcome, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin upsert for %s: %w", sub.TradeID, err)
	}
	defer tx.Rollback(ctx)

	var current int
	hasCurrent := true
	err = tx.QueryRow(ctx,
		`SELECT version FROM trades WHERE trade_id = $1 ORDER BY version DESC LIMIT 1 FOR UPDATE`,
		sub.TradeID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		hasCurrent = false
	} else if err != nil {
		return 0, fmt.Errorf("lock trade %s: %w", sub.TradeID, err)
	}

	if hasCurrent && sub.Version < current {
		// Stale delivery; leave the store untouched.
		return OutcomeSuperseded, nil
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO trades (trade_id, version, counterparty_id, book_id, maturity_date, created_date, is_current)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		ON CONFLICT (trade_id, version) DO UPDATE SET
			counterparty_id = EXCLUDED.counterparty_id,
			book_id         = EXCLUDED.book_id,
			maturity_date   = EXCLUDED.maturity_date,
			created_date    = EXCLUDED.created_date,
			updated_at      = now()
	`, sub.TradeID, sub.Version, sub.CounterpartyID, sub.BookID,
		sub.MaturityDate.Time(), sub.CreatedDate.Time()); err != nil {
		return 0, fmt.Errorf("write trade %s v%d: %w", sub.TradeID, sub.Version, err)
	}

	// Demote the old current row before promoting the new one; the partial
	// unique index forbids two current rows existing at once.
	if _, err := tx.Exec(ctx,
		`UPDATE trades SET is_current = false WHERE trade_id = $1 AND is_current AND version <> $2`,
		sub.TradeID, sub.Version); err != nil {
		return 0, fmt.Errorf("demote current row for %s: %w", sub.TradeID, err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE trades SET is_current = true WHERE trade_id = $1 AND version = $2`,
		sub.TradeID, sub.Version); err != nil {
		return 0, fmt.Errorf("promote trade %s v%d: %w", sub.TradeID, sub.Version, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit upsert for %s: %w", sub.TradeID, err)
	}

	if hasCurrent && sub.Version == current {
		return OutcomeReplaced, nil
	}
	return OutcomeInserted, nil
}

// List implements Store.
func (s *Postgres) List(ctx context.Context) ([]model.Trade, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+readColumns+` FROM trades ORDER BY trade_id, version`)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

// ListVersions implements Store.
func (s *Postgres) ListVersions(ctx context.Context, tradeID string) ([]model.Trade, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+readColumns+` FROM trades WHERE trade_id = $1 ORDER BY version`,
		tradeID)
	if err != nil {
		return nil, fmt.Errorf("list versions for %s: %w", tradeID, err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

// Ping implements Store.
func (s *Postgres) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func scanTrades(rows pgx.Rows) ([]model.Trade, error) {
	var trades []model.Trade
	for rows.Next() {
		var (
			t            model.Trade
			maturityDate time.Time
			createdDate  time.Time
		)
		if err := rows.Scan(
			&t.TradeID, &t.Version, &t.CounterpartyID, &t.BookID,
			&maturityDate, &createdDate, &t.Expired, &t.IsCurrent,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		t.MaturityDate = model.DateOf(maturityDate)
		t.CreatedDate = model.DateOf(createdDate)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}
	return trades, nil
}
