package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketlens/backend/internal/models"
)

type Postgres struct {
	Pool         *pgxpool.Pool
	queryTimeout time.Duration
}

func NewPostgres(ctx context.Context, databaseURL string, queryTimeout time.Duration) (*Postgres, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres: DATABASE_URL is required")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Postgres{Pool: pool, queryTimeout: queryTimeout}, nil
}

func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

// withReadOnlyTx runs fn inside a read-only transaction that is always
// rolled back.
func (p *Postgres) withReadOnlyTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	return fn(tx)
}

func (p *Postgres) Query(ctx context.Context, st models.Statement) (*models.Table, error) {
	if p.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.queryTimeout)
		defer cancel()
	}

	args := make([]any, 0, len(st.Params))
	for _, prm := range st.Params {
		args = append(args, prm.Value)
	}

	var t *models.Table
	err := p.withReadOnlyTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, st.SQL, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		t = &models.Table{Rows: [][]any{}}
		for _, f := range rows.FieldDescriptions() {
			t.Columns = append(t.Columns, f.Name)
		}
		for rows.Next() {
			vals, err := rows.Values()
			if err != nil {
				return err
			}
			for i, v := range vals {
				vals[i] = postgresValue(v)
			}
			t.Rows = append(t.Rows, vals)
		}
		return rows.Err()
	})
	if err != nil {
		if pgconn.Timeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, wrapTimeout(fmt.Errorf("postgres query: %w", err))
	}
	return t, nil
}

func postgresValue(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case pgtype.Time:
		if !x.Valid {
			return nil
		}
		d := time.Duration(x.Microseconds) * time.Microsecond
		return time.Time{}.Add(d).Format("15:04:05")
	case [16]byte:
		return uuid.UUID(x).String()
	default:
		return v
	}
}
