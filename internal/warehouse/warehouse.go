// Package warehouse runs read-only statements against the ticket table and
// returns results as plain tables.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ticketlens/backend/internal/config"
	"github.com/ticketlens/backend/internal/models"
)

var (
	ErrUnknownDriver = errors.New("unknown warehouse driver")
	ErrTimeout       = errors.New("warehouse query timed out")
)

// Warehouse executes a single statement and returns every row it produced.
type Warehouse interface {
	Query(ctx context.Context, st models.Statement) (*models.Table, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the warehouse selected by cfg.WarehouseDriver.
func Open(ctx context.Context, cfg config.Config) (Warehouse, error) {
	switch strings.ToLower(cfg.WarehouseDriver) {
	case "", "bigquery":
		return NewBigQuery(ctx, BigQueryOptions{
			ProjectID:       cfg.GCPProjectID,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			JobTimeout:      cfg.BQJobTimeout,
			MaxBytesBilled:  cfg.BQMaxBytesBilled,
		})
	case "postgres", "postgresql":
		return NewPostgres(ctx, cfg.DatabaseURL, cfg.RequestTimeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.WarehouseDriver)
	}
}

func wrapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
