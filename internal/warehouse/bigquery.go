package warehouse

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/ticketlens/backend/internal/models"
)

type BigQueryOptions struct {
	ProjectID       string
	CredentialsJSON string
	JobTimeout      time.Duration
	MaxBytesBilled  int64
}

type BigQuery struct {
	client         *bigquery.Client
	jobTimeout     time.Duration
	maxBytesBilled int64
}

// NewBigQuery builds a client from inline service account JSON when given,
// otherwise from application default credentials.
func NewBigQuery(ctx context.Context, opts BigQueryOptions) (*BigQuery, error) {
	if opts.ProjectID == "" {
		return nil, errors.New("bigquery: project id is required")
	}
	var clientOpts []option.ClientOption
	if opts.CredentialsJSON != "" {
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	}
	client, err := bigquery.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return &BigQuery{
		client:         client,
		jobTimeout:     opts.JobTimeout,
		maxBytesBilled: opts.MaxBytesBilled,
	}, nil
}

func (b *BigQuery) Query(ctx context.Context, st models.Statement) (*models.Table, error) {
	if b.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.jobTimeout)
		defer cancel()
	}

	q := b.client.Query(st.SQL)
	q.MaxBytesBilled = b.maxBytesBilled
	for _, p := range st.Params {
		q.Parameters = append(q.Parameters, bigquery.QueryParameter{Name: p.Name, Value: p.Value})
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, wrapTimeout(fmt.Errorf("bigquery read: %w", err))
	}

	t := &models.Table{Rows: [][]any{}}
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, wrapTimeout(fmt.Errorf("bigquery next: %w", err))
		}
		out := make([]any, len(row))
		for i, v := range row {
			out[i] = bigQueryValue(v)
		}
		t.Rows = append(t.Rows, out)
	}
	for _, f := range it.Schema {
		t.Columns = append(t.Columns, f.Name)
	}
	return t, nil
}

func (b *BigQuery) Ping(ctx context.Context) error {
	_, err := b.Query(ctx, models.Statement{SQL: "SELECT 1"})
	return err
}

func (b *BigQuery) Close() error {
	return b.client.Close()
}

// bigQueryValue maps civil and numeric types onto values the JSON encoder
// and the chart builder already understand.
func bigQueryValue(v bigquery.Value) any {
	switch x := v.(type) {
	case civil.Date:
		return x.String()
	case civil.Time:
		return x.String()
	case civil.DateTime:
		return x.String()
	case *big.Rat:
		if x == nil {
			return nil
		}
		f, _ := x.Float64()
		return f
	case []byte:
		return string(x)
	case []bigquery.Value:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = bigQueryValue(e)
		}
		return out
	default:
		return v
	}
}
