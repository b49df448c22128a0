package intent

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Dialect covers the handful of syntax differences the templates run into.
type Dialect interface {
	Name() string
	Table(fq string) string
	Ident(col string) string
	CurrentDate() string
	DaysAgo(n int) string
	HourOf(expr string) string
	// Placeholder returns the bind marker for the pos-th (1-based) parameter.
	Placeholder(name string, pos int) string
}

type BigQuery struct{}

func (BigQuery) Name() string { return "bigquery" }

func (BigQuery) Table(fq string) string {
	return "`" + strings.Trim(fq, "`") + "`"
}

func (BigQuery) Ident(col string) string { return col }

func (BigQuery) CurrentDate() string { return "CURRENT_DATE()" }

func (BigQuery) DaysAgo(n int) string {
	return fmt.Sprintf("DATE_SUB(CURRENT_DATE(), INTERVAL %d DAY)", n)
}

func (BigQuery) HourOf(expr string) string {
	return "EXTRACT(HOUR FROM " + expr + ")"
}

func (BigQuery) Placeholder(name string, _ int) string { return "@" + name }

type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Table(fq string) string {
	return pgx.Identifier(strings.Split(fq, ".")).Sanitize()
}

func (Postgres) Ident(col string) string {
	return pgx.Identifier{col}.Sanitize()
}

func (Postgres) CurrentDate() string { return "CURRENT_DATE" }

func (Postgres) DaysAgo(n int) string {
	return fmt.Sprintf("(CURRENT_DATE - %d)", n)
}

func (Postgres) HourOf(expr string) string {
	return "CAST(EXTRACT(HOUR FROM " + expr + ") AS INTEGER)"
}

func (Postgres) Placeholder(_ string, pos int) string { return fmt.Sprintf("$%d", pos) }

// DialectFor maps a warehouse driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "bigquery", "":
		return BigQuery{}, nil
	case "postgres", "postgresql":
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", driver)
	}
}
