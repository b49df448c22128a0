package models

import "strings"

// Table is the in-memory result of one warehouse query. Values are plain
// Go types (string, int64, float64, bool, time.Time or nil).
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex finds a column by name, ignoring case. Returns -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Records converts at most limit rows into column-keyed maps.
func (t *Table) Records(limit int) []map[string]any {
	n := t.Len()
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]map[string]any, 0, n)
	for _, row := range t.Rows[:n] {
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(row) {
				rec[c] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

type Chart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type Card map[string]string

type QueryRequest struct {
	Query string `json:"query" validate:"max=2000"`
}

type QueryResponse struct {
	Text        string           `json:"text"`
	Chart       *Chart           `json:"chart"`
	DataCount   int              `json:"data_count"`
	RawData     []map[string]any `json:"raw_data,omitempty"`
	Tickets     []Card           `json:"tickets,omitempty"`
	SQLExecuted string           `json:"sql_executed,omitempty"`
	Intent      string           `json:"intent,omitempty"`
	Timestamp   string           `json:"timestamp"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Text  string    `json:"text"`
	Chart *Chart    `json:"chart"`
	Error ErrorBody `json:"error"`
}

// Statement is a SQL string plus its bound parameters, in placeholder order.
type Statement struct {
	SQL    string  `json:"sql"`
	Params []Param `json:"params,omitempty"`
}

type Param struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}
