// Package shape turns warehouse result tables into chart payloads and
// record cards.
package shape

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"

	"github.com/ticketlens/backend/internal/models"
)

type Shape int

const (
	Empty Shape = iota
	AggregateCount
	ScalarTotal
	TimeSeries
	IdentifierKeyed
	Generic
)

func (s Shape) String() string {
	switch s {
	case Empty:
		return "empty"
	case AggregateCount:
		return "aggregate_count"
	case ScalarTotal:
		return "scalar_total"
	case TimeSeries:
		return "time_series"
	case IdentifierKeyed:
		return "identifier_keyed"
	case Generic:
		return "generic"
	default:
		return "unknown"
	}
}

const (
	countColumn  = "cantidad"
	totalColumn  = "total"
	TotalLabel   = "Total"
	RecordsLabel = "Records Found"
)

var timeHints = []string{"fecha", "date", "hora", "hour", "timestamp"}

// Classify inspects the column set once. The first matching shape wins, so
// a table with both cantidad and Identifier is an aggregate.
func Classify(t *models.Table) Shape {
	switch {
	case t.Len() == 0:
		return Empty
	case t.ColumnIndex(countColumn) >= 0:
		return AggregateCount
	case t.ColumnIndex(totalColumn) >= 0:
		return ScalarTotal
	case timeColumn(t) >= 0:
		return TimeSeries
	case identifierColumn(t) >= 0:
		return IdentifierKeyed
	default:
		return Generic
	}
}

func timeColumn(t *models.Table) int {
	for i, c := range t.Columns {
		if isTimeName(c) {
			return i
		}
	}
	return -1
}

// isTimeName matches columns whose name has a word starting with a time
// hint, such as Fecha_de_inicio, hora or created_date. Hints inside a word
// (updated_by, ahora) do not count.
func isTimeName(col string) bool {
	words := strings.FieldsFunc(strings.ToLower(col), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		for _, h := range timeHints {
			if strings.HasPrefix(w, h) {
				return true
			}
		}
	}
	return false
}

func identifierColumn(t *models.Table) int {
	if i := t.ColumnIndex(models.ColIdentifier); i >= 0 {
		return i
	}
	return t.ColumnIndex(models.ColID)
}

// Chart builds the chart payload for t, or nil when t has no rows. At most
// max points are kept.
func Chart(t *models.Table, max int) *models.Chart {
	if max <= 0 {
		max = 15
	}
	var c *models.Chart
	switch Classify(t) {
	case Empty:
		return nil
	case AggregateCount:
		c = pairs(t, 0, t.ColumnIndex(countColumn))
	case ScalarTotal:
		v, _ := Number(t.Rows[0][t.ColumnIndex(totalColumn)])
		c = &models.Chart{Labels: []string{TotalLabel}, Values: []float64{v}}
	case TimeSeries:
		c = timeSeries(t, timeColumn(t))
	case IdentifierKeyed:
		c = identifierKeyed(t, identifierColumn(t))
	default:
		c = &models.Chart{Labels: []string{RecordsLabel}, Values: []float64{float64(t.Len())}}
	}
	return truncate(c, max)
}

func pairs(t *models.Table, labelCol, valueCol int) *models.Chart {
	c := &models.Chart{Labels: []string{}, Values: []float64{}}
	for _, row := range t.Rows {
		v, _ := Number(cell(row, valueCol))
		c.Labels = append(c.Labels, Label(cell(row, labelCol)))
		c.Values = append(c.Values, v)
	}
	return c
}

// timeSeries passes a two-column (time, number) table through and otherwise
// counts rows per time value in first-seen order.
func timeSeries(t *models.Table, col int) *models.Chart {
	if len(t.Columns) == 2 {
		other := 1 - col
		if isNumericColumn(t, other) {
			return pairs(t, col, other)
		}
	}
	c := &models.Chart{Labels: []string{}, Values: []float64{}}
	pos := map[string]int{}
	for _, row := range t.Rows {
		l := Label(cell(row, col))
		i, ok := pos[l]
		if !ok {
			i = len(c.Labels)
			pos[l] = i
			c.Labels = append(c.Labels, l)
			c.Values = append(c.Values, 0)
		}
		c.Values[i]++
	}
	return c
}

func identifierKeyed(t *models.Table, col int) *models.Chart {
	for i := range t.Columns {
		if i != col && isNumericColumn(t, i) {
			return pairs(t, col, i)
		}
	}
	c := &models.Chart{Labels: []string{}, Values: []float64{}}
	for n, row := range t.Rows {
		c.Labels = append(c.Labels, Label(cell(row, col)))
		c.Values = append(c.Values, float64(n+1))
	}
	return c
}

func truncate(c *models.Chart, max int) *models.Chart {
	if len(c.Labels) > max {
		c.Labels = c.Labels[:max]
	}
	if len(c.Values) > max {
		c.Values = c.Values[:max]
	}
	return c
}

// isNumericColumn holds when every non-null cell is a number and at least
// one cell is non-null.
func isNumericColumn(t *models.Table, col int) bool {
	seen := false
	for _, row := range t.Rows {
		v := cell(row, col)
		if v == nil {
			continue
		}
		if !isNumber(v) {
			return false
		}
		seen = true
	}
	return seen
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func cell(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// Number coerces a cell to float64. Nulls and non-numeric text yield 0.
func Number(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Label renders a cell as chart label text.
func Label(v any) string {
	switch x := v.(type) {
	case nil:
		return "N/A"
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "Sí"
		}
		return "No"
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
