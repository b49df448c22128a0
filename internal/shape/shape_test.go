package shape

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketlens/backend/internal/models"
)

func TestChartAggregateCount(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{"Canal", "cantidad"},
		Rows: [][]any{
			{"whatsapp", int64(40)},
			{"email", int64(25)},
			{"facebook", int64(3)},
		},
	}
	c := Chart(tbl, 15)
	require.NotNil(t, c)
	assert.Equal(t, []string{"whatsapp", "email", "facebook"}, c.Labels)
	assert.Equal(t, []float64{40, 25, 3}, c.Values)
}

func TestChartTruncates(t *testing.T) {
	tbl := &models.Table{Columns: []string{"Empresa", "cantidad"}}
	for i := 0; i < 40; i++ {
		tbl.Rows = append(tbl.Rows, []any{"e", int64(i)})
	}
	for _, max := range []int{10, 15, 20} {
		c := Chart(tbl, max)
		assert.Len(t, c.Labels, max)
		assert.Len(t, c.Values, max)
	}
}

func TestChartEmpty(t *testing.T) {
	tbl := &models.Table{Columns: []string{"Canal", "cantidad"}}
	assert.Nil(t, Chart(tbl, 15))
	assert.Equal(t, Empty, Classify(tbl))
	assert.Empty(t, Cards(tbl, "últimos tickets", CardOptions{}))
	assert.NotNil(t, Cards(tbl, "últimos tickets", CardOptions{}))
}

func TestChartScalarTotal(t *testing.T) {
	tbl := &models.Table{Columns: []string{"total"}, Rows: [][]any{{int64(1234)}}}
	c := Chart(tbl, 15)
	assert.Equal(t, []string{TotalLabel}, c.Labels)
	assert.Equal(t, []float64{1234}, c.Values)
}

func TestClassifyCountBeatsIdentifier(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{"Identifier", "cantidad"},
		Rows:    [][]any{{"T-1", int64(2)}},
	}
	assert.Equal(t, AggregateCount, Classify(tbl))
}

func TestChartTimeSeriesGroups(t *testing.T) {
	d1 := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tbl := &models.Table{
		Columns: []string{"Identifier", "Estado", "Mensajes", "Fecha_de_inicio"},
		Rows: [][]any{
			{"T-1", "abierto", int64(3), d1},
			{"T-2", "cerrado", int64(1), d1},
			{"T-3", "abierto", int64(8), d2},
		},
	}
	assert.Equal(t, TimeSeries, Classify(tbl))
	c := Chart(tbl, 15)
	assert.Equal(t, []string{"2024-05-02", "2024-05-01"}, c.Labels)
	assert.Equal(t, []float64{2, 1}, c.Values)
}

func TestChartTimeSeriesPassThrough(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{"fecha", "tickets"},
		Rows:    [][]any{{"2024-05-02", int64(7)}, {"2024-05-01", float64(4)}},
	}
	c := Chart(tbl, 15)
	assert.Equal(t, []string{"2024-05-02", "2024-05-01"}, c.Labels)
	assert.Equal(t, []float64{7, 4}, c.Values)
}

func TestChartIdentifierKeyed(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{"ID", "Nick_del_Cliente", "Mensajes"},
		Rows:    [][]any{{int64(9), "ana", int64(30)}, {int64(4), "beto", nil}},
	}
	c := Chart(tbl, 15)
	assert.Equal(t, []string{"9", "4"}, c.Labels)
	assert.Equal(t, []float64{30, 0}, c.Values)

	noNumbers := &models.Table{
		Columns: []string{"Identifier", "Estado"},
		Rows:    [][]any{{"T-1", "abierto"}, {"T-2", "cerrado"}},
	}
	c = Chart(noNumbers, 15)
	assert.Equal(t, []string{"T-1", "T-2"}, c.Labels)
	assert.Equal(t, []float64{1, 2}, c.Values)
}

func TestChartGeneric(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{"Estado", "Canal"},
		Rows:    [][]any{{"a", "b"}, {"c", "d"}, {"e", "f"}},
	}
	c := Chart(tbl, 15)
	assert.Equal(t, []string{RecordsLabel}, c.Labels)
	assert.Equal(t, []float64{3}, c.Values)
}

func TestClassifyTimeColumnNames(t *testing.T) {
	for _, col := range []string{"Fecha_de_inicio", "Hora_de_inicio", "created_date", "FechaCierre", "hour"} {
		assert.True(t, isTimeName(col), col)
	}
	for _, col := range []string{"updated_by", "ahora_pendiente", "Estado", "candidate"} {
		assert.False(t, isTimeName(col), col)
	}

	tbl := &models.Table{
		Columns: []string{"updated_by", "Estado"},
		Rows:    [][]any{{"ana", "abierto"}, {"beto", "cerrado"}},
	}
	assert.Equal(t, Generic, Classify(tbl))
	c := Chart(tbl, 15)
	assert.Equal(t, []string{RecordsLabel}, c.Labels)
	assert.Equal(t, []float64{2}, c.Values)
}

func TestChartLengthsAlwaysMatch(t *testing.T) {
	tables := []*models.Table{
		{Columns: []string{"Canal", "cantidad"}, Rows: [][]any{{"x", "12"}, {nil, nil}}},
		{Columns: []string{"total"}, Rows: [][]any{{nil}}},
		{Columns: []string{"Hora_de_inicio"}, Rows: [][]any{{"10:00:00"}, {"10:00:00"}, {nil}}},
		{Columns: []string{"Identifier"}, Rows: [][]any{{"a"}}},
		{Columns: []string{"x"}, Rows: [][]any{{1}}},
	}
	for _, tbl := range tables {
		c := Chart(tbl, 15)
		require.NotNil(t, c)
		assert.Equal(t, len(c.Labels), len(c.Values), tbl.Columns)
	}
}

func detailTable(n int) *models.Table {
	tbl := &models.Table{Columns: []string{"Identifier", "Nick_del_Cliente", "Estado", "Primer_Mensaje", "Escalado"}}
	for i := 0; i < n; i++ {
		tbl.Rows = append(tbl.Rows, []any{"T", "ana", nil, strings.Repeat("á", 150), true})
	}
	return tbl
}

func TestCardsGate(t *testing.T) {
	opts := CardOptions{Max: 15, RowThreshold: 20}

	assert.Len(t, Cards(detailTable(3), "últimos tickets", opts), 3)
	assert.Empty(t, Cards(detailTable(3), "últimos tickets en total", opts))
	assert.Empty(t, Cards(detailTable(3), "tickets por canal", opts))
	assert.Empty(t, Cards(detailTable(21), "últimos tickets", opts))
	assert.Len(t, Cards(detailTable(20), "mostrar tickets", opts), 15)
}

func TestCardsFields(t *testing.T) {
	cards := Cards(detailTable(1), "ver escalados", CardOptions{})
	require.Len(t, cards, 1)
	card := cards[0]
	assert.Equal(t, "T", card["identifier"])
	assert.Equal(t, "ana", card["cliente"])
	assert.Equal(t, "Sí", card["escalado"])
	assert.NotContains(t, card, "estado")
	assert.Equal(t, strings.Repeat("á", 100)+"...", card["mensaje"])
}

func TestWantsCards(t *testing.T) {
	assert.True(t, WantsCards("Muéstrame los tickets escalados"))
	assert.False(t, WantsCards("últimos totales por canal"))
	assert.False(t, WantsCards("conversaciones"))
}

func TestNumber(t *testing.T) {
	v, ok := Number("12.5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)
	_, ok = Number("abc")
	assert.False(t, ok)
	v, _ = Number(int32(7))
	assert.Equal(t, 7.0, v)
}
