package shape

import (
	"github.com/ticketlens/backend/internal/intent"
	"github.com/ticketlens/backend/internal/models"
)

type cardField struct {
	Column   string
	Key      string
	Truncate bool
}

var cardFields = []cardField{
	{Column: models.ColIdentifier, Key: "identifier"},
	{Column: models.ColID, Key: "id"},
	{Column: models.ColCustomer, Key: "cliente"},
	{Column: models.ColStatus, Key: "estado"},
	{Column: models.ColChannel, Key: "canal"},
	{Column: models.ColDepartment, Key: "departamento"},
	{Column: models.ColCompany, Key: "empresa"},
	{Column: models.ColTypification, Key: "tipificacion"},
	{Column: models.ColSentiment, Key: "sentimiento"},
	{Column: models.ColEscalated, Key: "escalado"},
	{Column: models.ColMessages, Key: "mensajes"},
	{Column: models.ColStartDate, Key: "fecha"},
	{Column: models.ColStartTime, Key: "hora"},
	{Column: models.ColFirstMessage, Key: "mensaje", Truncate: true},
}

const textLimit = 100

var (
	DetailMarkers = intent.Markers{
		Any: []string{
			"ultimos", "ultimas", "recientes", "mostrar", "muestra", "muestrame",
			"listar", "lista de", "detalle", "escalado", "buscar", "cliente", "hoy", "ayer",
		},
		Words: []string{"ver"},
	}
	AggregateMarkers = intent.Markers{
		Any: []string{
			"total", "cuantos", "cuantas", "cantidad", "promedio", "resumen", "distribucion",
			"por canal", "por estado", "por sentimiento", "por departamento", "por empresa",
			"por hora", "por dia", "por fecha",
		},
	}
)

type CardOptions struct {
	Max          int
	RowThreshold int
}

// Cards builds record cards for detail-style questions. Cards are produced
// only when the question reads as a detail request, not as an aggregate one,
// and the table has at most RowThreshold rows.
func Cards(t *models.Table, query string, opts CardOptions) []models.Card {
	cards := []models.Card{}
	if t.Len() == 0 {
		return cards
	}
	if opts.Max <= 0 {
		opts.Max = 15
	}
	if opts.RowThreshold <= 0 {
		opts.RowThreshold = 20
	}
	if !WantsCards(query) || t.Len() > opts.RowThreshold {
		return cards
	}

	idx := make([]int, len(cardFields))
	for i, f := range cardFields {
		idx[i] = t.ColumnIndex(f.Column)
	}
	for _, row := range t.Rows {
		if len(cards) == opts.Max {
			break
		}
		card := models.Card{}
		for i, f := range cardFields {
			v := cell(row, idx[i])
			if v == nil {
				continue
			}
			s := Label(v)
			if f.Truncate {
				s = truncateText(s, textLimit)
			}
			card[f.Key] = s
		}
		if len(card) > 0 {
			cards = append(cards, card)
		}
	}
	return cards
}

// WantsCards applies the detail/aggregate keyword gate. A question matching
// both sets gets no cards.
func WantsCards(query string) bool {
	q := intent.Normalize(query)
	return DetailMarkers.Match(q) && !AggregateMarkers.Match(q)
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
