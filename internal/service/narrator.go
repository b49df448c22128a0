package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ticketlens/backend/internal/ai"
	"github.com/ticketlens/backend/internal/models"
	"github.com/ticketlens/backend/internal/shape"
)

// Narrator writes the conversational answer for a result table.
type Narrator struct {
	Generator  ai.Generator
	SampleRows int
	Logger     zerolog.Logger
}

// Narrate never fails: without a model, or when the model errors or
// answers with nothing, a templated summary is returned instead.
func (n *Narrator) Narrate(ctx context.Context, question string, t *models.Table, chart *models.Chart) string {
	if n.Generator == nil {
		return FallbackText(t, chart)
	}
	text, err := n.Generator.Generate(ctx, n.Prompt(question, t))
	if err != nil {
		n.Logger.Warn().Err(err).Msg("narration failed, using template")
		return FallbackText(t, chart)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackText(t, chart)
	}
	return text
}

func (n *Narrator) Prompt(question string, t *models.Table) string {
	sample := n.SampleRows
	if sample <= 0 {
		sample = 5
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Usuario pregunta sobre tickets de soporte: %s\n", strings.TrimSpace(question))
	fmt.Fprintf(&b, "Datos encontrados:\n%s\n", renderRows(t, sample))
	fmt.Fprintf(&b, "Total de registros: %d\n\n", t.Len())
	b.WriteString("Responde en español de forma conversacional y profesional.\n")
	b.WriteString("Si hay datos específicos como estados, canales o clientes, menciónalos.\n")
	b.WriteString("Si hay números o estadísticas, resáltalos.\n")
	b.WriteString("Habla como un asistente de atención al cliente.\n")
	return b.String()
}

func renderRows(t *models.Table, limit int) string {
	if t.Len() == 0 {
		return "No hay datos"
	}
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, " | "))
	for i, row := range t.Rows {
		if i == limit {
			break
		}
		b.WriteString("\n")
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = shape.Label(v)
		}
		b.WriteString(strings.Join(cells, " | "))
	}
	return b.String()
}

// FallbackText summarises a result without a model.
func FallbackText(t *models.Table, chart *models.Chart) string {
	if t.Len() == 0 {
		return "No encontré registros que coincidan con tu consulta."
	}
	text := fmt.Sprintf("Encontré %d registros para tu consulta.", t.Len())
	if chart == nil || len(chart.Values) == 0 {
		return text
	}
	switch shape.Classify(t) {
	case shape.AggregateCount:
		top := 0
		for i, v := range chart.Values {
			if v > chart.Values[top] {
				top = i
			}
		}
		text += fmt.Sprintf(" El valor más frecuente es %s con %s.", chart.Labels[top], shape.Label(chart.Values[top]))
	case shape.ScalarTotal:
		text = fmt.Sprintf("El total es %s.", shape.Label(chart.Values[0]))
	}
	return text
}
