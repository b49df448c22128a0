package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketlens/backend/internal/ai"
	"github.com/ticketlens/backend/internal/intent"
	"github.com/ticketlens/backend/internal/models"
	"github.com/ticketlens/backend/internal/warehouse"
)

type fakeWarehouse struct {
	table *models.Table
	err   error
	seen  []models.Statement
}

func (f *fakeWarehouse) Query(ctx context.Context, st models.Statement) (*models.Table, error) {
	f.seen = append(f.seen, st)
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func (f *fakeWarehouse) Ping(ctx context.Context) error { return f.err }

func (f *fakeWarehouse) Close() error { return nil }

func channelTable() *models.Table {
	return &models.Table{
		Columns: []string{"Canal", "cantidad"},
		Rows:    [][]any{{"email", int64(12)}, {"whatsapp", int64(40)}},
	}
}

func newService(wh warehouse.Warehouse, gen ai.Generator, mode Mode) *QueryService {
	s := &QueryService{
		Classifier: intent.NewClassifier(50, 500),
		Bank:       intent.Bank{Dialect: intent.BigQuery{}, Table: "p.d.t"},
		Warehouse:  wh,
		Options:    Options{Mode: mode, ChartMaxPoints: 15, CardMax: 15, CardRowThreshold: 20, RawDataMax: 100},
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
	if gen != nil {
		s.SQLGen = &SQLGenerator{Generator: gen, Table: "p.d.t", Logger: zerolog.Nop()}
		s.Narrator = &Narrator{Generator: gen, Logger: zerolog.Nop()}
	}
	return s
}

func TestAnswerRulesMode(t *testing.T) {
	wh := &fakeWarehouse{table: channelTable()}
	s := newService(wh, nil, ModeRules)

	resp, err := s.Answer(context.Background(), "total de tickets por canal")
	require.NoError(t, err)

	require.Len(t, wh.seen, 1)
	assert.Contains(t, wh.seen[0].SQL, "GROUP BY Canal")
	assert.Equal(t, "by_channel", resp.Intent)
	assert.Equal(t, 2, resp.DataCount)
	assert.Equal(t, []string{"email", "whatsapp"}, resp.Chart.Labels)
	assert.Equal(t, []float64{12, 40}, resp.Chart.Values)
	assert.Empty(t, resp.Tickets)
	assert.Len(t, resp.RawData, 2)
	assert.Equal(t, "2024-05-01T12:00:00Z", resp.Timestamp)
	assert.Equal(t, "Encontré 2 registros para tu consulta. El valor más frecuente es whatsapp con 40.", resp.Text)
}

func TestAnswerHybridUsesGeneratorForUnknownQuestion(t *testing.T) {
	wh := &fakeWarehouse{table: channelTable()}
	gen := &ai.MockGenerator{Replies: []string{
		"```sql\nSELECT Canal, COUNT(*) AS cantidad FROM `p.d.t` WHERE Escalado = TRUE GROUP BY Canal;\n```",
		"Hay 40 tickets escalados por WhatsApp.",
	}}
	s := newService(wh, gen, ModeHybrid)

	resp, err := s.Answer(context.Background(), "tickets con más mensajes")
	require.NoError(t, err)

	assert.Equal(t, GeneratedIntent, resp.Intent)
	assert.Equal(t, "SELECT Canal, COUNT(*) AS cantidad FROM `p.d.t` WHERE Escalado = TRUE GROUP BY Canal", resp.SQLExecuted)
	assert.Equal(t, "Hay 40 tickets escalados por WhatsApp.", resp.Text)

	prompts := gen.Prompts()
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[0], "Pregunta: tickets con más mensajes")
	assert.Contains(t, prompts[1], "Total de registros: 2")
}

func TestAnswerHybridKeepsRulesForKnownIntent(t *testing.T) {
	wh := &fakeWarehouse{table: channelTable()}
	gen := &ai.MockGenerator{Replies: []string{"narración"}}
	s := newService(wh, gen, ModeHybrid)

	resp, err := s.Answer(context.Background(), "tickets por canal")
	require.NoError(t, err)
	assert.Equal(t, "by_channel", resp.Intent)
	assert.Len(t, gen.Prompts(), 1, "only the narrator calls the model")
}

func TestAnswerRejectsDestructiveSQL(t *testing.T) {
	for _, reply := range []string{
		"DROP TABLE tickets",
		"SELECT * FROM t; DELETE FROM t",
		"UPDATE t SET Estado = 'x'",
		"no sé",
		"",
	} {
		wh := &fakeWarehouse{table: channelTable()}
		gen := &ai.MockGenerator{Replies: []string{reply}}
		s := newService(wh, gen, ModeHybrid)

		_, err := s.Answer(context.Background(), "algo que no entiendo")
		require.Error(t, err, reply)
		assert.ErrorIs(t, err, ErrNoSQL, reply)
		assert.Empty(t, wh.seen, "nothing reaches the warehouse for %q", reply)
	}
}

func TestAnswerLLMModeFallsBackToRules(t *testing.T) {
	wh := &fakeWarehouse{table: channelTable()}
	gen := &ai.MockGenerator{Err: errors.New("quota exceeded")}
	s := newService(wh, gen, ModeLLM)

	resp, err := s.Answer(context.Background(), "tickets por canal")
	require.NoError(t, err)
	assert.Equal(t, "by_channel", resp.Intent)
	assert.Contains(t, resp.Text, "Encontré 2 registros")
}

func TestAnswerLLMModeStopsOnCancel(t *testing.T) {
	wh := &fakeWarehouse{table: channelTable()}
	gen := &ai.MockGenerator{Err: context.Canceled}
	s := newService(wh, gen, ModeLLM)

	_, err := s.Answer(context.Background(), "tickets por canal")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, wh.seen, "no rules fallback after cancellation")
}

func TestAnswerHybridGenerationTimeout(t *testing.T) {
	wh := &fakeWarehouse{table: channelTable()}
	gen := &ai.MockGenerator{Err: context.DeadlineExceeded}
	s := newService(wh, gen, ModeHybrid)

	_, err := s.Answer(context.Background(), "algo que ninguna regla reconoce")
	assert.ErrorIs(t, err, ErrNoSQL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnswerWarehouseErrors(t *testing.T) {
	wh := &fakeWarehouse{err: fmt.Errorf("%w: deadline", warehouse.ErrTimeout)}
	s := newService(wh, nil, ModeRules)

	_, err := s.Answer(context.Background(), "tickets por estado")
	assert.ErrorIs(t, err, warehouse.ErrTimeout)
}

func TestAnswerEmptyResult(t *testing.T) {
	wh := &fakeWarehouse{table: &models.Table{Columns: []string{"Identifier"}, Rows: [][]any{}}}
	s := newService(wh, nil, ModeHybrid)

	resp, err := s.Answer(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "default", resp.Intent)
	assert.Nil(t, resp.Chart)
	assert.Equal(t, 0, resp.DataCount)
	assert.Empty(t, resp.Tickets)
	assert.Equal(t, "No encontré registros que coincidan con tu consulta.", resp.Text)
}

func TestAnswerBuildsCardsForDetailQuestions(t *testing.T) {
	wh := &fakeWarehouse{table: &models.Table{
		Columns: []string{"Identifier", "Nick_del_Cliente", "Estado"},
		Rows:    [][]any{{"T-1", "ana", "abierto"}, {"T-2", "beto", "cerrado"}},
	}}
	s := newService(wh, nil, ModeRules)

	resp, err := s.Answer(context.Background(), "últimos 2 tickets")
	require.NoError(t, err)
	assert.Equal(t, "recent_n", resp.Intent)
	assert.Contains(t, resp.SQLExecuted, "LIMIT 2")
	require.Len(t, resp.Tickets, 2)
	assert.Equal(t, "beto", resp.Tickets[1]["cliente"])
}
