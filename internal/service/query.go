// Package service answers free-text ticket questions: it picks a statement,
// runs it, and shapes the result for the API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ticketlens/backend/internal/intent"
	"github.com/ticketlens/backend/internal/models"
	"github.com/ticketlens/backend/internal/shape"
	"github.com/ticketlens/backend/internal/warehouse"
)

type Mode string

const (
	ModeRules  Mode = "rules"
	ModeHybrid Mode = "hybrid"
	ModeLLM    Mode = "llm"
)

// GeneratedIntent labels statements written by the SQL generator.
const GeneratedIntent = "generated"

type Options struct {
	Mode             Mode
	ChartMaxPoints   int
	CardMax          int
	CardRowThreshold int
	RawDataMax       int
}

type QueryService struct {
	Classifier *intent.Classifier
	Bank       intent.Bank
	Warehouse  warehouse.Warehouse
	SQLGen     *SQLGenerator
	Narrator   *Narrator
	Options    Options
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Answer runs the full pipeline for one question. Errors wrap ErrNoSQL when
// no statement could be produced and warehouse.ErrTimeout when the query
// ran out of time.
func (s *QueryService) Answer(ctx context.Context, query string) (models.QueryResponse, error) {
	st, label, err := s.plan(ctx, query)
	if err != nil {
		return models.QueryResponse{}, err
	}

	start := time.Now()
	t, err := s.Warehouse.Query(ctx, st)
	if err != nil {
		s.Logger.Error().Err(err).Str("intent", label).Str("sql", st.SQL).Msg("query failed")
		return models.QueryResponse{}, fmt.Errorf("run query: %w", err)
	}
	s.Logger.Info().
		Str("intent", label).
		Str("sql", st.SQL).
		Int("rows", t.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("query executed")

	chart := shape.Chart(t, s.Options.ChartMaxPoints)
	cards := shape.Cards(t, query, shape.CardOptions{
		Max:          s.Options.CardMax,
		RowThreshold: s.Options.CardRowThreshold,
	})

	text := FallbackText(t, chart)
	if s.Narrator != nil {
		text = s.Narrator.Narrate(ctx, query, t, chart)
	}

	return models.QueryResponse{
		Text:        text,
		Chart:       chart,
		DataCount:   t.Len(),
		RawData:     t.Records(s.Options.RawDataMax),
		Tickets:     cards,
		SQLExecuted: st.SQL,
		Intent:      label,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *QueryService) plan(ctx context.Context, query string) (models.Statement, string, error) {
	switch s.Options.Mode {
	case ModeRules:
		return s.rules(query)

	case ModeLLM:
		if s.SQLGen != nil && strings.TrimSpace(query) != "" {
			st, err := s.SQLGen.Generate(ctx, query)
			if err == nil {
				return st, GeneratedIntent, nil
			}
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return models.Statement{}, "", err
			}
			s.Logger.Warn().Err(err).Msg("generated SQL unavailable, using rules")
		}
		return s.rules(query)

	default:
		st, label, err := s.rules(query)
		if err != nil || label != string(intent.Default) || s.SQLGen == nil || strings.TrimSpace(query) == "" {
			return st, label, err
		}
		st, err = s.SQLGen.Generate(ctx, query)
		if err != nil {
			return models.Statement{}, "", err
		}
		return st, GeneratedIntent, nil
	}
}

func (s *QueryService) rules(query string) (models.Statement, string, error) {
	in := s.Classifier.Classify(query)
	return s.Bank.Statement(in), string(in.Kind), nil
}

func (s *QueryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
