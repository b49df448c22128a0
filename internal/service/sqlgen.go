package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ticketlens/backend/internal/ai"
	"github.com/ticketlens/backend/internal/intent"
	"github.com/ticketlens/backend/internal/models"
)

var (
	ErrNoSQL              = errors.New("no usable SQL generated")
	errForbiddenStatement = errors.New("statement contains a forbidden keyword")
	errMultipleStatements = errors.New("multiple SQL statements not allowed")
	errNotSelect          = errors.New("statement is not a SELECT")
)

var (
	forbiddenKeywords = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|INSERT|ALTER|CREATE|TRUNCATE)\b`)
	selectKeyword     = regexp.MustCompile(`(?i)\bSELECT\b`)
	codeFence         = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
)

// SQLGenerator asks a generative model for a single read-only statement
// answering a question the keyword rules could not place.
type SQLGenerator struct {
	Generator ai.Generator
	Dialect   intent.Dialect
	Table     string
	Logger    zerolog.Logger
}

func (g *SQLGenerator) Generate(ctx context.Context, question string) (models.Statement, error) {
	if g.Generator == nil {
		return models.Statement{}, fmt.Errorf("%w: %w", ErrNoSQL, ai.ErrNotConfigured)
	}
	raw, err := g.Generator.Generate(ctx, g.Prompt(question))
	if err != nil {
		return models.Statement{}, fmt.Errorf("%w: %w", ErrNoSQL, err)
	}
	sql, err := CleanSQL(raw)
	if err != nil {
		g.Logger.Warn().Err(err).Str("raw", raw).Msg("generated SQL rejected")
		return models.Statement{}, fmt.Errorf("%w: %w", ErrNoSQL, err)
	}
	return models.Statement{SQL: sql}, nil
}

func (g *SQLGenerator) dialect() intent.Dialect {
	if g.Dialect == nil {
		return intent.BigQuery{}
	}
	return g.Dialect
}

func (g *SQLGenerator) Prompt(question string) string {
	d := g.dialect()
	t := d.Table(g.Table)

	var b strings.Builder
	fmt.Fprintf(&b, "Eres un experto en SQL para %s. Escribe UNA sola consulta SELECT que responda la pregunta.\n", dialectLabel(d))
	fmt.Fprintf(&b, "Tabla: %s\n\nCampos:\n", t)
	for _, f := range models.TicketFields {
		fmt.Fprintf(&b, "- %s (%s): %s\n", d.Ident(f.Name), f.Type, f.Description)
	}
	b.WriteString("\nReglas:\n")
	b.WriteString("- Solo SELECT. Nunca DROP, DELETE, UPDATE, INSERT, ALTER, CREATE ni TRUNCATE.\n")
	b.WriteString("- Para conteos agrupados usa el alias cantidad; para un conteo simple usa el alias total.\n")
	b.WriteString("- Limita los listados a 50 filas como maximo.\n")
	fmt.Fprintf(&b, "- La fecha actual es %s.\n", d.CurrentDate())
	b.WriteString("- Responde solo con el SQL, sin explicaciones.\n\nEjemplos:\n")

	status := d.Ident(models.ColStatus)
	channel := d.Ident(models.ColChannel)
	date := d.Ident(models.ColStartDate)
	escalated := d.Ident(models.ColEscalated)
	fmt.Fprintf(&b, "Pregunta: tickets por estado\nSQL: SELECT %s, COUNT(*) AS cantidad FROM %s GROUP BY %s ORDER BY cantidad DESC\n", status, t, status)
	fmt.Fprintf(&b, "Pregunta: tickets escalados por canal\nSQL: SELECT %s, COUNT(*) AS cantidad FROM %s WHERE %s = TRUE GROUP BY %s ORDER BY cantidad DESC\n", channel, t, escalated, channel)
	fmt.Fprintf(&b, "Pregunta: tickets de la ultima semana\nSQL: SELECT %s, COUNT(*) AS cantidad FROM %s WHERE %s >= %s GROUP BY %s ORDER BY %s DESC\n", date, t, date, d.DaysAgo(7), date, date)

	fmt.Fprintf(&b, "\nPregunta: %s\nSQL:", strings.TrimSpace(question))
	return b.String()
}

func dialectLabel(d intent.Dialect) string {
	if d.Name() == "postgres" {
		return "PostgreSQL"
	}
	return "Google BigQuery"
}

// CleanSQL extracts a statement from a model reply and rejects anything
// that is not a single read-only SELECT.
func CleanSQL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = m[1]
	} else if strings.HasPrefix(s, "```") {
		// unterminated fence
		s = strings.TrimPrefix(s, "```")
		if len(s) >= 3 && strings.EqualFold(s[:3], "sql") {
			s = s[3:]
		}
	}
	s = stripTrailingSemicolon(strings.TrimSpace(s))

	switch {
	case s == "":
		return "", ErrNoSQL
	case !selectKeyword.MatchString(s):
		return "", errNotSelect
	case forbiddenKeywords.MatchString(s):
		return "", fmt.Errorf("%w: %s", errForbiddenStatement, strings.ToUpper(forbiddenKeywords.FindString(s)))
	case hasSemicolonOutsideStrings(s):
		return "", errMultipleStatements
	}
	return s, nil
}

func stripTrailingSemicolon(s string) string {
	s = strings.TrimRight(s, " \t\n\r")
	for strings.HasSuffix(s, ";") {
		s = strings.TrimRight(strings.TrimSuffix(s, ";"), " \t\n\r")
	}
	return s
}

func hasSemicolonOutsideStrings(s string) bool {
	const (
		normal = iota
		single
		double
		backtick
	)
	state := normal
	prev := rune(0)
	for _, r := range s {
		switch state {
		case normal:
			switch r {
			case ';':
				return true
			case '\'':
				state = single
			case '"':
				state = double
			case '`':
				state = backtick
			}
		case single:
			if r == '\'' && prev != '\\' {
				state = normal
			}
		case double:
			if r == '"' && prev != '\\' {
				state = normal
			}
		case backtick:
			if r == '`' {
				state = normal
			}
		}
		prev = r
	}
	return false
}
