// Package intent maps a free-text question about tickets to one of a fixed
// set of query intents and renders the matching SQL template.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

type Kind string

const (
	Count          Kind = "count"
	ByStatus       Kind = "by_status"
	ByChannel      Kind = "by_channel"
	BySentiment    Kind = "by_sentiment"
	ByDepartment   Kind = "by_department"
	ByCompany      Kind = "by_company"
	ByHour         Kind = "by_hour"
	ByDateRange    Kind = "by_date_range"
	CustomerSearch Kind = "customer_search"
	RecentN        Kind = "recent_n"
	SLA            Kind = "sla"
	Typification   Kind = "typification"
	Default        Kind = "default"
)

// Aggregate reports whether the intent's template groups or counts rows
// rather than listing them.
func (k Kind) Aggregate() bool {
	switch k {
	case Count, ByStatus, ByChannel, BySentiment, ByDepartment, ByCompany, ByHour, SLA, Typification:
		return true
	}
	return false
}

type DateRange string

const (
	Today     DateRange = "today"
	Yesterday DateRange = "yesterday"
	LastWeek  DateRange = "week"
	LastMonth DateRange = "month"
)

// Rule pairs a keyword set with the intent it selects. A rule with no
// markers matches everything.
type Rule struct {
	Kind    Kind
	Markers Markers
}

func (r Rule) Matches(q string) bool {
	if r.Markers.Empty() {
		return true
	}
	return r.Markers.Match(q)
}

// DefaultRules is evaluated top to bottom; the first match wins. Group-by
// rules sit above the generic count so "total por canal" groups by channel.
var DefaultRules = []Rule{
	{ByChannel, Markers{Any: []string{"canal", "canales", "channel"}}},
	{ByStatus, Markers{Any: []string{"estado", "status"}}},
	{BySentiment, Markers{Any: []string{"sentimiento", "sentiment"}}},
	{ByDepartment, Markers{Any: []string{"departamento", "department"}, Words: []string{"area", "areas"}}},
	{ByCompany, Markers{Any: []string{"empresa", "compania", "company"}}},
	{ByHour, Markers{Words: []string{"hora", "horas", "horario", "hour", "hours"}}},
	{Typification, Markers{Any: []string{"tipificacion", "tipificaciones", "motivo"}}},
	{SLA, Markers{Any: []string{"abordaje", "abordado"}, Words: []string{"sla"}}},
	{Count, Markers{Any: []string{"total", "count", "cuantos", "cuantas", "cantidad"}}},
	{ByDateRange, Markers{Any: []string{"hoy", "today", "ayer", "yesterday", "semana", "week"}, Words: []string{"mes", "meses", "month", "months"}}},
	{CustomerSearch, Markers{Any: []string{"cliente", "customer"}}},
	{RecentN, Markers{Any: []string{"ultimos", "ultimas", "recientes", "latest"}}},
	{Default, Markers{}},
}

var dateRangeMarkers = []struct {
	Range   DateRange
	Markers Markers
}{
	{Today, Markers{Any: []string{"hoy", "today"}}},
	{Yesterday, Markers{Any: []string{"ayer", "yesterday"}}},
	{LastWeek, Markers{Any: []string{"semana", "week"}}},
	{LastMonth, Markers{Words: []string{"mes", "meses", "month", "months"}}},
}

// Intent is the classifier's verdict for one question.
type Intent struct {
	Kind     Kind
	Limit    int
	Range    DateRange
	Customer string
}

type Classifier struct {
	Rules        []Rule
	DefaultLimit int
	MaxLimit     int
}

func NewClassifier(defaultLimit, maxLimit int) *Classifier {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &Classifier{Rules: DefaultRules, DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

// Classify never fails: the last rule is a catch-all, and an empty rule set
// yields Default.
func (c *Classifier) Classify(query string) Intent {
	q := Normalize(query)
	kind := Default
	for _, r := range c.Rules {
		if r.Matches(q) {
			kind = r.Kind
			break
		}
	}

	in := Intent{Kind: kind}
	switch kind {
	case RecentN:
		in.Limit = c.ParseLimit(query)
	case ByDateRange:
		in.Range = LastWeek
		for _, dr := range dateRangeMarkers {
			if dr.Markers.Match(q) {
				in.Range = dr.Range
				break
			}
		}
	case CustomerSearch:
		in.Customer = ExtractCustomer(query)
	}
	return in
}

var digitsRe = regexp.MustCompile(`\d+`)

var numberWords = map[string]int{
	"dos":       2,
	"tres":      3,
	"cuatro":    4,
	"cinco":     5,
	"seis":      6,
	"siete":     7,
	"ocho":      8,
	"nueve":     9,
	"diez":      10,
	"quince":    15,
	"veinte":    20,
	"treinta":   30,
	"cuarenta":  40,
	"cincuenta": 50,
	"cien":      100,
}

// ParseLimit reads "últimos 20" or "últimos veinte" style row counts.
// Digits win over number words; with neither the default applies. The
// result is clamped to [1, MaxLimit].
func (c *Classifier) ParseLimit(query string) int {
	n := 0
	if m := digitsRe.FindString(query); m != "" {
		n, _ = strconv.Atoi(m)
	} else {
		for _, tok := range Tokens(Normalize(query)) {
			if v, ok := numberWords[tok]; ok {
				n = v
				break
			}
		}
	}
	if n <= 0 {
		return c.DefaultLimit
	}
	if n > c.MaxLimit {
		return c.MaxLimit
	}
	return n
}

var customerStopwords = map[string]bool{
	"de": true, "del": true, "la": true, "el": true, "los": true, "las": true,
	"a": true, "al": true, "con": true, "llamado": true, "llamada": true,
	"nombre": true, "por": true, "para": true, "que": true, "y": true,
	"tickets": true, "ticket": true, "mas": true, "hay": true,
}

// ExtractCustomer returns the words following "cliente"/"customer", with
// accents preserved, or "" when no name is given.
func ExtractCustomer(query string) string {
	toks := Tokens(query)
	for i, tok := range toks {
		switch Normalize(tok) {
		case "cliente", "clientes", "customer":
		default:
			continue
		}
		var name []string
		for _, next := range toks[i+1:] {
			if customerStopwords[Normalize(next)] {
				if len(name) > 0 {
					break
				}
				continue
			}
			name = append(name, next)
			if len(name) == 3 {
				break
			}
		}
		if len(name) > 0 {
			return strings.Join(name, " ")
		}
	}
	return ""
}
