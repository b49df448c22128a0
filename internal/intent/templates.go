package intent

import (
	"fmt"
	"strings"

	"github.com/ticketlens/backend/internal/models"
)

// Bank renders intents into SQL against one fixed table.
type Bank struct {
	Dialect     Dialect
	Table       string
	PageSize    int
	DetailLimit int
}

var detailColumns = []string{
	models.ColIdentifier,
	models.ColCustomer,
	models.ColStatus,
	models.ColChannel,
	models.ColDepartment,
	models.ColMessages,
	models.ColFirstMessage,
	models.ColStartDate,
	models.ColStartTime,
}

var groupColumns = map[Kind]string{
	ByStatus:     models.ColStatus,
	ByChannel:    models.ColChannel,
	BySentiment:  models.ColSentiment,
	ByDepartment: models.ColDepartment,
	ByCompany:    models.ColCompany,
	SLA:          models.ColSLA,
	Typification: models.ColTypification,
}

func (b Bank) Statement(in Intent) models.Statement {
	d := b.Dialect
	if d == nil {
		d = BigQuery{}
	}
	t := d.Table(b.Table)
	date := d.Ident(models.ColStartDate)
	hour := d.Ident(models.ColStartTime)
	newest := fmt.Sprintf("ORDER BY %s DESC, %s DESC", date, hour)

	switch in.Kind {
	case Count:
		return models.Statement{SQL: fmt.Sprintf("SELECT COUNT(*) AS total FROM %s", t)}

	case ByStatus, ByChannel, BySentiment, ByDepartment, ByCompany, SLA, Typification:
		col := d.Ident(groupColumns[in.Kind])
		return models.Statement{SQL: fmt.Sprintf(
			"SELECT %s, COUNT(*) AS cantidad FROM %s WHERE %s IS NOT NULL GROUP BY %s ORDER BY cantidad DESC",
			col, t, col, col)}

	case ByHour:
		return models.Statement{SQL: fmt.Sprintf(
			"SELECT %s AS hora, COUNT(*) AS cantidad FROM %s WHERE %s IS NOT NULL GROUP BY hora ORDER BY hora",
			d.HourOf(hour), t, hour)}

	case ByDateRange:
		switch in.Range {
		case Today:
			return models.Statement{SQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s ORDER BY %s DESC LIMIT %d",
				b.detailList(d), t, date, d.CurrentDate(), hour, b.detailLimit())}
		case Yesterday:
			return models.Statement{SQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s ORDER BY %s DESC LIMIT %d",
				b.detailList(d), t, date, d.DaysAgo(1), hour, b.detailLimit())}
		}
		days := 7
		if in.Range == LastMonth {
			days = 30
		}
		return models.Statement{SQL: fmt.Sprintf(
			"SELECT %s, COUNT(*) AS cantidad FROM %s WHERE %s >= %s GROUP BY %s ORDER BY %s DESC",
			date, t, date, d.DaysAgo(days), date, date)}

	case CustomerSearch:
		customer := d.Ident(models.ColCustomer)
		if in.Customer == "" {
			return models.Statement{SQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL %s LIMIT %d",
				b.detailList(d), t, customer, newest, b.pageSize())}
		}
		return models.Statement{
			SQL: fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(%s) LIKE %s %s LIMIT %d",
				b.detailList(d), t, customer, d.Placeholder("customer", 1), newest, b.detailLimit()),
			Params: []models.Param{{Name: "customer", Value: "%" + strings.ToLower(in.Customer) + "%"}},
		}

	case RecentN:
		limit := in.Limit
		if limit <= 0 {
			limit = b.detailLimit()
		}
		return models.Statement{SQL: fmt.Sprintf("SELECT %s FROM %s %s LIMIT %d",
			b.detailList(d), t, newest, limit)}
	}

	return models.Statement{SQL: fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC LIMIT %d",
		b.detailList(d), t, date, b.pageSize())}
}

func (b Bank) detailList(d Dialect) string {
	cols := make([]string, len(detailColumns))
	for i, c := range detailColumns {
		cols[i] = d.Ident(c)
	}
	return strings.Join(cols, ", ")
}

func (b Bank) pageSize() int {
	if b.PageSize <= 0 {
		return 10
	}
	return b.PageSize
}

func (b Bank) detailLimit() int {
	if b.DetailLimit <= 0 {
		return 50
	}
	return b.DetailLimit
}
