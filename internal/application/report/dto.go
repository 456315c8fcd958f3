package report

import (
	"time"

	"github.com/menswear/backend/internal/domain/report"
	"github.com/menswear/backend/internal/domain/shared"
)

const maxRangeDays = 366

// DashboardQuery holds the query parameters shared by dashboard endpoints.
// From and To are inclusive calendar days in UTC.
type DashboardQuery struct {
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Threshold *int   `form:"threshold" binding:"omitempty,min=0,max=1000"`
}

// Range resolves the query into a half-open date range, defaulting to the last 30 days
func (q DashboardQuery) Range(now time.Time) (report.DateRange, error) {
	rng := report.DefaultRange(now)
	if q.To != "" {
		to, err := time.Parse(time.DateOnly, q.To)
		if err != nil {
			return rng, shared.NewDomainError("INVALID_DATE", "to must be YYYY-MM-DD")
		}
		rng.End = to.AddDate(0, 0, 1)
		rng.Start = rng.End.AddDate(0, 0, -30)
	}
	if q.From != "" {
		from, err := time.Parse(time.DateOnly, q.From)
		if err != nil {
			return rng, shared.NewDomainError("INVALID_DATE", "from must be YYYY-MM-DD")
		}
		rng.Start = from
	}
	if !rng.Start.Before(rng.End) {
		return rng, shared.NewDomainError("INVALID_DATE", "from must not be after to")
	}
	if rng.End.Sub(rng.Start) > maxRangeDays*24*time.Hour {
		return rng, shared.NewDomainError("INVALID_DATE", "Date range cannot exceed one year")
	}
	return rng, nil
}
