package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
)

const dateLayout = "2006-01-02"

// QueryInt reads a positive integer parameter, returning def when it is absent
// or not a positive integer. Paging clamps are applied by the service.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ParseReportFilters reads startDate, endDate, status, designerId and designId.
//
// Dates accept YYYY-MM-DD or RFC3339. A date-only endDate covers the whole UTC day.
func ParseReportFilters(r *http.Request) (domain.ReportFilters, error) {
	const op = "handler.ParseReportFilters"
	q := r.URL.Query()

	var f domain.ReportFilters
	if raw := q.Get("startDate"); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			return f, domain.Invalid(op, "startDate must be YYYY-MM-DD or RFC3339")
		}
		f.StartDate = &t
	}
	if raw := q.Get("endDate"); raw != "" {
		t, dateOnly, err := parseDate(raw)
		if err != nil {
			return f, domain.Invalid(op, "endDate must be YYYY-MM-DD or RFC3339")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.EndDate = &t
	}

	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Statuses = append(f.Statuses, domain.OrderStatus(s))
			}
		}
	}

	f.DesignerID = strings.TrimSpace(q.Get("designerId"))
	f.DesignID = strings.TrimSpace(q.Get("designId"))

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
