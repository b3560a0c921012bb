package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

const opList = "list"

// ParseParams reads list parameters from URL query values:
// status, q, dateFrom, dateTo, timeFrom, timeTo, venue, opponent, sort, order, page.
func ParseParams(values url.Values) (Params, error) {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }

	status, err := ParseStatus(get("status"))
	if err != nil {
		return Params{}, err
	}
	p := Params{
		Filter: Filter{
			Status:   status,
			Search:   get("q"),
			DateFrom: get("dateFrom"),
			DateTo:   get("dateTo"),
			TimeFrom: get("timeFrom"),
			TimeTo:   get("timeTo"),
			Venue:    get("venue"),
			Opponent: get("opponent"),
		},
	}

	for key, value := range map[string]string{"dateFrom": p.Filter.DateFrom, "dateTo": p.Filter.DateTo} {
		if value != "" && !timeutil.ValidDate(value) {
			return Params{}, games.Validation(opList, "%s must be YYYY-MM-DD, got %q", key, value)
		}
	}
	for key, value := range map[string]string{"timeFrom": p.Filter.TimeFrom, "timeTo": p.Filter.TimeTo} {
		if value != "" && !timeutil.ValidClock(value) {
			return Params{}, games.Validation(opList, "%s must be HH:MM, got %q", key, value)
		}
	}

	if p.Sort, err = ParseSort(get("sort")); err != nil {
		return Params{}, err
	}

	switch strings.ToLower(get("order")) {
	case "", "asc":
	case "desc":
		p.Descending = true
	default:
		return Params{}, games.Validation(opList, "order must be asc or desc")
	}

	if raw := get("page"); raw != "" {
		page, convErr := strconv.Atoi(raw)
		if convErr != nil || page < 0 {
			return Params{}, games.Validation(opList, "page must be a non-negative integer, got %q", raw)
		}
		p.Page = page
	}
	return p, nil
}

// ParseStatus normalizes a status filter value. Empty means ALL.
func ParseStatus(raw string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "" || upper == StatusAll {
		return StatusAll, nil
	}
	if !games.Status(upper).IsEffective() {
		return "", games.Validation(opList, "unknown status %q", raw)
	}
	return upper, nil
}

// ParseSort validates a sort field. Empty means date.
func ParseSort(raw string) (SortField, error) {
	if raw == "" {
		return SortDate, nil
	}
	for _, f := range SortFields {
		if strings.EqualFold(raw, string(f)) {
			return f, nil
		}
	}
	return "", games.Validation(opList, "unknown sort field %q", raw)
}
