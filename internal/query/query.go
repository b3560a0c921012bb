// Package query filters, searches, sorts and paginates game collections for
// presentation. Everything here is derived from the input slice and the
// supplied clock; nothing is cached between calls.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
)

// StatusAll disables status filtering.
const StatusAll = "ALL"

// DefaultPageSize is used when an Engine has no page size configured.
const DefaultPageSize = 20

// SortField names a sortable attribute.
type SortField string

const (
	SortDate      SortField = "date"
	SortTime      SortField = "time"
	SortOpponent  SortField = "opponent"
	SortVenue     SortField = "venue"
	SortStatus    SortField = "status"
	SortCreatedAt SortField = "createdAt"
)

// SortFields lists the accepted sort fields.
var SortFields = []SortField{SortDate, SortTime, SortOpponent, SortVenue, SortStatus, SortCreatedAt}

// Filter narrows a collection. Empty fields match everything; all set fields must match.
type Filter struct {
	// Status is an effective status or StatusAll/"".
	Status   string
	Search   string
	DateFrom string
	DateTo   string
	TimeFrom string
	TimeTo   string
	Venue    string
	Opponent string
}

// Params is a full list request.
type Params struct {
	Filter     Filter
	Sort       SortField
	Descending bool
	Page       int
}

// Item pairs a game with its effective status at evaluation time.
type Item struct {
	Game            games.Game   `json:"game"`
	EffectiveStatus games.Status `json:"effectiveStatus"`
}

// Page is one page of results.
type Page struct {
	Items      []Item `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalItems int    `json:"totalItems"`
	TotalPages int    `json:"totalPages"`
}

// Counts buckets a collection by effective status.
type Counts struct {
	All       int `json:"all"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
	Expired   int `json:"expired"`
}

// Engine evaluates queries with a fixed expiration policy and page size.
type Engine struct {
	Expirer  games.Expirer
	PageSize int
}

// NewEngine constructs an Engine; a non-positive page size falls back to DefaultPageSize.
func NewEngine(expirer games.Expirer, pageSize int) Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Engine{Expirer: expirer, PageSize: pageSize}
}

// Evaluate annotates every game with its effective status at now, preserving order.
func (e Engine) Evaluate(list []games.Game, now time.Time) []Item {
	items := make([]Item, len(list))
	for i, g := range list {
		items[i] = Item{Game: g, EffectiveStatus: e.Expirer.EffectiveStatus(g, now)}
	}
	return items
}

// Select applies filter and sort without paginating.
func (e Engine) Select(list []games.Game, p Params, now time.Time) []Item {
	items := e.Evaluate(list, now)
	matched := items[:0]
	for _, it := range items {
		if p.Filter.matches(it) {
			matched = append(matched, it)
		}
	}
	sortItems(matched, p.Sort, p.Descending)
	return matched
}

// Run filters, sorts and returns the requested page.
func (e Engine) Run(list []games.Game, p Params, now time.Time) Page {
	matched := e.Select(list, p, now)
	return e.paginate(matched, p.Page)
}

// Counts recomputes status buckets from effective status at now.
func (e Engine) Counts(list []games.Game, now time.Time) Counts {
	var c Counts
	for _, g := range list {
		c.All++
		switch e.Expirer.EffectiveStatus(g, now) {
		case games.StatusPending:
			c.Pending++
		case games.StatusConfirmed:
			c.Confirmed++
		case games.StatusCancelled:
			c.Cancelled++
		case games.StatusCompleted:
			c.Completed++
		case games.StatusExpired:
			c.Expired++
		}
	}
	return c
}

func (e Engine) pageSize() int {
	if e.PageSize <= 0 {
		return DefaultPageSize
	}
	return e.PageSize
}

func (e Engine) paginate(items []Item, page int) Page {
	size := e.pageSize()
	if page < 0 {
		page = 0
	}
	total := len(items)
	out := Page{
		Items:      []Item{},
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: (total + size - 1) / size,
	}
	if page >= out.TotalPages {
		return out
	}
	start := page * size
	end := start + size
	if end > total {
		end = total
	}
	out.Items = append(out.Items, items[start:end]...)
	return out
}

func (f Filter) matches(it Item) bool {
	g := it.Game
	if f.Status != "" && f.Status != StatusAll && string(it.EffectiveStatus) != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !containsFold(g.Opponent, needle) && !containsFold(g.Venue, needle) && !containsFold(g.Notes, needle) {
			return false
		}
	}
	if f.DateFrom != "" && g.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && g.Date > f.DateTo {
		return false
	}
	if f.TimeFrom != "" && g.Time < f.TimeFrom {
		return false
	}
	if f.TimeTo != "" && g.Time > f.TimeTo {
		return false
	}
	if f.Venue != "" && !containsFold(g.Venue, strings.ToLower(f.Venue)) {
		return false
	}
	if f.Opponent != "" && !containsFold(g.Opponent, strings.ToLower(f.Opponent)) {
		return false
	}
	return true
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

var statusRank = map[games.Status]int{
	games.StatusPending:   0,
	games.StatusConfirmed: 1,
	games.StatusCancelled: 2,
	games.StatusCompleted: 3,
	games.StatusExpired:   4,
}

func sortItems(items []Item, field SortField, desc bool) {
	if field == "" {
		field = SortDate
	}
	cmp := comparator(field)
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return cmp(items[j], items[i])
		}
		return cmp(items[i], items[j])
	})
}

func comparator(field SortField) func(a, b Item) bool {
	switch field {
	case SortTime:
		return func(a, b Item) bool { return a.Game.Time < b.Game.Time }
	case SortOpponent:
		return func(a, b Item) bool { return strings.ToLower(a.Game.Opponent) < strings.ToLower(b.Game.Opponent) }
	case SortVenue:
		return func(a, b Item) bool { return strings.ToLower(a.Game.Venue) < strings.ToLower(b.Game.Venue) }
	case SortStatus:
		return func(a, b Item) bool { return rankOf(a.EffectiveStatus) < rankOf(b.EffectiveStatus) }
	case SortCreatedAt:
		return func(a, b Item) bool { return a.Game.CreatedAt.Before(b.Game.CreatedAt) }
	default:
		return func(a, b Item) bool { return a.Game.Date < b.Game.Date }
	}
}

func rankOf(s games.Status) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank)
}
