package snapshots

import (
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/query"
)

// OrgSnapshot is the projected view of one organization: every stored game record
// sorted by date. Effective status is never written; it depends on when the file is read.
// It carries no timestamps so an unchanged projection serializes identically.
type OrgSnapshot struct {
	OrganizationID string       `json:"organizationId"`
	Games          []games.Game `json:"games"`
}

// View is a snapshot evaluated at a point in time.
type View struct {
	OrganizationID string       `json:"organizationId"`
	Counts         query.Counts `json:"counts"`
	Games          []query.Item `json:"games"`
}

// ViewAt derives effective statuses and status buckets from the stored records at now.
func (s OrgSnapshot) ViewAt(expirer games.Expirer, now time.Time) View {
	engine := query.NewEngine(expirer, 0)
	return View{
		OrganizationID: s.OrganizationID,
		Counts:         engine.Counts(s.Games, now),
		Games:          engine.Evaluate(s.Games, now),
	}
}
