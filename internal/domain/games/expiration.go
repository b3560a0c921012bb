package games

import (
	"log/slog"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// Expirer overlays time-based expiration on a game's stored status.
// The zero value expires games the day after their date and logs nothing.
type Expirer struct {
	GraceDays int
	Logger    *slog.Logger
}

// EffectiveStatus is Expirer{GraceDays: graceDays}.EffectiveStatus(g, now).
func EffectiveStatus(g Game, now time.Time, graceDays int) Status {
	return Expirer{GraceDays: graceDays}.EffectiveStatus(g, now)
}

// EffectiveStatus returns the status a reader should see at now.
//
// COMPLETED games never expire. PENDING, CONFIRMED and CANCELLED games become
// EXPIRED once now's calendar date is past Date+GraceDays. Any other stored value
// is returned unchanged. A malformed date never expires the game and is logged.
func (e Expirer) EffectiveStatus(g Game, now time.Time) Status {
	switch g.Status {
	case StatusCompleted:
		return StatusCompleted
	case StatusPending, StatusConfirmed, StatusCancelled:
	default:
		return g.Status
	}

	expiry, ok := e.expiry(g)
	if !ok {
		return g.Status
	}
	if timeutil.CalendarDay(now).After(expiry) {
		return StatusExpired
	}
	return g.Status
}

// Expired reports whether the game's effective status is EXPIRED at now.
func (e Expirer) Expired(g Game, now time.Time) bool {
	return e.EffectiveStatus(g, now) == StatusExpired
}

func (e Expirer) expiry(g Game) (time.Time, bool) {
	day, err := timeutil.ParseDate(g.Date)
	if err != nil {
		logging.Warn(e.Logger, "game date unparseable, treating as non-expiring",
			slog.String(logging.FieldGameID, g.ID),
			slog.String(logging.FieldDate, g.Date),
			slog.String("error", err.Error()),
		)
		return time.Time{}, false
	}
	grace := e.GraceDays
	if grace < 0 {
		grace = 0
	}
	return day.AddDate(0, 0, grace), true
}
