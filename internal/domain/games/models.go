package games

import "time"

// Status is the stored lifecycle value of a game. StatusExpired is never stored;
// it only appears as an effective status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusExpired   Status = "EXPIRED"
)

// StoredStatuses lists the values a persisted game may carry.
var StoredStatuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// EffectiveStatuses lists every bucket a reader can observe, in display order.
var EffectiveStatuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusExpired}

// IsStored reports whether s is a persisted lifecycle value.
func (s Status) IsStored() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsEffective reports whether s can be produced by EffectiveStatus.
func (s Status) IsEffective() bool {
	return s.IsStored() || s == StatusExpired
}

// Result records how a completed game ended.
type Result string

const (
	ResultHomeWin   Result = "HOME_WIN"
	ResultAwayWin   Result = "AWAY_WIN"
	ResultDraw      Result = "DRAW"
	ResultNotPlayed Result = "NOT_PLAYED"
)

// Valid reports whether r is a known result. The empty result is not valid.
func (r Result) Valid() bool {
	switch r {
	case ResultHomeWin, ResultAwayWin, ResultDraw, ResultNotPlayed:
		return true
	}
	return false
}

// Game is the canonical game record.
type Game struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	CreatorID      string    `json:"creatorId"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Venue          string    `json:"venue"`
	City           string    `json:"city,omitempty"`
	Opponent       string    `json:"opponent"`
	JerseyColor    string    `json:"jerseyColor,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Status         Status    `json:"status"`
	Score          string    `json:"score,omitempty"`
	Result         Result    `json:"result,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsCreator reports whether memberID created the game.
func (g Game) IsCreator(memberID string) bool {
	return memberID != "" && g.CreatorID == memberID
}

// Response is one member's availability for one game.
type Response struct {
	GameID      string    `json:"gameId"`
	MemberID    string    `json:"memberId"`
	IsAvailable bool      `json:"available"`
	RespondedAt time.Time `json:"respondedAt"`
}

// Tally counts responses by availability.
type Tally struct {
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
}

// TallyOf counts the given responses. It is the only way tallies are produced.
func TallyOf(responses []Response) Tally {
	var t Tally
	for _, r := range responses {
		if r.IsAvailable {
			t.Available++
		} else {
			t.Unavailable++
		}
	}
	return t
}

// View is the read model for a single game.
type View struct {
	Game            Game       `json:"game"`
	EffectiveStatus Status     `json:"effectiveStatus"`
	Tally           Tally      `json:"tally"`
	Responses       []Response `json:"responses"`
}
