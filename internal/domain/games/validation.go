package games

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

const (
	maxFieldLen = 120
	maxNotesLen = 2000
)

var scorePattern = regexp.MustCompile(`^(\d{1,3})\s*-\s*(\d{1,3})$`)

// CreateInput describes a new game.
type CreateInput struct {
	OrganizationID string `json:"-"`
	CreatorID      string `json:"-"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Venue          string `json:"venue"`
	City           string `json:"city"`
	Opponent       string `json:"opponent"`
	JerseyColor    string `json:"jerseyColor"`
	Notes          string `json:"notes"`
}

// NewGame validates input and builds a PENDING game owned by input.CreatorID.
func NewGame(input CreateInput, id string, now time.Time) (Game, error) {
	const op = "create"
	if strings.TrimSpace(id) == "" {
		return Game{}, Validation(op, "game id is required")
	}
	if strings.TrimSpace(input.OrganizationID) == "" {
		return Game{}, Validation(op, "organization is required")
	}
	if strings.TrimSpace(input.CreatorID) == "" {
		return Game{}, Validation(op, "creator is required")
	}
	created := now.UTC()
	g := Game{
		ID:             id,
		OrganizationID: strings.TrimSpace(input.OrganizationID),
		CreatorID:      strings.TrimSpace(input.CreatorID),
		Date:           strings.TrimSpace(input.Date),
		Time:           strings.TrimSpace(input.Time),
		Venue:          strings.TrimSpace(input.Venue),
		City:           strings.TrimSpace(input.City),
		Opponent:       strings.TrimSpace(input.Opponent),
		JerseyColor:    strings.TrimSpace(input.JerseyColor),
		Notes:          strings.TrimSpace(input.Notes),
		Status:         StatusPending,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	if err := validateFields(op, g); err != nil {
		return Game{}, err
	}
	return g, nil
}

// Patch is a partial edit; nil fields are left untouched.
type Patch struct {
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Venue       *string `json:"venue,omitempty"`
	City        *string `json:"city,omitempty"`
	Opponent    *string `json:"opponent,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	JerseyColor *string `json:"jerseyColor,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Date == nil && p.Time == nil && p.Venue == nil && p.City == nil &&
		p.Opponent == nil && p.Notes == nil && p.JerseyColor == nil
}

func (p Patch) apply(g Game) Game {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&g.Date, p.Date)
	set(&g.Time, p.Time)
	set(&g.Venue, p.Venue)
	set(&g.City, p.City)
	set(&g.Opponent, p.Opponent)
	set(&g.Notes, p.Notes)
	set(&g.JerseyColor, p.JerseyColor)
	return g
}

func validateFields(op string, g Game) error {
	if !timeutil.ValidDate(g.Date) {
		return Validation(op, "date must be YYYY-MM-DD, got %q", g.Date)
	}
	if !timeutil.ValidClock(g.Time) {
		return Validation(op, "time must be HH:MM, got %q", g.Time)
	}
	if g.Venue == "" {
		return Validation(op, "venue is required")
	}
	if g.Opponent == "" {
		return Validation(op, "opponent is required")
	}
	limited := []struct {
		name  string
		value string
	}{
		{"organization", g.OrganizationID},
		{"venue", g.Venue},
		{"city", g.City},
		{"opponent", g.Opponent},
		{"jersey color", g.JerseyColor},
	}
	for _, f := range limited {
		if len(f.value) > maxFieldLen {
			return Validation(op, "%s exceeds %d characters", f.name, maxFieldLen)
		}
	}
	if len(g.Notes) > maxNotesLen {
		return Validation(op, "notes exceed %d characters", maxNotesLen)
	}
	return nil
}

// NormalizeScore validates a "home-away" score and returns it as "H-A".
// An empty score is allowed and returned as-is.
func NormalizeScore(score string) (string, error) {
	score = strings.TrimSpace(score)
	if score == "" {
		return "", nil
	}
	m := scorePattern.FindStringSubmatch(score)
	if m == nil {
		return "", Validation(string(ActionComplete), "score must look like 2-1, got %q", score)
	}
	return fmt.Sprintf("%s-%s", trimZeros(m[1]), trimZeros(m[2])), nil
}

func trimZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}
