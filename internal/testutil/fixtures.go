package testutil

import (
	"time"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
)

// FixedNow is the instant used by fixture clocks.
var FixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// SampleGame returns a PENDING game fixture with the provided id.
func SampleGame(id string) domaingames.Game {
	return domaingames.Game{
		ID:             id,
		OrganizationID: "org-1",
		CreatorID:      "creator",
		Date:           "2025-06-20",
		Time:           "18:30",
		Venue:          "Riverside Park",
		Opponent:       "Harbor FC",
		Status:         domaingames.StatusPending,
		CreatedAt:      FixedNow,
		UpdatedAt:      FixedNow,
	}
}

// SampleInput builds a valid create request for org by creator on date.
func SampleInput(org, creator, date string) domaingames.CreateInput {
	return domaingames.CreateInput{
		OrganizationID: org,
		CreatorID:      creator,
		Date:           date,
		Time:           "18:30",
		Venue:          "Riverside Park",
		Opponent:       "Harbor FC",
	}
}
