// Package events defines the coarse invalidation events emitted after every
// committed game write. Events carry no field diffs: a consumer that receives
// any event for an organization must re-read that organization's games.
package events

import (
	"context"
	"time"
)

// Kind identifies what happened to a game.
type Kind string

const (
	GameCreated   Kind = "GameCreated"
	GameConfirmed Kind = "GameConfirmed"
	GameUpdated   Kind = "GameUpdated"
	GameCompleted Kind = "GameCompleted"
	GameCancelled Kind = "GameCancelled"
	GameDeleted   Kind = "GameDeleted"
	// GameResponded follows a vote or unvote so tally views refresh.
	GameResponded Kind = "GameResponded"
)

// Kinds lists every kind in emission-table order.
var Kinds = []Kind{GameCreated, GameConfirmed, GameUpdated, GameCompleted, GameCancelled, GameDeleted, GameResponded}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is the minimal invalidation payload.
type Event struct {
	Kind           Kind      `json:"kind"`
	GameID         string    `json:"gameId"`
	OrganizationID string    `json:"organizationId"`
	ActorID        string    `json:"actorId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// New builds an event stamped at now (UTC).
func New(kind Kind, gameID, orgID, actorID string, now time.Time) Event {
	return Event{
		Kind:           kind,
		GameID:         gameID,
		OrganizationID: orgID,
		ActorID:        actorID,
		OccurredAt:     now.UTC(),
	}
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}
