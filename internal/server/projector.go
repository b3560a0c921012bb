package server

import (
	"context"

	"github.com/preston-bernstein/matchday-service/internal/snapshots"
)

// Projector defines the snapshot projector behavior needed by the server.
type Projector interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() snapshots.Status
}
