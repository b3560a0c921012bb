package snapshots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/events"
	"github.com/preston-bernstein/matchday-service/internal/logging"
)

// Source is the read side the projector re-runs on every event.
type Source interface {
	Organizations(ctx context.Context) ([]string, error)
	OrgGames(ctx context.Context, orgID string) ([]games.Game, error)
}

// Subscriber hands out event streams; an empty orgID subscribes to every organization.
type Subscriber interface {
	Subscribe(orgID string) (<-chan events.Event, func())
}

// SnapshotWriter persists organization snapshots.
type SnapshotWriter interface {
	WriteOrgSnapshot(snap OrgSnapshot) (bool, error)
}

// Status describes the recent health of the projector loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastEvent           time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the projector is not failing repeatedly.
func (s Status) IsReady() bool {
	return s.ConsecutiveFailures < 3
}

// Projector keeps one snapshot file per organization in step with the games it holds.
// It treats every event as "this organization is stale" and re-reads everything.
type Projector struct {
	source Source
	bus    Subscriber
	writer SnapshotWriter
	logger *slog.Logger

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

func NewProjector(source Source, bus Subscriber, writer SnapshotWriter, logger *slog.Logger) *Projector {
	return &Projector{
		source:  source,
		bus:     bus,
		writer:  writer,
		logger:  logger,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start subscribes before returning, so no event committed afterwards is missed,
// then projects every organization once and follows the event stream.
func (p *Projector) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	ch, cancel := p.bus.Subscribe("")

	go func() {
		defer close(p.stopped)
		defer cancel()

		logging.Info(p.logger, "snapshot projector started")
		if err := p.Sync(ctx); err != nil {
			logging.Error(p.logger, "snapshot initial sync failed", err)
		}

		for {
			select {
			case <-ctx.Done():
				logging.Info(p.logger, "snapshot projector stopped")
				return
			case <-p.done:
				logging.Info(p.logger, "snapshot projector stopped")
				return
			case ev, ok := <-ch:
				if !ok {
					logging.Info(p.logger, "snapshot projector stopped", slog.String("reason", "bus closed"))
					return
				}
				p.handle(ctx, ev, ch)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight projection to finish.
func (p *Projector) Stop(ctx context.Context) error {
	p.startMu.Lock()
	started := p.started
	p.startMu.Unlock()

	p.stopOnce.Do(func() { close(p.done) })
	if !started {
		return nil
	}
	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handle coalesces any events already queued so each stale organization is read once.
func (p *Projector) handle(ctx context.Context, first events.Event, ch <-chan events.Event) {
	p.recordEvent(first.OccurredAt)
	stale := []string{first.OrganizationID}
	seen := map[string]bool{first.OrganizationID: true}

drain:
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				break drain
			}
			p.recordEvent(ev.OccurredAt)
			if !seen[ev.OrganizationID] {
				seen[ev.OrganizationID] = true
				stale = append(stale, ev.OrganizationID)
			}
		default:
			break drain
		}
	}

	for _, orgID := range stale {
		if _, err := p.Refresh(ctx, orgID); err != nil {
			logging.Error(p.logger, "snapshot refresh failed", err, slog.String(logging.FieldOrgID, orgID))
		}
	}
}

// Sync projects every organization that has games. A failing organization does not
// stop the others; all failures are returned together.
func (p *Projector) Sync(ctx context.Context) error {
	orgs, err := p.source.Organizations(ctx)
	if err != nil {
		p.recordFailure(err)
		return fmt.Errorf("list organizations: %w", err)
	}
	var errs []error
	for _, orgID := range orgs {
		if _, err := p.Refresh(ctx, orgID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Refresh re-reads one organization and rewrites its snapshot when the content changed.
// An unusable organization id is the caller's error and does not count against health.
func (p *Projector) Refresh(ctx context.Context, orgID string) (bool, error) {
	if err := validateOrgID(orgID); err != nil {
		return false, err
	}
	start := time.Now()
	list, err := p.source.OrgGames(ctx, orgID)
	if err != nil {
		p.recordFailure(err)
		return false, fmt.Errorf("read games for %s: %w", orgID, err)
	}

	changed, err := p.writer.WriteOrgSnapshot(OrgSnapshot{
		OrganizationID: orgID,
		Games:          list,
	})
	if err != nil {
		p.recordFailure(err)
		return false, fmt.Errorf("write snapshot for %s: %w", orgID, err)
	}

	p.recordSuccess()
	logging.Debug(p.logger, "snapshot projected",
		slog.String(logging.FieldOrgID, orgID),
		slog.Int(logging.FieldCount, len(list)),
		slog.Bool("changed", changed),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	return changed, nil
}

func (p *Projector) recordEvent(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastEvent = at
}

func (p *Projector) recordSuccess() {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = time.Now().UTC()
}

func (p *Projector) recordFailure(err error) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
}

// Status returns a snapshot of the projector's recent health.
func (p *Projector) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
