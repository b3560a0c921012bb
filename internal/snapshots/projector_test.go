package snapshots

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/events"
)

type stubSource struct {
	mu    sync.Mutex
	games map[string][]games.Game
	reads map[string]int
	err   error
}

func newStubSource() *stubSource {
	return &stubSource{games: map[string][]games.Game{}, reads: map[string]int{}}
}

func (s *stubSource) set(org string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]games.Game, 0, len(ids))
	for _, id := range ids {
		list = append(list, games.Game{ID: id, OrganizationID: org, Date: "2025-06-20", Status: games.StatusPending})
	}
	s.games[org] = list
}

func (s *stubSource) Organizations(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	orgs := make([]string, 0, len(s.games))
	for org := range s.games {
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (s *stubSource) OrgGames(_ context.Context, orgID string) ([]games.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.reads[orgID]++
	return append([]games.Game(nil), s.games[orgID]...), nil
}

func (s *stubSource) readsFor(org string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[org]
}

type chanBus struct {
	ch chan events.Event
}

func (b *chanBus) Subscribe(string) (<-chan events.Event, func()) {
	return b.ch, func() {}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestProjectorSyncsOnStartAndFollowsEvents(t *testing.T) {
	dir := t.TempDir()
	src := newStubSource()
	src.set("org-1", "g1")
	bus := &chanBus{ch: make(chan events.Event, 4)}
	p := NewProjector(src, bus, NewWriter(dir), nil)
	store := NewFSStore(dir)

	p.Start(context.Background())
	defer func() { _ = p.Stop(context.Background()) }()

	waitFor(t, func() bool {
		snap, err := store.LoadOrg("org-1")
		return err == nil && len(snap.Games) == 1
	})

	src.set("org-1", "g1", "g2")
	bus.ch <- events.New(events.GameCreated, "g2", "org-1", "m1", time.Now())

	waitFor(t, func() bool {
		snap, err := store.LoadOrg("org-1")
		return err == nil && len(snap.Games) == 2
	})
	if p.Status().LastEvent.IsZero() || !p.Status().IsReady() {
		t.Fatalf("unexpected status %+v", p.Status())
	}
}

func TestProjectorCoalescesQueuedEvents(t *testing.T) {
	src := newStubSource()
	src.set("org-1", "g1")
	bus := &chanBus{ch: make(chan events.Event, 8)}
	p := NewProjector(src, bus, NewWriter(t.TempDir()), nil)

	first := events.New(events.GameUpdated, "g1", "org-1", "m1", time.Now())
	for i := 0; i < 4; i++ {
		bus.ch <- events.New(events.GameResponded, "g1", "org-1", "m2", time.Now())
	}
	p.handle(context.Background(), first, bus.ch)

	if got := src.readsFor("org-1"); got != 1 {
		t.Fatalf("expected one read for five queued events, got %d", got)
	}
	if len(bus.ch) != 0 {
		t.Fatalf("expected queue to be drained")
	}
}

func TestProjectorRecordsFailures(t *testing.T) {
	src := newStubSource()
	src.err = errors.New("store offline")
	p := NewProjector(src, &chanBus{ch: make(chan events.Event)}, NewWriter(t.TempDir()), nil)

	for i := 0; i < 3; i++ {
		if _, err := p.Refresh(context.Background(), "org-1"); err == nil {
			t.Fatalf("expected refresh to fail")
		}
	}
	if p.Status().IsReady() {
		t.Fatalf("expected projector to report not ready after repeated failures")
	}
	if p.Status().LastError == "" {
		t.Fatalf("expected last error to be recorded")
	}

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	if _, err := p.Refresh(context.Background(), "org-1"); err != nil {
		t.Fatalf("expected refresh to recover, got %v", err)
	}
	if !p.Status().IsReady() {
		t.Fatalf("expected projector ready after success")
	}
}

func TestProjectorStopIsIdempotentAndSafeBeforeStart(t *testing.T) {
	p := NewProjector(newStubSource(), &chanBus{ch: make(chan events.Event)}, NewWriter(t.TempDir()), nil)
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("expected stop before start to succeed, got %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("expected repeated stop to succeed, got %v", err)
	}
}

func TestProjectorStopsWhenBusCloses(t *testing.T) {
	bus := &chanBus{ch: make(chan events.Event)}
	p := NewProjector(newStubSource(), bus, NewWriter(t.TempDir()), nil)
	p.Start(context.Background())
	close(bus.ch)

	select {
	case <-p.stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected projector loop to exit when the bus closes")
	}
}

type failingWriter struct {
	SnapshotWriter
	failOrg string
}

func (w failingWriter) WriteOrgSnapshot(snap OrgSnapshot) (bool, error) {
	if snap.OrganizationID == w.failOrg {
		return false, errors.New("disk full")
	}
	return w.SnapshotWriter.WriteOrgSnapshot(snap)
}

func TestProjectorSyncContinuesPastFailingOrg(t *testing.T) {
	dir := t.TempDir()
	src := newStubSource()
	src.set("org-a", "g1")
	src.set("org-b", "g2")
	src.set("org-c", "g3")
	writer := failingWriter{SnapshotWriter: NewWriter(dir), failOrg: "org-b"}
	p := NewProjector(src, &chanBus{ch: make(chan events.Event)}, writer, nil)

	if err := p.Sync(context.Background()); err == nil {
		t.Fatalf("expected sync to report the failing org")
	}
	store := NewFSStore(dir)
	for _, org := range []string{"org-a", "org-c"} {
		if _, err := store.LoadOrg(org); err != nil {
			t.Fatalf("expected %s to be projected despite org-b failing, got %v", org, err)
		}
	}
}

func TestProjectorHandlesOrgIDsThatAreNotPathSafe(t *testing.T) {
	dir := t.TempDir()
	src := newStubSource()
	src.set("team one", "g1")
	src.set("../escape", "g2")
	p := NewProjector(src, &chanBus{ch: make(chan events.Event)}, NewWriter(dir), nil)

	for i := 0; i < 3; i++ {
		if err := p.Sync(context.Background()); err != nil {
			t.Fatalf("expected sync to succeed, got %v", err)
		}
	}
	if !p.Status().IsReady() {
		t.Fatalf("expected projector ready, got %+v", p.Status())
	}
	snap, err := NewFSStore(dir).LoadOrg("team one")
	if err != nil || len(snap.Games) != 1 || snap.OrganizationID != "team one" {
		t.Fatalf("unexpected snapshot %+v err=%v", snap, err)
	}
}

func TestProjectorInvalidOrgIDDoesNotAffectHealth(t *testing.T) {
	p := NewProjector(newStubSource(), &chanBus{ch: make(chan events.Event)}, NewWriter(t.TempDir()), nil)
	for i := 0; i < 3; i++ {
		if _, err := p.Refresh(context.Background(), ""); !errors.Is(err, ErrInvalidOrgID) {
			t.Fatalf("expected ErrInvalidOrgID, got %v", err)
		}
	}
	if st := p.Status(); st.ConsecutiveFailures != 0 || !st.IsReady() {
		t.Fatalf("expected invalid ids to leave health untouched, got %+v", st)
	}
}
