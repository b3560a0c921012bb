package games

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/events"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/notify"
	"github.com/preston-bernstein/matchday-service/internal/query"
)

// Store defines the contract for persisting and retrieving games and their responses.
type Store interface {
	CreateGame(ctx context.Context, g domaingames.Game) error
	GetGame(ctx context.Context, id string) (domaingames.Game, error)
	ListGames(ctx context.Context, orgID string) ([]domaingames.Game, error)
	SaveGame(ctx context.Context, g domaingames.Game) error
	DeleteGame(ctx context.Context, id string) error
	UpsertResponse(ctx context.Context, r domaingames.Response) error
	DeleteResponse(ctx context.Context, gameID, memberID string) error
	ListResponses(ctx context.Context, gameID string) ([]domaingames.Response, error)
}

// Service coordinates game commands and reads over a Store. Writes to one game are
// serialized; every committed write is followed by an event.
type Service struct {
	store     Store
	publisher events.Publisher
	policy    domaingames.Policy
	engine    query.Engine
	locks     *keyedMutex
	clock     func() time.Time
	location  *time.Location
	newID     func() string
	recorder  *metrics.Recorder
	logger    *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher sets where events go after each committed write.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithPolicy sets lifecycle knobs such as completed-game corrections.
func WithPolicy(p domaingames.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithExpiration sets the grace period and the location whose calendar decides expiry.
func WithExpiration(graceDays int, loc *time.Location) Option {
	return func(s *Service) {
		s.engine.Expirer.GraceDays = graceDays
		if loc != nil {
			s.location = loc
		}
	}
}

// WithPageSize sets the list page size.
func WithPageSize(size int) Option {
	return func(s *Service) {
		s.engine = query.NewEngine(s.engine.Expirer, size)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithIDGenerator overrides game id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithRecorder attaches command metrics.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger attaches a logger for command failures and expiry warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
		s.engine.Expirer.Logger = l
	}
}

// NewService constructs a Service with the provided Store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: notify.NewNoop(),
		engine:    query.NewEngine(domaingames.Expirer{}, query.DefaultPageSize),
		locks:     newKeyedMutex(),
		clock:     time.Now,
		location:  time.UTC,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock in the configured location.
func (s *Service) Now() time.Time {
	return s.clock().In(s.location)
}

// Expirer returns the expiration policy applied on reads.
func (s *Service) Expirer() domaingames.Expirer {
	return s.engine.Expirer
}

// observe records metrics for one command and logs unexpected failures.
func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	kind := ""
	if err != nil {
		kind = string(domaingames.KindOf(err))
		if kind == "" {
			kind = "INTERNAL"
			logging.Error(logging.FromContext(ctx, s.logger), "game command failed", err,
				slog.String(logging.FieldOp, op),
			)
		}
	}
	s.recorder.RecordCommand(op, time.Since(start), kind)
}

// emit publishes after commit. Delivery failures never undo or fail the command.
func (s *Service) emit(ctx context.Context, kind events.Kind, g domaingames.Game, actor string) {
	ev := events.New(kind, g.ID, g.OrganizationID, actor, s.clock())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logging.Warn(logging.FromContext(ctx, s.logger), "event publish failed",
			slog.String(logging.FieldEvent, string(kind)),
			slog.String(logging.FieldGameID, g.ID),
			slog.String(logging.FieldOrgID, g.OrganizationID),
			slog.String("error", err.Error()),
		)
	}
}
