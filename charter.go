package charter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/charter/internal/logging"
	"github.com/aretw0/charter/internal/runtime"
	"github.com/aretw0/charter/pkg/adapters/memory"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
	"github.com/aretw0/charter/pkg/runner"
	"github.com/aretw0/charter/pkg/session"
)

// MsgAccessDenied is the only reply a user outside the admin list receives.
const MsgAccessDenied = "⛔ Доступ запрещён"

// Engine is the high-level entry point: it owns the session manager and the
// wizard, and turns one inbound event into the actions to send back.
// Handle is safe for concurrent use; events of one user are serialized.
type Engine struct {
	catalog  ports.Catalog
	renderer ports.Renderer
	store    ports.SessionStore
	locker   ports.DistributedLocker
	journal  ports.Journal
	flow     domain.Flow
	hooks    domain.LifecycleHooks
	admins   map[string]bool
	logger   *slog.Logger
	now      func() time.Time

	runtime  *runtime.Engine
	sessions *session.Manager
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStore sets the session store. The default is an in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker adds a distributed lock around every session update,
// for deployments where several processes share a store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithJournal records every delivered booking.
func WithJournal(journal ports.Journal) Option {
	return func(e *Engine) {
		e.journal = journal
	}
}

// WithFlow selects the wizard variant.
func WithFlow(flow domain.Flow) Option {
	return func(e *Engine) {
		e.flow = flow
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithAdmins restricts the bot to the given user IDs. Without it everyone is admitted.
func WithAdmins(ids ...string) Option {
	return func(e *Engine) {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				e.admins[id] = true
			}
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an Engine around a loaded catalog and a card renderer.
func New(catalog ports.Catalog, renderer ports.Renderer, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}

	e := &Engine{
		catalog:  catalog,
		renderer: renderer,
		flow:     domain.DefaultFlow(),
		admins:   make(map[string]bool),
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.flow = e.flow.WithDefaults()
	if err := e.flow.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flow: %w", err)
	}
	if e.store == nil {
		e.store = memory.NewStore(memory.WithClock(e.now))
	}

	e.runtime = runtime.NewEngine(catalog, renderer,
		runtime.WithFlow(e.flow),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
		runtime.WithClock(e.now),
	)

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)
	return e, nil
}

// Flow returns the active wizard variant.
func (e *Engine) Flow() domain.Flow {
	return e.flow
}

// Authorized reports whether userID passes the admin gate.
func (e *Engine) Authorized(userID string) bool {
	return len(e.admins) == 0 || e.admins[userID]
}

// Handle applies one event and returns the actions for the transport.
// Input rejections are not errors: they come back as corrective messages.
// An error means the event could not be processed at all (storage failure,
// oversized or malformed input) and the session is left as it was.
func (e *Engine) Handle(ctx context.Context, ev domain.Event) ([]domain.Action, error) {
	if ev.UserID == "" {
		return nil, errors.New("event has no user id")
	}
	ev, err := sanitize(ev)
	if err != nil {
		return nil, err
	}

	if !e.Authorized(ev.UserID) {
		e.logger.Warn("access denied", "user_id", ev.UserID, "type", ev.Type)
		return []domain.Action{domain.SendText(MsgAccessDenied)}, nil
	}

	var out *runtime.Outcome
	err = e.sessions.Update(ctx, ev.UserID, func(ctx context.Context, current *domain.Session) (*domain.Session, error) {
		o, err := e.runtime.Advance(ctx, current, ev)
		if err != nil {
			return nil, err
		}
		out = o
		return o.Session, nil
	})
	if err != nil {
		return nil, fmt.Errorf("handle %s from %s: %w", ev.Type, ev.UserID, err)
	}
	return out.Actions, nil
}

// errNotDelivered aborts a Delivered update that has nothing to clear.
var errNotDelivered = errors.New("no finished booking to clear")

// Delivered closes the user's booking once the transport has sent the card.
// A rendered session stays at StepComplete until then, so a failed upload
// can be retried without re-entering the draft. The journal entry is written
// here. Calling it for a session that is not finished does nothing.
func (e *Engine) Delivered(ctx context.Context, userID string) error {
	var done *domain.Session
	err := e.sessions.Update(ctx, userID, func(ctx context.Context, current *domain.Session) (*domain.Session, error) {
		if current == nil || current.Step != domain.StepComplete || !current.Draft.Complete() {
			return nil, errNotDelivered
		}
		done = current
		return nil, nil
	})
	if errors.Is(err, errNotDelivered) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clear delivered booking of %s: %w", userID, err)
	}
	e.record(ctx, done)
	return nil
}

func sanitize(ev domain.Event) (domain.Event, error) {
	var err error
	if ev.Text, err = runner.SanitizeInput(ev.Text); err != nil {
		return ev, err
	}
	if ev.Token, err = runner.SanitizeInput(ev.Token); err != nil {
		return ev, err
	}
	return ev, nil
}

// record writes the booking to the journal. The card is already delivered,
// so a journal failure is only logged.
func (e *Engine) record(ctx context.Context, s *domain.Session) {
	if e.journal == nil || s == nil {
		return
	}
	b, err := e.journal.Record(ctx, domain.Booking{
		UserID:    s.UserID,
		Draft:     s.Draft.Clone(),
		CreatedAt: e.now(),
	})
	if err != nil {
		e.logger.Error("booking journal write failed", "user_id", s.UserID, "boat", s.Draft.Boat, "err", err)
		return
	}
	e.logger.Info("booking recorded", "id", b.ID, "user_id", s.UserID, "boat", s.Draft.Boat)
}

// Reset drops the user's session. The next event starts over.
func (e *Engine) Reset(ctx context.Context, userID string) error {
	return e.sessions.Delete(ctx, userID)
}

// Session returns the stored session, or domain.ErrSessionNotFound.
func (e *Engine) Session(ctx context.Context, userID string) (*domain.Session, error) {
	return e.sessions.Load(ctx, userID)
}

// Sessions lists the users with an active session.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Recent returns the latest journal entries, or nothing when no journal is configured.
func (e *Engine) Recent(ctx context.Context, limit int) ([]domain.Booking, error) {
	if e.journal == nil {
		return nil, nil
	}
	return e.journal.Recent(ctx, limit)
}
