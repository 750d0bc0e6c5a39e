package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/charter/internal/logging"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
)

// Engine is the booking wizard state machine.
// It is stateless: every call receives the session and returns the next one,
// so storage and locking stay with the caller.
type Engine struct {
	catalog  ports.Catalog
	renderer ports.Renderer
	flow     domain.Flow
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithFlow selects the wizard variant. Empty fields fall back to domain.DefaultFlow.
func WithFlow(flow domain.Flow) EngineOption {
	return func(e *Engine) {
		e.flow = flow.WithDefaults()
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new engine with dependencies.
func NewEngine(catalog ports.Catalog, renderer ports.Renderer, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:  catalog,
		renderer: renderer,
		flow:     domain.DefaultFlow(),
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flow returns the active wizard variant.
func (e *Engine) Flow() domain.Flow {
	return e.flow
}

// Outcome is the result of one Advance call.
type Outcome struct {
	// Session is the state to persist. On rejection it is the input session, untouched.
	Session *domain.Session

	// Actions are the outbound messages, in order.
	Actions []domain.Action

	// Rejection is set when the event was refused: a *domain.ValidationError,
	// domain.ErrStepMismatch or domain.ErrBoatNotFound.
	Rejection error

	// Completed is set once the card was rendered. The caller keeps the session
	// until the transport has delivered the document.
	Completed bool
	Document  *domain.Document

	// RenderErr is set when the draft was complete but rendering failed.
	// The session stays at StepComplete for a retry.
	RenderErr error
}

// Start creates a fresh session for userID.
func (e *Engine) Start(userID string) *domain.Session {
	return domain.NewSession(userID, e.now())
}

// Advance applies one event to the session.
// The input session is never mutated. An error is returned only for failures
// that are not the user's fault.
func (e *Engine) Advance(ctx context.Context, s *domain.Session, ev domain.Event) (*Outcome, error) {
	if s == nil {
		s = e.Start(ev.UserID)
	}

	switch {
	case ev.Type == domain.EventCommand && ev.Name == domain.CommandStart:
		return e.reset(ctx, s, "", nil), nil
	case ev.Type == domain.EventCommand && ev.Name == domain.CommandCancel:
		return e.reset(ctx, s, msgCancelled, nil), nil
	case ev.Type == domain.EventButton && isReset(ev.Token):
		return e.reset(ctx, s, "", nil), nil
	case ev.Type == domain.EventText && strings.TrimSpace(ev.Text) == NewCardText:
		return e.reset(ctx, s, "", nil), nil
	case ev.Type == domain.EventCommand:
		return e.reject(ctx, s, domain.Reject(s.Step, msgUnknownCommand)), nil
	case ev.Type == domain.EventButton && ev.Token == TokenCalendarIgnore:
		return &Outcome{Session: s}, nil
	}

	next := s.Clone()
	if s.Step == domain.StepComplete {
		if ev.Type == domain.EventButton && ev.Token != TokenRetryRender {
			return e.reject(ctx, s, domain.ErrStepMismatch), nil
		}
		return e.complete(ctx, next, nil), nil
	}

	res, err := e.handle(next, ev)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve), errors.Is(err, domain.ErrStepMismatch):
			return e.reject(ctx, s, err), nil
		case errors.Is(err, domain.ErrBoatNotFound):
			return e.reset(ctx, s, msgBoatNotFound, err), nil
		default:
			return nil, fmt.Errorf("advance %s: %w", s.Step, err)
		}
	}
	next.UpdatedAt = e.now()
	if res.stay {
		return &Outcome{Session: next, Actions: res.actions}, nil
	}

	boat, err := e.boatFor(next)
	if err != nil {
		return e.reset(ctx, s, msgBoatNotFound, err), nil
	}
	to := NextStep(e.flow, s.Step, next.Draft, boat)
	e.transition(ctx, next, to)

	actions := res.actions
	if to == domain.StepComplete {
		actions = append(actions, domain.SendText(summary(next.Draft)))
		return e.complete(ctx, next, actions), nil
	}
	actions = append(actions, e.prompt(next)...)
	return &Outcome{Session: next, Actions: actions}, nil
}

// Prompt returns the question for the session's current step.
func (e *Engine) Prompt(s *domain.Session) []domain.Action {
	return e.prompt(s)
}

func (e *Engine) reset(ctx context.Context, s *domain.Session, notice string, cause error) *Outcome {
	fresh := domain.NewSession(s.UserID, e.now())
	if s.Step != domain.StepBoatSelection {
		e.emitLeave(ctx, s.UserID, s.Step, domain.StepBoatSelection)
		e.emitEnter(ctx, s.UserID, s.Step, domain.StepBoatSelection)
	}

	var actions []domain.Action
	if notice != "" {
		actions = append(actions, domain.SendText(notice))
	}
	actions = append(actions, e.prompt(fresh)...)
	if cause != nil {
		e.logger.Debug("draft reset", "user_id", s.UserID, "step", s.Step, "err", cause)
	}
	return &Outcome{Session: fresh, Actions: actions, Rejection: cause}
}

func (e *Engine) reject(ctx context.Context, s *domain.Session, err error) *Outcome {
	var actions []domain.Action
	reason := msgStaleButton
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		reason = ve.Reason
		actions = append(actions, domain.SendText(reason))
		actions = append(actions, e.prompt(s)...)
	} else {
		actions = append(actions, domain.SendText(reason))
	}

	if e.hooks.OnReject != nil {
		e.hooks.OnReject(ctx, &domain.RejectEvent{
			Timestamp: e.now(),
			UserID:    s.UserID,
			Step:      s.Step,
			Reason:    reason,
		})
	}
	e.logger.Debug("input rejected", "user_id", s.UserID, "step", s.Step, "err", err)
	return &Outcome{Session: s, Actions: actions, Rejection: err}
}

// complete renders the card for a session at StepComplete.
func (e *Engine) complete(ctx context.Context, s *domain.Session, actions []domain.Action) *Outcome {
	doc, err := e.render(ctx, s)
	if err != nil {
		actions = append(actions, retryPrompt())
		return &Outcome{Session: s, Actions: actions, RenderErr: err}
	}
	actions = append(actions,
		domain.Action{Type: domain.ActionSendDocument, Text: msgCardReady, Document: doc},
		newCardPrompt(),
	)
	return &Outcome{Session: s, Actions: actions, Completed: true, Document: doc}
}

func (e *Engine) render(ctx context.Context, s *domain.Session) (*domain.Document, error) {
	start := time.Now()
	doc, err := e.renderDraft(ctx, s.Draft)
	if e.hooks.OnRender != nil {
		e.hooks.OnRender(ctx, &domain.RenderEvent{
			Timestamp: e.now(),
			UserID:    s.UserID,
			Boat:      s.Draft.Boat,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if err != nil {
		e.logger.Error("booking card render failed", "user_id", s.UserID, "boat", s.Draft.Boat, "err", err)
		return nil, err
	}
	return doc, nil
}

func (e *Engine) renderDraft(ctx context.Context, d domain.Draft) (*domain.Document, error) {
	if missing := d.Missing(); len(missing) > 0 {
		return nil, &domain.RenderError{Boat: d.Boat, Err: fmt.Errorf("draft is missing %v", missing)}
	}
	boat, err := e.catalog.Lookup(d.Boat)
	if err != nil {
		return nil, &domain.RenderError{Boat: d.Boat, Err: err}
	}
	doc, err := e.renderer.Render(ctx, d, boat)
	if err != nil {
		var re *domain.RenderError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, &domain.RenderError{Boat: d.Boat, Err: err}
	}
	return doc, nil
}

// boatFor returns the catalog entry of the chosen boat, or a zero Boat before selection.
func (e *Engine) boatFor(s *domain.Session) (domain.Boat, error) {
	if s.Draft.Boat == "" {
		return domain.Boat{}, nil
	}
	return e.catalog.Lookup(s.Draft.Boat)
}

func (e *Engine) transition(ctx context.Context, s *domain.Session, to domain.Step) {
	from := s.Step
	e.emitLeave(ctx, s.UserID, from, to)
	s.Step = to
	s.History = append(s.History, to)
	e.emitEnter(ctx, s.UserID, from, to)
}

func (e *Engine) emitLeave(ctx context.Context, userID string, from, to domain.Step) {
	if e.hooks.OnStepLeave == nil {
		return
	}
	e.hooks.OnStepLeave(ctx, &domain.StepEvent{Timestamp: e.now(), UserID: userID, From: from, To: to})
}

func (e *Engine) emitEnter(ctx context.Context, userID string, from, to domain.Step) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	e.hooks.OnStepEnter(ctx, &domain.StepEvent{Timestamp: e.now(), UserID: userID, From: from, To: to})
}
