package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the wizard collectors.
type Metrics struct {
	Transitions    *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	RenderFailures prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors that are already registered are reused, so calling it twice
// against the same registry is safe.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charter_step_transitions_total",
				Help: "Wizard step transitions by source and target step.",
			},
			[]string{"from", "to"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charter_rejections_total",
				Help: "Rejected user inputs by step.",
			},
			[]string{"step"},
		),
		RenderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "charter_render_duration_seconds",
				Help:    "Duration of booking card renders.",
				Buckets: prometheus.DefBuckets,
			},
		),
		RenderFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "charter_render_failures_total",
				Help: "Booking card renders that failed.",
			},
		),
	}

	var err error
	if m.Transitions, err = register(reg, m.Transitions); err != nil {
		return nil, err
	}
	if m.Rejections, err = register(reg, m.Rejections); err != nil {
		return nil, err
	}
	if m.RenderDuration, err = register(reg, m.RenderDuration); err != nil {
		return nil, err
	}
	if m.RenderFailures, err = register(reg, m.RenderFailures); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.Rejections.WithLabelValues(string(e.Step)).Inc()
		},
		OnRender: func(_ context.Context, e *domain.RenderEvent) {
			m.RenderDuration.Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.RenderFailures.Inc()
			}
		},
	}
}

// LoggingHooks logs every lifecycle event at Debug, and render failures at Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_enter", "user_id", e.UserID, "from", e.From, "to", e.To)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_leave", "user_id", e.UserID, "from", e.From)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.DebugContext(ctx, "input_rejected", "user_id", e.UserID, "step", e.Step, "reason", e.Reason)
		},
		OnRender: func(ctx context.Context, e *domain.RenderEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "render", "user_id", e.UserID, "boat", e.Boat, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "render", "user_id", e.UserID, "boat", e.Boat, "duration", e.Duration)
		},
	}
}
