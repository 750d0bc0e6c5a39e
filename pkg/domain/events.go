package domain

import (
	"context"
	"time"
)

// StepEvent reports a step transition for a user.
type StepEvent struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	From      Step      `json:"from"`
	To        Step      `json:"to"`
}

// RejectEvent reports an input rejection.
type RejectEvent struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Step      Step      `json:"step"`
	Reason    string    `json:"reason"`
}

// RenderEvent reports a document render attempt.
type RenderEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	UserID    string        `json:"user_id"`
	Boat      string        `json:"boat"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnStepLeave func(context.Context, *StepEvent)
	OnReject    func(context.Context, *RejectEvent)
	OnRender    func(context.Context, *RenderEvent)
}

// ChainHooks returns hooks that call each of the given hooks in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepEnter != nil {
					h.OnStepEnter(ctx, e)
				}
			}
		},
		OnStepLeave: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepLeave != nil {
					h.OnStepLeave(ctx, e)
				}
			}
		},
		OnReject: func(ctx context.Context, e *RejectEvent) {
			for _, h := range hooks {
				if h.OnReject != nil {
					h.OnReject(ctx, e)
				}
			}
		},
		OnRender: func(ctx context.Context, e *RenderEvent) {
			for _, h := range hooks {
				if h.OnRender != nil {
					h.OnRender(ctx, e)
				}
			}
		},
	}
}
