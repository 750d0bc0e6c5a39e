package runner

import (
	"log/slog"
)

// DefaultUserID identifies the console user when none is configured.
const DefaultUserID = "console"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithUserID sets the identity the console events are sent as.
func WithUserID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.UserID = id
		}
	}
}

// WithoutStart skips the initial /start, resuming whatever session is stored.
func WithoutStart() Option {
	return func(r *Runner) {
		r.skipStart = true
	}
}
