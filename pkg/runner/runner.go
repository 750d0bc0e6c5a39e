package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/charter/internal/logging"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (console) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the actions to the user.
	Output(ctx context.Context, actions []domain.Action) error

	// Input reads one line from the user. It returns io.EOF when the input is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (status, errors) distinct from the wizard content.
	SystemOutput(ctx context.Context, msg string) error
}

// Runner is the console loop for one user.
type Runner struct {
	Handler IOHandler
	Logger  *slog.Logger
	UserID  string

	skipStart bool
}

// NewRunner creates a Runner on Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
		UserID: DefaultUserID,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run sends /start and then feeds every input line to the handler until the
// input ends, the user types exit, or ctx is canceled (Ctrl+C included).
func (r *Runner) Run(ctx context.Context, engine ports.EventHandler) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	var keyboard *domain.Keyboard
	dispatch := func(ev domain.Event) error {
		actions, err := engine.Handle(ctx, ev)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.Logger.Error("event handling failed", "user_id", r.UserID, "err", err)
			return r.Handler.SystemOutput(ctx, fmt.Sprintf("error: %v", err))
		}
		keyboard = lastKeyboard(keyboard, actions)
		if err := r.Handler.Output(ctx, actions); err != nil {
			return err
		}
		return ports.ConfirmDelivery(ctx, engine, r.UserID, actions)
	}

	if !r.skipStart {
		if err := dispatch(domain.Command(r.UserID, domain.CommandStart)); err != nil {
			return stopped(err)
		}
	}

	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			signals.CheckRace()
			if ctx.Err() != nil {
				_ = r.Handler.SystemOutput(context.Background(), "interrupted")
				return nil
			}
			return stopped(err)
		}
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		ev := ParseInput(r.UserID, line, keyboard)
		r.Logger.Debug("console input", "type", ev.Type, "token", ev.Token)
		if err := dispatch(ev); err != nil {
			return stopped(err)
		}
	}
}

func stopped(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// lastKeyboard returns the keyboard the user is looking at after actions were shown.
func lastKeyboard(current *domain.Keyboard, actions []domain.Action) *domain.Keyboard {
	for _, a := range actions {
		switch {
		case a.Type == domain.ActionRemoveKeyboard:
			current = nil
		case a.Keyboard != nil && len(a.Keyboard.Buttons) > 0:
			current = a.Keyboard
		}
	}
	return current
}

// ParseInput turns a console line into an event.
//
//   - "/name" is a command.
//   - "@token" presses a raw button token.
//   - A number picks that button of the visible keyboard (1-based).
//   - Anything else is text.
func ParseInput(userID, line string, kb *domain.Keyboard) domain.Event {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "/"):
		name := strings.Fields(strings.TrimPrefix(line, "/"))
		if len(name) > 0 {
			return domain.Command(userID, name[0])
		}
	case strings.HasPrefix(line, "@") && len(line) > 1:
		return domain.Press(userID, line[1:])
	}

	if kb != nil {
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(kb.Buttons) {
			b := kb.Buttons[n-1]
			if kb.Kind == domain.KeyboardReply || b.Token == "" {
				return domain.Text(userID, b.Label)
			}
			return domain.Press(userID, b.Token)
		}
	}
	return domain.Text(userID, line)
}
