package ports

import (
	"context"

	"github.com/aretw0/charter/pkg/domain"
)

// Sender delivers outbound actions to a user over some messenger.
type Sender interface {
	Send(ctx context.Context, userID string, actions []domain.Action) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, userID string, actions []domain.Action) error

func (f SenderFunc) Send(ctx context.Context, userID string, actions []domain.Action) error {
	return f(ctx, userID, actions)
}
