package ports

import (
	"context"

	"github.com/aretw0/charter/pkg/domain"
)

// EventHandler is the driving port: transports feed user events into it and
// deliver the returned actions.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event) ([]domain.Action, error)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, ev domain.Event) ([]domain.Action, error)

func (f EventHandlerFunc) Handle(ctx context.Context, ev domain.Event) ([]domain.Action, error) {
	return f(ctx, ev)
}

// DeliveryConfirmer is implemented by handlers that keep a finished booking
// until the transport reports the document as sent.
type DeliveryConfirmer interface {
	Delivered(ctx context.Context, userID string) error
}

// ConfirmDelivery reports a successful send of actions back to handler.
// It does nothing unless the actions carry a document and handler
// implements DeliveryConfirmer.
func ConfirmDelivery(ctx context.Context, handler EventHandler, userID string, actions []domain.Action) error {
	c, ok := handler.(DeliveryConfirmer)
	if !ok || !domain.HasDocument(actions) {
		return nil
	}
	return c.Delivered(ctx, userID)
}
