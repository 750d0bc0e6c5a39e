package ports

import (
	"context"

	"github.com/aretw0/charter/pkg/domain"
)

// Journal keeps a durable record of delivered bookings.
type Journal interface {
	// Record appends a booking and returns it with its assigned ID.
	Record(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// Recent returns up to limit bookings, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Booking, error)
}
