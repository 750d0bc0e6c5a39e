package ports

import (
	"context"

	"github.com/aretw0/charter/pkg/domain"
)

// Renderer produces the booking card for a completed draft.
// Implementations must be deterministic: the same draft and boat yield the same bytes.
type Renderer interface {
	Render(ctx context.Context, draft domain.Draft, boat domain.Boat) (*domain.Document, error)
}
