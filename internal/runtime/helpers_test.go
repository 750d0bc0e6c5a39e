package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/charter/internal/runtime"
	"github.com/aretw0/charter/pkg/adapters/catalog"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// stubRenderer returns a text document describing the draft.
type stubRenderer struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (r *stubRenderer) Render(_ context.Context, d domain.Draft, b domain.Boat) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail != nil {
		return nil, r.fail
	}
	body := fmt.Sprintf("%v|%s", d.Fields(), b.Photo)
	return &domain.Document{Name: "аренда.pdf", MIME: "application/pdf", Bytes: []byte(body)}, nil
}

func (r *stubRenderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

var errTemplateMissing = errors.New("template missing")

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		domain.Boat{
			Name:     "Bounty",
			Pier:     "Pier 3",
			Photo:    "bounty.jpg",
			Captains: []domain.Captain{{Name: "Ivan", Phone: "+79110000000"}},
		},
		domain.Boat{
			Name:  "Aurora",
			Pier:  "Pier 1",
			Photo: "aurora.jpg",
			Captains: []domain.Captain{
				{Name: "Oleg", Phone: "+79110000001"},
				{Name: "Pavel", Phone: "+79110000002"},
			},
		},
		domain.Boat{Name: "Chaika", Photo: "chaika.jpg"},
	)
	require.NoError(t, err)
	return c
}

func newEngine(t *testing.T, r *stubRenderer, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	opts = append([]runtime.EngineOption{runtime.WithClock(testClock)}, opts...)
	return runtime.NewEngine(testCatalog(t), r, opts...)
}

// drive feeds events that must all be accepted and returns the last outcome.
func drive(t *testing.T, e *runtime.Engine, s *domain.Session, events ...domain.Event) *runtime.Outcome {
	t.Helper()
	var out *runtime.Outcome
	for _, ev := range events {
		var err error
		out, err = e.Advance(context.Background(), s, ev)
		require.NoError(t, err)
		require.NoError(t, out.Rejection, "event %+v", ev)
		s = out.Session
	}
	return out
}

const user = "42"

func text(v string) domain.Event   { return domain.Text(user, v) }
func button(v string) domain.Event { return domain.Press(user, v) }

// toGuests drives a fresh Bounty session up to the guest count question.
func toGuests(t *testing.T, e *runtime.Engine) *domain.Session {
	t.Helper()
	out := drive(t, e, nil,
		domain.Command(user, domain.CommandStart),
		button("boat_Bounty"),
		text("2"),
		button("cal_day:2025-07-15"),
		button("hour_14"),
		button("minute_14:00"),
	)
	require.Equal(t, domain.StepGuestCount, out.Session.Step)
	return out.Session
}
