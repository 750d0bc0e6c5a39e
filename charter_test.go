package charter_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/charter"
	"github.com/aretw0/charter/pkg/adapters/catalog"
	"github.com/aretw0/charter/pkg/adapters/memory"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const user = "1001"

var testNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

type stubRenderer struct{ fail error }

func (r stubRenderer) Render(_ context.Context, d domain.Draft, _ domain.Boat) (*domain.Document, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	return &domain.Document{Name: "аренда.pdf", MIME: "application/pdf", Bytes: []byte(d.ClientName)}, nil
}

type fakeJournal struct {
	mu       sync.Mutex
	bookings []domain.Booking
	fail     error
}

func (j *fakeJournal) Record(_ context.Context, b domain.Booking) (domain.Booking, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail != nil {
		return domain.Booking{}, j.fail
	}
	b.ID = int64(len(j.bookings) + 1)
	j.bookings = append(j.bookings, b)
	return b, nil
}

func (j *fakeJournal) Recent(_ context.Context, limit int) ([]domain.Booking, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.bookings, nil
}

// failingStore refuses every write.
type failingStore struct{ *memory.Store }

func (failingStore) Save(context.Context, string, *domain.Session) error {
	return errors.New("disk full")
}

func newEngine(t *testing.T, opts ...charter.Option) *charter.Engine {
	t.Helper()
	cat, err := catalog.New(domain.Boat{
		Name:     "Bounty",
		Pier:     "Pier 3",
		Photo:    "bounty.jpg",
		Captains: []domain.Captain{{Name: "Ivan", Phone: "+79110000000"}},
	})
	require.NoError(t, err)

	opts = append([]charter.Option{charter.WithClock(func() time.Time { return testNow })}, opts...)
	eng, err := charter.New(cat, stubRenderer{}, opts...)
	require.NoError(t, err)
	return eng
}

func handle(t *testing.T, eng *charter.Engine, events ...domain.Event) []domain.Action {
	t.Helper()
	var actions []domain.Action
	for _, ev := range events {
		var err error
		actions, err = eng.Handle(context.Background(), ev)
		require.NoError(t, err)
	}
	return actions
}

func book(eng *charter.Engine, t *testing.T) []domain.Action {
	return handle(t, eng,
		domain.Command(user, domain.CommandStart),
		domain.Press(user, "boat_Bounty"),
		domain.Text(user, "2"),
		domain.Press(user, "cal_day:2025-07-15"),
		domain.Press(user, "hour_14"),
		domain.Press(user, "minute_14:00"),
		domain.Text(user, "4"),
		domain.Text(user, "Анна Петрова"),
		domain.Text(user, "5000"),
	)
}

func TestEngine_Handle_Booking(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{}
	eng := newEngine(t, charter.WithJournal(journal))

	actions := book(eng, t)

	var doc *domain.Document
	for _, a := range actions {
		if a.Document != nil {
			doc = a.Document
		}
	}
	require.NotNil(t, doc)
	assert.Equal(t, "Анна Петрова", string(doc.Bytes))

	s, err := eng.Session(ctx, user)
	require.NoError(t, err, "the booking is kept until the card is delivered")
	assert.Equal(t, domain.StepComplete, s.Step)
	assert.Empty(t, journal.bookings)

	require.NoError(t, eng.Delivered(ctx, user))
	_, err = eng.Session(ctx, user)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "a delivered card clears the session")

	recent, err := eng.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(1), recent[0].ID)
	assert.Equal(t, user, recent[0].UserID)
	assert.Equal(t, "Bounty", recent[0].Draft.Boat)
	assert.Equal(t, testNow, recent[0].CreatedAt)
}

func TestEngine_Handle_JournalFailureIsNotFatal(t *testing.T) {
	journal := &fakeJournal{fail: errors.New("locked")}
	eng := newEngine(t, charter.WithJournal(journal))

	actions := book(eng, t)
	assert.NotEmpty(t, actions)
	require.NoError(t, eng.Delivered(context.Background(), user))
	assert.Empty(t, journal.bookings)
}

func TestEngine_Delivered(t *testing.T) {
	ctx := context.Background()

	t.Run("Undelivered card is rendered again", func(t *testing.T) {
		journal := &fakeJournal{}
		eng := newEngine(t, charter.WithJournal(journal))
		require.True(t, domain.HasDocument(book(eng, t)))

		actions := handle(t, eng, domain.Text(user, "ещё раз"))
		assert.True(t, domain.HasDocument(actions))

		s, err := eng.Session(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "Анна Петрова", s.Draft.ClientName)
		assert.Empty(t, journal.bookings)
	})

	t.Run("Unfinished session is left alone", func(t *testing.T) {
		journal := &fakeJournal{}
		eng := newEngine(t, charter.WithJournal(journal))
		handle(t, eng, domain.Command(user, domain.CommandStart), domain.Press(user, "boat_Bounty"))

		require.NoError(t, eng.Delivered(ctx, user))
		s, err := eng.Session(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, domain.StepHoursSelection, s.Step)
		assert.Empty(t, journal.bookings)
	})

	t.Run("No session", func(t *testing.T) {
		eng := newEngine(t)
		assert.NoError(t, eng.Delivered(ctx, "nobody"))
	})

	t.Run("New card after delivery", func(t *testing.T) {
		eng := newEngine(t)
		book(eng, t)
		require.NoError(t, eng.Delivered(ctx, user))

		actions := handle(t, eng, domain.Text(user, "Новая карточка"))
		require.NotEmpty(t, actions)
		s, err := eng.Session(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, domain.StepBoatSelection, s.Step)
	})
}

func TestEngine_Handle_Sessions(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)

	handle(t, eng, domain.Command(user, domain.CommandStart), domain.Press(user, "boat_Bounty"))
	handle(t, eng, domain.Command("2002", domain.CommandStart))

	ids, err := eng.Sessions(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{user, "2002"}, ids)

	s, err := eng.Session(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, domain.StepHoursSelection, s.Step)

	// A rejected answer leaves the stored session as it was.
	actions := handle(t, eng, domain.Text(user, "100"))
	require.NotEmpty(t, actions)
	after, err := eng.Session(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, s, after)

	require.NoError(t, eng.Reset(ctx, user))
	_, err = eng.Session(ctx, user)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEngine_Handle_AdminGate(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, charter.WithAdmins(user, " "))

	assert.True(t, eng.Authorized(user))
	assert.False(t, eng.Authorized("2002"))

	actions := handle(t, eng, domain.Command("2002", domain.CommandStart))
	assert.Equal(t, []domain.Action{domain.SendText(charter.MsgAccessDenied)}, actions)

	_, err := eng.Session(ctx, "2002")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "no session for refused users")

	actions = handle(t, eng, domain.Command(user, domain.CommandStart))
	require.Len(t, actions, 1)
	assert.NotNil(t, actions[0].Keyboard)
}

func TestEngine_Handle_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("oversized input", func(t *testing.T) {
		eng := newEngine(t)
		_, err := eng.Handle(ctx, domain.Text(user, strings.Repeat("я", runner.DefaultMaxInputSize)))
		assert.ErrorIs(t, err, runner.ErrInputTooLarge)
	})

	t.Run("invalid utf8 token", func(t *testing.T) {
		eng := newEngine(t)
		_, err := eng.Handle(ctx, domain.Press(user, "boat_\xff"))
		assert.ErrorIs(t, err, runner.ErrInvalidUTF8)
	})

	t.Run("missing user", func(t *testing.T) {
		eng := newEngine(t)
		_, err := eng.Handle(ctx, domain.Text("", "hi"))
		assert.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		eng := newEngine(t, charter.WithStore(failingStore{memory.NewStore()}))
		_, err := eng.Handle(ctx, domain.Command(user, domain.CommandStart))
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestNew_Validation(t *testing.T) {
	cat, err := catalog.New(domain.Boat{Name: "Bounty"})
	require.NoError(t, err)

	_, err = charter.New(nil, stubRenderer{})
	assert.Error(t, err)

	_, err = charter.New(cat, nil)
	assert.Error(t, err)

	_, err = charter.New(cat, stubRenderer{}, charter.WithFlow(domain.Flow{HoursMode: "weekly"}))
	assert.ErrorContains(t, err, "hours_mode")

	eng, err := charter.New(cat, stubRenderer{}, charter.WithFlow(domain.Flow{TimeInput: domain.TimeFreeform}))
	require.NoError(t, err)
	assert.Equal(t, domain.TimeFreeform, eng.Flow().TimeInput)
	assert.Equal(t, domain.CaptainList, eng.Flow().CaptainSource)
}

func TestEngine_Handle_ConcurrentUsers(t *testing.T) {
	eng := newEngine(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Handle(context.Background(), domain.Command(user, domain.CommandStart))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ids, err := eng.Sessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{user}, ids)
}
