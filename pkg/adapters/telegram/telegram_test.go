package telegram_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/charter"
	"github.com/aretw0/charter/pkg/adapters/catalog"
	"github.com/aretw0/charter/pkg/adapters/telegram"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ telegram.API = (*tgbotapi.BotAPI)(nil)
	_ ports.Sender = (*telegram.Sender)(nil)
)

type fakeAPI struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	failPhoto bool
	failDoc   bool
	failAll   bool
	updates   chan tgbotapi.Update
	stopped   bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 8)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return tgbotapi.Message{}, errors.New("network down")
	}
	if _, ok := c.(tgbotapi.PhotoConfig); ok && f.failPhoto {
		return tgbotapi.Message{}, errors.New("file not found")
	}
	if _, ok := c.(tgbotapi.DocumentConfig); ok && f.failDoc {
		return tgbotapi.Message{}, errors.New("upload failed")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) Sent() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

func TestSender_Mapping(t *testing.T) {
	api := newFakeAPI()
	sender := telegram.NewSender(api)

	inline := domain.Keyboard{
		Kind:    domain.KeyboardInline,
		Buttons: []domain.Button{{Label: "A", Token: "boat_A"}, {Label: "B", Token: "boat_B"}, {Label: "C", Token: "boat_C"}},
		Layout:  []int{2},
	}
	reply := domain.Keyboard{Kind: domain.KeyboardReply, Buttons: []domain.Button{{Label: "2"}, {Label: "3"}}}

	err := sender.Send(context.Background(), "42", []domain.Action{
		domain.SendText("hello"),
		domain.SendButtons("pick", inline),
		domain.SendButtons("hours", reply),
		{Type: domain.ActionRemoveKeyboard, Text: "ok"},
		{Type: domain.ActionSendDocument, Text: "card", Document: &domain.Document{Name: "a.pdf", Bytes: []byte("%PDF")}},
	})
	require.NoError(t, err)

	sent := api.Sent()
	require.Len(t, sent, 5)

	text := sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(42), text.ChatID)
	assert.Equal(t, "hello", text.Text)
	assert.Nil(t, text.ReplyMarkup)

	markup := sent[1].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	require.NotNil(t, markup.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "boat_C", *markup.InlineKeyboard[1][0].CallbackData)

	replyMarkup := sent[2].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	assert.True(t, replyMarkup.ResizeKeyboard)
	assert.Equal(t, "3", replyMarkup.Keyboard[0][1].Text)

	remove := sent[3].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	assert.True(t, remove.RemoveKeyboard)

	doc := sent[4].(tgbotapi.DocumentConfig)
	assert.Equal(t, "card", doc.Caption)
	assert.Equal(t, tgbotapi.FileBytes{Name: "a.pdf", Bytes: []byte("%PDF")}, doc.File)
}

func TestSender_PhotoFallback(t *testing.T) {
	api := newFakeAPI()
	api.failPhoto = true
	sender := telegram.NewSender(api, telegram.WithPhotoResolver(func(p string) string { return "/photos/" + p }))

	kb := domain.Keyboard{Kind: domain.KeyboardInline, Buttons: []domain.Button{{Label: "Выбрать", Token: "boat_Bounty"}}}
	err := sender.Send(context.Background(), "42", []domain.Action{
		{Type: domain.ActionSendPhoto, Photo: "bounty.jpg", Text: "Bounty", Keyboard: &kb},
	})
	require.NoError(t, err)

	sent := api.Sent()
	require.Len(t, sent, 1)
	msg := sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "Bounty", msg.Text)
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, msg.ReplyMarkup)
}

func TestSender_Errors(t *testing.T) {
	api := newFakeAPI()
	sender := telegram.NewSender(api)

	err := sender.Send(context.Background(), "not-a-number", []domain.Action{domain.SendText("x")})
	assert.Error(t, err)

	api.failAll = true
	err = sender.Send(context.Background(), "42", []domain.Action{domain.SendText("x")})
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.ActionSendText, te.Action)
}

func command(userID int64, name string) tgbotapi.Update {
	text := "/" + name
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: userID},
		Chat:     &tgbotapi.Chat{ID: userID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func TestEventFromUpdate(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   domain.Event
		ok     bool
	}{
		{"command", command(7, "start"), domain.Command("7", "start"), true},
		{
			"text",
			tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 7}, Text: "Anna"}},
			domain.Text("7", "Anna"),
			true,
		},
		{
			"callback",
			tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", From: &tgbotapi.User{ID: 7}, Data: "capt_1"}},
			domain.Press("7", "capt_1"),
			true,
		},
		{"sticker", tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 7}}}, domain.Event{}, false},
		{"empty", tgbotapi.Update{}, domain.Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := telegram.EventFromUpdate(tt.update)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBot_Run(t *testing.T) {
	api := newFakeAPI()
	var mu sync.Mutex
	var seen []domain.Event
	handler := ports.EventHandlerFunc(func(ctx context.Context, ev domain.Event) ([]domain.Action, error) {
		mu.Lock()
		seen = append(seen, ev)
		mu.Unlock()
		if ev.Type == domain.EventButton {
			return nil, errors.New("boom")
		}
		return []domain.Action{domain.SendText("echo")}, nil
	})

	bot := telegram.NewBot(api, handler)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	api.updates <- command(7, "start")
	api.updates <- tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", From: &tgbotapi.User{ID: 8}, Data: "x"}}

	assert.Eventually(t, func() bool { return len(api.Sent()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.True(t, api.stopped)
	require.Len(t, api.requests, 1, "callback must be acknowledged")

	var texts []string
	for _, c := range api.sent {
		texts = append(texts, c.(tgbotapi.MessageConfig).Text)
	}
	assert.ElementsMatch(t, []string{"echo", telegram.MsgFailure}, texts)
}

type bookingHandler struct {
	mu        sync.Mutex
	delivered []string
}

func (h *bookingHandler) Handle(ctx context.Context, ev domain.Event) ([]domain.Action, error) {
	return []domain.Action{
		domain.SendText("summary"),
		{Type: domain.ActionSendDocument, Document: &domain.Document{Name: "card.pdf", Bytes: []byte("%PDF")}},
	}, nil
}

func (h *bookingHandler) Delivered(ctx context.Context, userID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.delivered = append(h.delivered, userID)
	return nil
}

func TestBot_Dispatch_Delivery(t *testing.T) {
	payment := tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 7}, Text: "5000"}}

	t.Run("Upload failure keeps the booking", func(t *testing.T) {
		api := newFakeAPI()
		api.failDoc = true
		handler := &bookingHandler{}

		telegram.NewBot(api, handler).Dispatch(context.Background(), payment)

		assert.Empty(t, handler.delivered)
		sent := api.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, telegram.MsgDeliveryFailed, sent[1].(tgbotapi.MessageConfig).Text)
	})

	t.Run("Sent card is confirmed", func(t *testing.T) {
		api := newFakeAPI()
		handler := &bookingHandler{}

		telegram.NewBot(api, handler).Dispatch(context.Background(), payment)

		assert.Equal(t, []string{"7"}, handler.delivered)
		assert.Len(t, api.Sent(), 2)
	})
}

type cardRenderer struct{}

func (cardRenderer) Render(_ context.Context, d domain.Draft, _ domain.Boat) (*domain.Document, error) {
	return &domain.Document{Name: "аренда.pdf", Bytes: []byte(d.ClientName)}, nil
}

func text(userID int64, v string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: userID}, Text: v}}
}

func press(userID int64, token string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", From: &tgbotapi.User{ID: userID}, Data: token}}
}

func TestBot_Dispatch_BookingSurvivesFailedUpload(t *testing.T) {
	ctx := context.Background()
	cat, err := catalog.New(domain.Boat{
		Name:     "Bounty",
		Pier:     "Pier 3",
		Photo:    "bounty.jpg",
		Captains: []domain.Captain{{Name: "Ivan", Phone: "+79110000000"}},
	})
	require.NoError(t, err)
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	eng, err := charter.New(cat, cardRenderer{}, charter.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	api := newFakeAPI()
	bot := telegram.NewBot(api, eng)
	for _, u := range []tgbotapi.Update{
		command(7, "start"),
		press(7, "boat_Bounty"),
		text(7, "2"),
		press(7, "cal_day:2025-07-15"),
		press(7, "hour_14"),
		press(7, "minute_14:00"),
		text(7, "4"),
		text(7, "Анна Петрова"),
	} {
		bot.Dispatch(ctx, u)
	}

	api.failDoc = true
	bot.Dispatch(ctx, text(7, "5000"))

	s, err := eng.Session(ctx, "7")
	require.NoError(t, err, "the draft must survive a failed upload")
	assert.Equal(t, domain.StepComplete, s.Step)
	assert.Equal(t, "Анна Петрова", s.Draft.ClientName)

	api.failDoc = false
	bot.Dispatch(ctx, text(7, "ещё раз"))

	_, err = eng.Session(ctx, "7")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	var docs int
	for _, c := range api.Sent() {
		if _, ok := c.(tgbotapi.DocumentConfig); ok {
			docs++
		}
	}
	assert.Equal(t, 1, docs)
}
