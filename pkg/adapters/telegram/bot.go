package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aretw0/charter/internal/logging"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MsgFailure is sent when the handler fails for reasons the user cannot fix.
const MsgFailure = "Что-то пошло не так. Попробуйте ещё раз."

// MsgDeliveryFailed is sent when the card could not be uploaded.
const MsgDeliveryFailed = "Не удалось отправить карточку. Отправьте любое сообщение, чтобы повторить."

// Bot is the long-polling update loop.
type Bot struct {
	api         API
	handler     ports.EventHandler
	sender      ports.Sender
	pollTimeout int
	logger      *slog.Logger
}

// BotOption configures the Bot.
type BotOption func(*Bot)

// WithSender overrides the default Sender built on the same API.
func WithSender(sender ports.Sender) BotOption {
	return func(b *Bot) {
		b.sender = sender
	}
}

// WithPollTimeout sets the long-polling timeout in seconds.
func WithPollTimeout(seconds int) BotOption {
	return func(b *Bot) {
		b.pollTimeout = seconds
	}
}

// WithLogger sets the bot logger.
func WithLogger(logger *slog.Logger) BotOption {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBot creates the update loop.
func NewBot(api API, handler ports.EventHandler, opts ...BotOption) *Bot {
	b := &Bot{
		api:         api,
		handler:     handler,
		pollTimeout: 60,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.sender == nil {
		b.sender = NewSender(api, WithSenderLogger(b.logger))
	}
	return b
}

// Connect authenticates against the Bot API with the given token.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// Run polls updates until ctx is canceled or the update channel closes.
// Updates are handled concurrently; the handler serializes events of one user.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.Dispatch(ctx, u)
			}()
		}
	}
}

// Dispatch handles a single update.
func (b *Bot) Dispatch(ctx context.Context, u tgbotapi.Update) {
	if cq := u.CallbackQuery; cq != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.logger.Debug("callback ack failed", "callback_id", cq.ID, "err", err)
		}
	}

	ev, ok := EventFromUpdate(u)
	if !ok {
		return
	}

	actions, err := b.handler.Handle(ctx, ev)
	if err != nil {
		b.logger.Error("event handling failed", "user_id", ev.UserID, "type", ev.Type, "err", err)
		actions = []domain.Action{domain.SendText(MsgFailure)}
	}
	if len(actions) == 0 {
		return
	}
	if err := b.sender.Send(ctx, ev.UserID, actions); err != nil {
		b.logger.Error("delivery failed", "user_id", ev.UserID, "err", err)
		if domain.HasDocument(actions) {
			// The booking is still stored at the final step; any message re-renders it.
			_ = b.sender.Send(ctx, ev.UserID, []domain.Action{domain.SendText(MsgDeliveryFailed)})
		}
		return
	}
	if err := ports.ConfirmDelivery(ctx, b.handler, ev.UserID, actions); err != nil {
		b.logger.Error("delivery confirmation failed", "user_id", ev.UserID, "err", err)
	}
}

// EventFromUpdate converts an update into a wizard event.
// Updates that carry nothing the wizard understands (stickers, edits, joins) are skipped.
func EventFromUpdate(u tgbotapi.Update) (domain.Event, bool) {
	if cq := u.CallbackQuery; cq != nil && cq.From != nil {
		return domain.Press(userID(cq.From), cq.Data), true
	}

	msg := u.Message
	if msg == nil || msg.From == nil {
		return domain.Event{}, false
	}
	if msg.IsCommand() {
		return domain.Command(userID(msg.From), msg.Command()), true
	}
	if msg.Text == "" {
		return domain.Event{}, false
	}
	return domain.Text(userID(msg.From), msg.Text), true
}

func userID(u *tgbotapi.User) string {
	return strconv.FormatInt(u.ID, 10)
}
