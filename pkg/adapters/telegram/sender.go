package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aretw0/charter/internal/logging"
	"github.com/aretw0/charter/pkg/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the subset of *tgbotapi.BotAPI used by this package.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Sender implements ports.Sender over the Bot API.
type Sender struct {
	api    API
	photos func(string) string
	logger *slog.Logger
}

// SenderOption configures the Sender.
type SenderOption func(*Sender)

// WithPhotoResolver maps catalog photo references to files on disk.
func WithPhotoResolver(resolve func(string) string) SenderOption {
	return func(s *Sender) {
		if resolve != nil {
			s.photos = resolve
		}
	}
}

// WithSenderLogger sets the sender logger.
func WithSenderLogger(logger *slog.Logger) SenderOption {
	return func(s *Sender) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSender creates a Sender.
func NewSender(api API, opts ...SenderOption) *Sender {
	s := &Sender{
		api:    api,
		photos: func(p string) string { return p },
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers the actions in order and stops at the first failure.
// Private chats share the user's ID, so userID doubles as the chat ID.
func (s *Sender) Send(ctx context.Context, userID string, actions []domain.Action) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram user id %q: %w", userID, err)
	}
	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.send(chatID, a); err != nil {
			return &domain.TransportError{Action: a.Type, Err: err}
		}
	}
	return nil
}

func (s *Sender) send(chatID int64, a domain.Action) error {
	switch a.Type {
	case domain.ActionSendText, domain.ActionSendButtons:
		_, err := s.api.Send(message(chatID, a))
		return err

	case domain.ActionRemoveKeyboard:
		msg := tgbotapi.NewMessage(chatID, a.Text)
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		_, err := s.api.Send(msg)
		return err

	case domain.ActionSendPhoto:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(s.photos(a.Photo)))
		photo.Caption = a.Text
		if a.Keyboard != nil {
			photo.ReplyMarkup = markup(*a.Keyboard)
		}
		if _, err := s.api.Send(photo); err != nil {
			s.logger.Warn("photo send failed, falling back to text",
				"chat_id", chatID,
				"photo", a.Photo,
				"err", &domain.TransportError{Action: a.Type, Err: err},
			)
			_, err = s.api.Send(message(chatID, a))
			return err
		}
		return nil

	case domain.ActionSendDocument:
		if a.Document == nil {
			return fmt.Errorf("document action without document")
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: a.Document.Name, Bytes: a.Document.Bytes})
		doc.Caption = a.Text
		_, err := s.api.Send(doc)
		return err

	default:
		return fmt.Errorf("unsupported action %q", a.Type)
	}
}

func message(chatID int64, a domain.Action) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, a.Text)
	if a.Keyboard != nil && len(a.Keyboard.Buttons) > 0 {
		msg.ReplyMarkup = markup(*a.Keyboard)
	}
	return msg
}

func markup(kb domain.Keyboard) interface{} {
	if kb.Kind == domain.KeyboardReply {
		var rows [][]tgbotapi.KeyboardButton
		for _, row := range kb.Rows() {
			var buttons []tgbotapi.KeyboardButton
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Label))
			}
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
		}
		reply := tgbotapi.NewReplyKeyboard(rows...)
		reply.ResizeKeyboard = true
		return reply
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range kb.Rows() {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
