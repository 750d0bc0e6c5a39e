package domain

// EventType is the kind of inbound event produced by a transport.
type EventType string

const (
	EventCommand EventType = "command"
	EventText    EventType = "text"
	EventButton  EventType = "button"
)

// Well-known commands.
const (
	CommandStart  = "start"
	CommandCancel = "cancel"
)

// Event is one user interaction as seen by the wizard.
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`

	// Name is the command name without the slash (EventCommand).
	Name string `json:"name,omitempty"`

	// Text is the message body (EventText).
	Text string `json:"text,omitempty"`

	// Token is the callback payload of an inline button (EventButton).
	Token string `json:"token,omitempty"`
}

// Command builds a command event.
func Command(userID, name string) Event {
	return Event{Type: EventCommand, UserID: userID, Name: name}
}

// Text builds a text event.
func Text(userID, text string) Event {
	return Event{Type: EventText, UserID: userID, Text: text}
}

// Press builds a button event.
func Press(userID, token string) Event {
	return Event{Type: EventButton, UserID: userID, Token: token}
}
