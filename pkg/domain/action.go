package domain

// ActionType names an outbound command the transport must perform.
type ActionType string

// Standard Action Types
const (
	// ActionSendText sends a plain text message.
	ActionSendText ActionType = "send_text"

	// ActionSendButtons sends a text message with a keyboard attached.
	ActionSendButtons ActionType = "send_buttons"

	// ActionSendPhoto sends an image with a caption and an optional keyboard.
	// Transports fall back to ActionSendButtons when the image cannot be sent.
	ActionSendPhoto ActionType = "send_photo"

	// ActionSendDocument sends a file.
	ActionSendDocument ActionType = "send_document"

	// ActionRemoveKeyboard sends a text message and hides the custom reply keyboard.
	ActionRemoveKeyboard ActionType = "remove_keyboard"
)

// KeyboardKind distinguishes inline (callback) buttons from reply keyboards,
// whose buttons come back as plain text.
type KeyboardKind string

const (
	KeyboardInline KeyboardKind = "inline"
	KeyboardReply  KeyboardKind = "reply"
)

// Button is a (label, token) pair. For reply keyboards the token is the label.
type Button struct {
	Label string `json:"label"`
	Token string `json:"token,omitempty"`
}

// Keyboard is an ordered list of buttons plus a layout hint.
type Keyboard struct {
	Kind    KeyboardKind `json:"kind"`
	Buttons []Button     `json:"buttons"`

	// Layout gives the number of buttons in each row. When the sizes run out
	// the last one repeats, so []int{3} means three per row. Empty means one row.
	Layout []int `json:"layout,omitempty"`
}

// Rows splits the buttons according to Layout.
func (k Keyboard) Rows() [][]Button {
	if len(k.Buttons) == 0 {
		return nil
	}
	if len(k.Layout) == 0 {
		return [][]Button{k.Buttons}
	}
	var rows [][]Button
	for i, n := 0, 0; i < len(k.Buttons); n++ {
		size := k.Layout[min(n, len(k.Layout)-1)]
		if size <= 0 {
			size = len(k.Buttons) - i
		}
		end := min(i+size, len(k.Buttons))
		rows = append(rows, k.Buttons[i:end])
		i = end
	}
	return rows
}

// Document is a rendered file ready to be sent.
type Document struct {
	Name  string `json:"name"`
	MIME  string `json:"mime"`
	Bytes []byte `json:"bytes"`
}

// Action is one outbound message.
type Action struct {
	Type     ActionType `json:"type"`
	Text     string     `json:"text,omitempty"`
	Keyboard *Keyboard  `json:"keyboard,omitempty"`

	// Photo is the catalog photo reference (ActionSendPhoto).
	Photo string `json:"photo,omitempty"`

	Document *Document `json:"document,omitempty"`
}

// SendText is a shortcut for a plain text action.
func SendText(text string) Action {
	return Action{Type: ActionSendText, Text: text}
}

// SendButtons is a shortcut for a text action with a keyboard.
func SendButtons(text string, kb Keyboard) Action {
	return Action{Type: ActionSendButtons, Text: text, Keyboard: &kb}
}

// HasDocument reports whether actions deliver a rendered document.
func HasDocument(actions []Action) bool {
	for _, a := range actions {
		if a.Type == ActionSendDocument && a.Document != nil {
			return true
		}
	}
	return false
}
