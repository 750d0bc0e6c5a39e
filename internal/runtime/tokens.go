package runtime

import "strings"

// Callback tokens understood by the engine. Tokens ending in a separator
// carry a payload after it.
const (
	TokenBoatPreview    = "boat_select:"
	TokenBoatSelect     = "boat_"
	TokenBackToBoats    = "back_to_boats"
	TokenCancelBoat     = "cancel_boat_selection"
	TokenCaptain        = "capt_"
	TokenHour           = "hour_"
	TokenMinute         = "minute_"
	TokenCalendarNav    = "cal_nav:"
	TokenCalendarDay    = "cal_day:"
	TokenCalendarIgnore = "cal_ignore"
	TokenRetryRender    = "retry_render"
)

// MaxTokenBytes is the Telegram limit on callback data.
const MaxTokenBytes = 64

// BoatTokenFits reports whether the preview and select buttons of a boat
// called name stay within MaxTokenBytes. The preview prefix is the longer one.
func BoatTokenFits(name string) bool {
	return len(TokenBoatPreview)+len(name) <= MaxTokenBytes
}

// NewCardText is the reply keyboard label offered after a card was delivered.
const NewCardText = "Новая карточка"

// isReset reports whether the token aborts the draft from any step.
func isReset(token string) bool {
	return token == TokenBackToBoats || token == TokenCancelBoat
}

// payload returns the part of token after prefix.
func payload(token, prefix string) (string, bool) {
	if !strings.HasPrefix(token, prefix) {
		return "", false
	}
	return strings.TrimPrefix(token, prefix), true
}
