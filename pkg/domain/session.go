package domain

import "time"

// Session is the per-user snapshot of the wizard: current step plus draft.
type Session struct {
	// UserID is the transport identity owning the session.
	UserID string `json:"user_id"`

	// Step is the question the user is expected to answer next.
	Step Step `json:"step"`

	// Draft holds the answers accepted so far.
	Draft Draft `json:"draft"`

	// PendingHour is the hour picked on the button time picker while the
	// minute is still missing. Zero means no hour is pending.
	PendingHour int `json:"pending_hour,omitempty"`

	// CalendarMonth is the month (YYYY-MM) the calendar widget currently shows.
	CalendarMonth string `json:"calendar_month,omitempty"`

	// History tracks the steps visited, for debugging and the admin API.
	History []Step `json:"history,omitempty"`

	// Sealed carries the encrypted session when the store is wrapped by the
	// encryption middleware. Only the envelope fields above stay readable.
	Sealed []byte `json:"sealed,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a clean session waiting for a boat.
func NewSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		Step:      StepBoatSelection,
		History:   []Step{StepBoatSelection},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Draft = s.Draft.Clone()
	next.History = append([]Step(nil), s.History...)
	if s.Sealed != nil {
		next.Sealed = append([]byte(nil), s.Sealed...)
	}
	return &next
}
