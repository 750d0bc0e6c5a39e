package domain

import "time"

// Booking is a completed draft, as recorded in the journal after the card was delivered.
type Booking struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Draft     Draft     `json:"draft"`
	CreatedAt time.Time `json:"created_at"`
}
