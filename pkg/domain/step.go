package domain

// Step identifies one question of the wizard.
type Step string

const (
	StepBoatSelection    Step = "boat_selection"
	StepCaptainSelection Step = "captain_selection"
	StepCaptainName      Step = "captain_name_entry"
	StepCaptainPhone     Step = "captain_phone_entry"
	StepHoursSelection   Step = "hours_selection"
	StepDateSelection    Step = "date_selection"

	// StepTimeSelection takes the hour (button picker) or the whole HH:MM (freeform).
	StepTimeSelection    Step = "time_selection"
	StepMinuteSelection  Step = "minute_selection"
	StepPierEntry        Step = "pier_entry"
	StepGuestCount       Step = "guest_count_entry"
	StepClientName       Step = "client_name_entry"
	StepRemainingPayment Step = "remaining_payment_entry"

	// StepComplete is reached once the draft is full. A session only stays
	// here when rendering failed and is waiting for a retry.
	StepComplete Step = "complete"
)

// Steps lists every step in canonical order.
var Steps = []Step{
	StepBoatSelection,
	StepCaptainSelection,
	StepCaptainName,
	StepCaptainPhone,
	StepHoursSelection,
	StepDateSelection,
	StepTimeSelection,
	StepMinuteSelection,
	StepPierEntry,
	StepGuestCount,
	StepClientName,
	StepRemainingPayment,
	StepComplete,
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	for _, known := range Steps {
		if s == known {
			return true
		}
	}
	return false
}

func (s Step) String() string {
	return string(s)
}
