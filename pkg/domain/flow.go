package domain

import "fmt"

// PierSource selects where the pier comes from.
type PierSource string

const (
	// PierAuto copies the pier from the catalog, prompting only when the entry has none.
	PierAuto     PierSource = "auto"
	PierPrompted PierSource = "prompted"
)

// CaptainSource selects how the captain is assigned.
type CaptainSource string

const (
	// CaptainAuto always takes the first catalog captain.
	CaptainAuto CaptainSource = "auto"
	// CaptainList lets the user choose when the boat has more than one captain.
	CaptainList CaptainSource = "list"
	// CaptainFreeform asks for name and phone as text.
	CaptainFreeform CaptainSource = "freeform"
)

// TimeInput selects the departure time widget.
type TimeInput string

const (
	TimeButtons  TimeInput = "buttons"
	TimeFreeform TimeInput = "freeform"
)

// DateInput selects the date widget.
type DateInput string

const (
	DateCalendar DateInput = "calendar"
	DateFreeform DateInput = "freeform"
)

// HoursMode selects the allowed rental durations.
type HoursMode string

const (
	// HoursDiscrete allows {1, 1.5, 2, 2.5, 3, 4, 5, 6}.
	HoursDiscrete HoursMode = "discrete"
	// HoursRange allows whole hours from 1 to 6.
	HoursRange HoursMode = "range"
)

// Flow parameterizes the wizard so one engine covers every bot variant.
type Flow struct {
	PierSource    PierSource    `json:"pier_source" yaml:"pier_source" mapstructure:"pier_source"`
	CaptainSource CaptainSource `json:"captain_source" yaml:"captain_source" mapstructure:"captain_source"`
	TimeInput     TimeInput     `json:"time_input" yaml:"time_input" mapstructure:"time_input"`
	DateInput     DateInput     `json:"date_input" yaml:"date_input" mapstructure:"date_input"`
	HoursMode     HoursMode     `json:"hours_mode" yaml:"hours_mode" mapstructure:"hours_mode"`
}

// DefaultFlow matches the production bot: pier and captain from the catalog,
// button time picker, calendar date picker, discrete hours.
func DefaultFlow() Flow {
	return Flow{
		PierSource:    PierAuto,
		CaptainSource: CaptainList,
		TimeInput:     TimeButtons,
		DateInput:     DateCalendar,
		HoursMode:     HoursDiscrete,
	}
}

// WithDefaults fills empty fields from DefaultFlow.
func (f Flow) WithDefaults() Flow {
	def := DefaultFlow()
	if f.PierSource == "" {
		f.PierSource = def.PierSource
	}
	if f.CaptainSource == "" {
		f.CaptainSource = def.CaptainSource
	}
	if f.TimeInput == "" {
		f.TimeInput = def.TimeInput
	}
	if f.DateInput == "" {
		f.DateInput = def.DateInput
	}
	if f.HoursMode == "" {
		f.HoursMode = def.HoursMode
	}
	return f
}

// Validate rejects unknown enum values.
func (f Flow) Validate() error {
	switch f.PierSource {
	case PierAuto, PierPrompted:
	default:
		return fmt.Errorf("unknown pier_source %q", f.PierSource)
	}
	switch f.CaptainSource {
	case CaptainAuto, CaptainList, CaptainFreeform:
	default:
		return fmt.Errorf("unknown captain_source %q", f.CaptainSource)
	}
	switch f.TimeInput {
	case TimeButtons, TimeFreeform:
	default:
		return fmt.Errorf("unknown time_input %q", f.TimeInput)
	}
	switch f.DateInput {
	case DateCalendar, DateFreeform:
	default:
		return fmt.Errorf("unknown date_input %q", f.DateInput)
	}
	switch f.HoursMode {
	case HoursDiscrete, HoursRange:
	default:
		return fmt.Errorf("unknown hours_mode %q", f.HoursMode)
	}
	return nil
}
