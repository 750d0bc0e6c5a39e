package runtime

import "github.com/aretw0/charter/pkg/domain"

// order is the canonical step sequence. NextStep walks it forward and stops at
// the first step that still has work to do.
var order = []domain.Step{
	domain.StepBoatSelection,
	domain.StepCaptainSelection,
	domain.StepCaptainName,
	domain.StepCaptainPhone,
	domain.StepHoursSelection,
	domain.StepDateSelection,
	domain.StepTimeSelection,
	domain.StepMinuteSelection,
	domain.StepPierEntry,
	domain.StepGuestCount,
	domain.StepClientName,
	domain.StepRemainingPayment,
	domain.StepComplete,
}

// NextStep returns the step that follows current for the given draft and boat.
// Steps whose field is already populated are skipped, which is how the
// captain and pier steps disappear when the catalog supplies them.
func NextStep(flow domain.Flow, current domain.Step, draft domain.Draft, boat domain.Boat) domain.Step {
	start := 0
	for i, s := range order {
		if s == current {
			start = i + 1
			break
		}
	}
	for _, s := range order[start:] {
		if pending(flow, s, draft, boat) {
			return s
		}
	}
	return domain.StepComplete
}

func pending(flow domain.Flow, step domain.Step, d domain.Draft, boat domain.Boat) bool {
	switch step {
	case domain.StepBoatSelection:
		return d.Boat == ""
	case domain.StepCaptainSelection:
		return d.CaptainName == "" && choosesCaptain(flow, boat)
	case domain.StepCaptainName:
		return d.CaptainName == "" && !choosesCaptain(flow, boat)
	case domain.StepCaptainPhone:
		return d.CaptainPhone == ""
	case domain.StepHoursSelection:
		return d.Hours == ""
	case domain.StepDateSelection:
		return d.Date == ""
	case domain.StepTimeSelection:
		return d.Time == ""
	case domain.StepMinuteSelection:
		return d.Time == "" && flow.TimeInput == domain.TimeButtons
	case domain.StepPierEntry:
		return d.Pier == ""
	case domain.StepGuestCount:
		return d.Guests == nil
	case domain.StepClientName:
		return d.ClientName == ""
	case domain.StepRemainingPayment:
		return d.RemainingPayment == nil
	default:
		return true
	}
}

// Prefill returns the draft for a freshly selected boat, with the pier and
// captain copied from the catalog where the flow allows it.
func Prefill(flow domain.Flow, boat domain.Boat) domain.Draft {
	d := domain.Draft{Boat: boat.Name}
	if pier, ok := autoPier(flow, boat); ok {
		d.Pier = pier
	}
	if c, ok := autoCaptain(flow, boat); ok {
		d.CaptainName = c.Name
		d.CaptainPhone = c.Phone
	}
	return d
}

// choosesCaptain reports whether the user picks the captain from a list.
func choosesCaptain(flow domain.Flow, boat domain.Boat) bool {
	return flow.CaptainSource == domain.CaptainList && len(boat.Captains) > 1
}

// autoCaptain returns the captain assigned without asking, if any.
func autoCaptain(flow domain.Flow, boat domain.Boat) (domain.Captain, bool) {
	if flow.CaptainSource == domain.CaptainFreeform || len(boat.Captains) == 0 || choosesCaptain(flow, boat) {
		return domain.Captain{}, false
	}
	return boat.Captains[0], true
}

// autoPier returns the pier copied from the catalog, if any.
func autoPier(flow domain.Flow, boat domain.Boat) (string, bool) {
	if flow.PierSource != domain.PierAuto || !boat.HasPier() {
		return "", false
	}
	return boat.Pier, true
}
