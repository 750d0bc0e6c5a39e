package runtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/validator"
)

// stepResult is what a step handler produced.
type stepResult struct {
	// actions are emitted before the prompt of the next step.
	actions []domain.Action
	// stay keeps the session on its step; actions are then the whole reply.
	stay bool
}

// handle applies ev to the current step of s, mutating s on acceptance.
func (e *Engine) handle(s *domain.Session, ev domain.Event) (stepResult, error) {
	switch s.Step {
	case domain.StepBoatSelection:
		return e.handleBoat(s, ev)
	case domain.StepCaptainSelection:
		return e.handleCaptainChoice(s, ev)
	case domain.StepCaptainName:
		return onText(ev, func(text string) (stepResult, error) {
			v, err := validator.CaptainName(text)
			s.Draft.CaptainName = v
			return stepResult{}, err
		})
	case domain.StepCaptainPhone:
		return onText(ev, func(text string) (stepResult, error) {
			v, err := validator.Phone(text)
			s.Draft.CaptainPhone = v
			return stepResult{}, err
		})
	case domain.StepHoursSelection:
		return onText(ev, func(text string) (stepResult, error) {
			v, err := validator.Hours(e.flow.HoursMode, text)
			if err != nil {
				return stepResult{}, err
			}
			s.Draft.Hours = v
			echo := domain.Action{Type: domain.ActionRemoveKeyboard, Text: "⏳ Выбрано часов аренды: " + v}
			return stepResult{actions: []domain.Action{echo}}, nil
		})
	case domain.StepDateSelection:
		return e.handleDate(s, ev)
	case domain.StepTimeSelection:
		return e.handleTime(s, ev)
	case domain.StepMinuteSelection:
		token, ok := payload(ev.Token, TokenMinute)
		if ev.Type == domain.EventText {
			return stepResult{}, domain.Reject(s.Step, "❌ Выберите минуты кнопкой:")
		}
		if !ok {
			return stepResult{}, domain.ErrStepMismatch
		}
		v, err := validator.Minute(s.PendingHour, token)
		if err != nil {
			return stepResult{}, err
		}
		s.Draft.Time = v
		s.PendingHour = 0
		return stepResult{}, nil
	case domain.StepPierEntry:
		return onText(ev, func(text string) (stepResult, error) {
			v, err := validator.Pier(text)
			s.Draft.Pier = v
			return stepResult{}, err
		})
	case domain.StepGuestCount:
		return onText(ev, func(text string) (stepResult, error) {
			n, err := validator.Guests(text)
			if err != nil {
				return stepResult{}, err
			}
			s.Draft.Guests = &n
			return stepResult{}, nil
		})
	case domain.StepClientName:
		return onText(ev, func(text string) (stepResult, error) {
			v, err := validator.ClientName(text)
			s.Draft.ClientName = v
			return stepResult{}, err
		})
	case domain.StepRemainingPayment:
		return onText(ev, func(text string) (stepResult, error) {
			n, err := validator.Payment(text)
			if err != nil {
				return stepResult{}, err
			}
			s.Draft.RemainingPayment = &n
			return stepResult{}, nil
		})
	default:
		return stepResult{}, fmt.Errorf("unknown step %q", s.Step)
	}
}

// onText runs fn for text events and refuses buttons as stale.
func onText(ev domain.Event, fn func(string) (stepResult, error)) (stepResult, error) {
	if ev.Type != domain.EventText {
		return stepResult{}, domain.ErrStepMismatch
	}
	return fn(ev.Text)
}

func (e *Engine) handleBoat(s *domain.Session, ev domain.Event) (stepResult, error) {
	if ev.Type == domain.EventText {
		return stepResult{}, domain.Reject(s.Step, "❌ Выберите катер из списка:")
	}
	if name, ok := payload(ev.Token, TokenBoatPreview); ok {
		boat, err := e.catalog.Lookup(name)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{actions: []domain.Action{boatPreview(boat)}, stay: true}, nil
	}
	name, ok := payload(ev.Token, TokenBoatSelect)
	if !ok {
		return stepResult{}, domain.ErrStepMismatch
	}
	boat, err := e.catalog.Lookup(name)
	if err != nil {
		return stepResult{}, err
	}

	s.Draft = Prefill(e.flow, boat)
	s.PendingHour = 0
	s.CalendarMonth = ""
	return stepResult{}, nil
}

func (e *Engine) handleCaptainChoice(s *domain.Session, ev domain.Event) (stepResult, error) {
	if ev.Type == domain.EventText {
		return stepResult{}, domain.Reject(s.Step, "❌ Выберите капитана из списка:")
	}
	raw, ok := payload(ev.Token, TokenCaptain)
	if !ok {
		return stepResult{}, domain.ErrStepMismatch
	}
	boat, err := e.catalog.Lookup(s.Draft.Boat)
	if err != nil {
		return stepResult{}, err
	}
	idx, err := validator.CaptainIndex(raw, len(boat.Captains))
	if err != nil {
		return stepResult{}, err
	}
	c := boat.Captains[idx]
	s.Draft.CaptainName = c.Name
	s.Draft.CaptainPhone = c.Phone
	echo := domain.SendText(fmt.Sprintf("✅ Выбран капитан: %s\n📞 Телефон: %s", c.Name, c.Phone))
	return stepResult{actions: []domain.Action{echo}}, nil
}

func (e *Engine) handleDate(s *domain.Session, ev domain.Event) (stepResult, error) {
	var (
		date string
		err  error
	)
	switch {
	case ev.Type == domain.EventText && e.flow.DateInput == domain.DateFreeform:
		date, err = validator.Date(ev.Text)
	case ev.Type == domain.EventText:
		return stepResult{}, domain.Reject(s.Step, "❌ Выберите дату в календаре:")
	case e.flow.DateInput != domain.DateCalendar:
		return stepResult{}, domain.ErrStepMismatch
	case strings.HasPrefix(ev.Token, TokenCalendarNav):
		month, perr := time.Parse(monthLayout, strings.TrimPrefix(ev.Token, TokenCalendarNav))
		if perr != nil {
			return stepResult{}, domain.ErrStepMismatch
		}
		// Navigation only redraws the grid; the step waits for a day.
		s.CalendarMonth = month.Format(monthLayout)
		return stepResult{actions: e.prompt(s), stay: true}, nil
	case strings.HasPrefix(ev.Token, TokenCalendarDay):
		date, err = validator.CalendarDate(strings.TrimPrefix(ev.Token, TokenCalendarDay))
	default:
		return stepResult{}, domain.ErrStepMismatch
	}
	if err != nil {
		return stepResult{}, err
	}
	s.Draft.Date = date
	s.CalendarMonth = ""
	return stepResult{actions: []domain.Action{domain.SendText("✅ Выбрана дата: " + date)}}, nil
}

func (e *Engine) handleTime(s *domain.Session, ev domain.Event) (stepResult, error) {
	if e.flow.TimeInput == domain.TimeFreeform {
		return onText(ev, func(text string) (stepResult, error) {
			v, err := validator.Time(text)
			s.Draft.Time = v
			return stepResult{}, err
		})
	}
	if ev.Type == domain.EventText {
		return stepResult{}, domain.Reject(s.Step, "❌ Выберите час кнопкой:")
	}
	raw, ok := payload(ev.Token, TokenHour)
	if !ok {
		return stepResult{}, domain.ErrStepMismatch
	}
	h, err := validator.Hour(raw)
	if err != nil {
		return stepResult{}, err
	}
	s.PendingHour = h
	return stepResult{}, nil
}
