package runtime

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/charter/pkg/domain"
)

const monthLayout = "2006-01"

var monthNames = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

var weekdayNames = [...]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// calendarKeyboard renders a month grid. Navigation and day buttons carry
// cal_nav / cal_day tokens; padding cells carry cal_ignore.
func calendarKeyboard(month time.Time) domain.Keyboard {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)

	buttons := []domain.Button{
		{Label: "«", Token: TokenCalendarNav + prev.Format(monthLayout)},
		{Label: fmt.Sprintf("%s %d", monthNames[first.Month()-1], first.Year()), Token: TokenCalendarIgnore},
		{Label: "»", Token: TokenCalendarNav + next.Format(monthLayout)},
	}
	for _, wd := range weekdayNames {
		buttons = append(buttons, domain.Button{Label: wd, Token: TokenCalendarIgnore})
	}

	// Monday-first offset of the 1st.
	offset := (int(first.Weekday()) + 6) % 7
	for i := 0; i < offset; i++ {
		buttons = append(buttons, domain.Button{Label: " ", Token: TokenCalendarIgnore})
	}
	days := next.AddDate(0, 0, -1).Day()
	for d := 1; d <= days; d++ {
		day := first.AddDate(0, 0, d-1)
		buttons = append(buttons, domain.Button{
			Label: strconv.Itoa(d),
			Token: TokenCalendarDay + day.Format(time.DateOnly),
		})
	}
	for len(buttons)%7 != 3 {
		buttons = append(buttons, domain.Button{Label: " ", Token: TokenCalendarIgnore})
	}

	return domain.Keyboard{Kind: domain.KeyboardInline, Buttons: buttons, Layout: []int{3, 7}}
}

// calendarMonth resolves the month shown to the session, defaulting to now.
func calendarMonth(s *domain.Session, now time.Time) time.Time {
	if s.CalendarMonth != "" {
		if t, err := time.Parse(monthLayout, s.CalendarMonth); err == nil {
			return t
		}
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
