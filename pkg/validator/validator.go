// Package validator holds the per-step input checks of the booking wizard.
//
// Every function is pure: it takes the raw user input and returns either the
// normalized value or a *domain.ValidationError whose Reason is the corrective
// text shown to the user. Surrounding whitespace is ignored everywhere.
package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/charter/pkg/domain"
)

// DiscreteHours is the fixed set of rental durations offered on the keyboard.
var DiscreteHours = []string{"1", "1.5", "2", "2.5", "3", "4", "5", "6"}

// Whole-hour bounds for domain.HoursRange.
const (
	MinRangeHours = 1
	MaxRangeHours = 6
)

// Departure hours offered by the button picker, inclusive.
const (
	FirstHour = 9
	LastHour  = 22
)

// Minutes offered by the button picker.
var Minutes = []string{"00", "15", "30", "45"}

// Guest count rejections.
const (
	MsgGuestsZero    = "❌ Количество гостей должно быть больше нуля:"
	MsgGuestsTooMany = "❌ Слишком большое число. Введите реальное количество гостей:"
)

// DateLayout is the normalized date format.
const DateLayout = "02.01.2006"

var (
	nameRe    = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё\s-]+$`)
	digitsRe  = regexp.MustCompile(`^\d+$`)
	phoneRe   = regexp.MustCompile(`^(\+7|8)[\d\s()-]{10,}$`)
	clockRe   = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`)
	dateFmtRe = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)
)

// Hours accepts a rental duration according to mode.
func Hours(mode domain.HoursMode, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if mode == domain.HoursRange {
		n, err := strconv.Atoi(v)
		if err != nil || n < MinRangeHours || n > MaxRangeHours {
			return "", domain.Reject(domain.StepHoursSelection,
				fmt.Sprintf("❌ Введите целое число часов от %d до %d:", MinRangeHours, MaxRangeHours))
		}
		return strconv.Itoa(n), nil
	}
	if !slices.Contains(DiscreteHours, v) {
		return "", domain.Reject(domain.StepHoursSelection, "❌ Выберите значение из предложенных:")
	}
	return v, nil
}

// Date parses a freeform day.month.year date and normalizes it to DD.MM.YYYY.
func Date(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if !dateFmtRe.MatchString(v) {
		return "", dateRejection()
	}
	t, err := time.Parse("2.1.2006", v)
	if err != nil {
		return "", dateRejection()
	}
	return t.Format(DateLayout), nil
}

// CalendarDate normalizes an ISO date coming from the calendar widget.
func CalendarDate(iso string) (string, error) {
	t, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return "", dateRejection()
	}
	return t.Format(DateLayout), nil
}

func dateRejection() error {
	return domain.Reject(domain.StepDateSelection, "❌ Введите дату в формате ДД.ММ.ГГГГ (например: 15.07.2025):")
}

// Hour accepts a departure hour from the button picker.
func Hour(raw string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || h < FirstHour || h > LastHour {
		return 0, domain.Reject(domain.StepTimeSelection,
			fmt.Sprintf("❌ Выберите час с %d:00 до %d:00:", FirstHour, LastHour))
	}
	return h, nil
}

// Minute accepts an "H:MM" pick for the given hour and returns it as the departure time.
func Minute(hour int, raw string) (string, error) {
	reject := domain.Reject(domain.StepMinuteSelection, "❌ Выберите минуты из предложенных:")
	h, m, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || h != strconv.Itoa(hour) || !slices.Contains(Minutes, m) {
		return "", reject
	}
	return h + ":" + m, nil
}

// Time parses a freeform HH:MM departure time. A dot separator is tolerated.
func Time(raw string) (string, error) {
	reject := domain.Reject(domain.StepTimeSelection, "❌ Введите время в формате ЧЧ:ММ (например: 14:30):")
	match := clockRe.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return "", reject
	}
	h, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	if h > 23 || m > 59 {
		return "", reject
	}
	return fmt.Sprintf("%d:%02d", h, m), nil
}

// Guests accepts a positive all-digit guest count.
func Guests(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	if !digitsRe.MatchString(v) {
		return 0, domain.Reject(domain.StepGuestCount, "❌ Введите число:")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.Reject(domain.StepGuestCount, MsgGuestsTooMany)
	}
	if n <= 0 {
		return 0, domain.Reject(domain.StepGuestCount, MsgGuestsZero)
	}
	return n, nil
}

// ClientName accepts letters (Latin or Cyrillic), whitespace and hyphens.
func ClientName(raw string) (string, error) {
	return name(domain.StepClientName, raw)
}

// CaptainName applies the client name rules to a freeform captain name.
func CaptainName(raw string) (string, error) {
	return name(domain.StepCaptainName, raw)
}

func name(step domain.Step, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" || !nameRe.MatchString(v) {
		return "", domain.Reject(step, "❌ Имя может содержать только буквы, пробелы и дефисы. Введите снова:")
	}
	return v, nil
}

// Payment accepts a non-negative amount written in digits.
func Payment(raw string) (int, error) {
	reject := domain.Reject(domain.StepRemainingPayment, "❌ Введите сумму цифрами (например: 5000):")
	v := strings.TrimSpace(raw)
	if !digitsRe.MatchString(v) {
		return 0, reject
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, reject
	}
	return n, nil
}

// CaptainIndex accepts an index into a captain list of length n.
func CaptainIndex(raw string, n int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 || idx >= n {
		return 0, domain.Reject(domain.StepCaptainSelection, "❌ Выберите капитана из списка:")
	}
	return idx, nil
}

// Phone accepts a Russian phone number starting with +7 or 8.
func Phone(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if !phoneRe.MatchString(v) {
		return "", domain.Reject(domain.StepCaptainPhone, "❌ Введите телефон в формате +7XXXXXXXXXX или 8XXXXXXXXXX:")
	}
	return v, nil
}

// Pier accepts any non-empty pier name.
func Pier(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", domain.Reject(domain.StepPierEntry, "❌ Введите название причала:")
	}
	return v, nil
}
