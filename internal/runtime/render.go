package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/validator"
)

const (
	msgCancelled      = "❌ Заполнение карточки отменено."
	msgBoatNotFound   = "❌ Катер не найден. Выберите катер из списка."
	msgStaleButton    = "⚠️ Эта кнопка уже неактивна."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /start или /cancel."
	msgCardReady      = "📄 Ваша карточка аренды готова!"
	msgRenderFailed   = "⚠️ Не удалось сформировать карточку. Данные сохранены, попробуйте ещё раз."
)

// prompt returns the question for the current step of s.
func (e *Engine) prompt(s *domain.Session) []domain.Action {
	switch s.Step {
	case domain.StepBoatSelection:
		return []domain.Action{e.boatList()}
	case domain.StepCaptainSelection:
		return []domain.Action{e.captainList(s)}
	case domain.StepCaptainName:
		return text("👨‍✈️ Введите имя капитана:")
	case domain.StepCaptainPhone:
		return text("📞 Введите телефон капитана (+7XXXXXXXXXX):")
	case domain.StepHoursSelection:
		return []domain.Action{domain.SendButtons("Сколько часов аренды?", e.hoursKeyboard())}
	case domain.StepDateSelection:
		if e.flow.DateInput == domain.DateFreeform {
			return text("📅 Введите дату аренды (ДД.ММ.ГГГГ):")
		}
		return []domain.Action{domain.SendButtons("📅 Выберите дату аренды:", calendarKeyboard(calendarMonth(s, e.now())))}
	case domain.StepTimeSelection:
		if e.flow.TimeInput == domain.TimeFreeform {
			return text("⏰ Введите время начала аренды (ЧЧ:ММ):")
		}
		return []domain.Action{domain.SendButtons("⏰ Выберите час начала аренды:", hourKeyboard())}
	case domain.StepMinuteSelection:
		msg := fmt.Sprintf("Выбран час: %d:00\nТеперь выберите минуты:", s.PendingHour)
		return []domain.Action{domain.SendButtons(msg, minuteKeyboard(s.PendingHour))}
	case domain.StepPierEntry:
		return text("📍 Введите причал:")
	case domain.StepGuestCount:
		return text("👥 Введите количество гостей:")
	case domain.StepClientName:
		return text("🙋‍♂️ Введите имя гостя:")
	case domain.StepRemainingPayment:
		return text("💰 Введите остаток к оплате (в рублях):")
	case domain.StepComplete:
		return []domain.Action{retryPrompt()}
	}
	return nil
}

func text(msg string) []domain.Action {
	return []domain.Action{domain.SendText(msg)}
}

func (e *Engine) boatList() domain.Action {
	names := e.catalog.Names()
	if len(names) == 0 {
		return domain.SendText("🚤 Каталог катеров пуст.")
	}
	kb := domain.Keyboard{Kind: domain.KeyboardInline, Layout: []int{3}}
	for _, name := range names {
		kb.Buttons = append(kb.Buttons, domain.Button{Label: name, Token: TokenBoatPreview + name})
	}
	return domain.SendButtons("🚤 Выберите катер:", kb)
}

func (e *Engine) captainList(s *domain.Session) domain.Action {
	kb := domain.Keyboard{Kind: domain.KeyboardInline, Layout: []int{1}}
	if boat, err := e.catalog.Lookup(s.Draft.Boat); err == nil {
		for i, c := range boat.Captains {
			kb.Buttons = append(kb.Buttons, domain.Button{
				Label: fmt.Sprintf("%s (%s)", c.Name, c.Phone),
				Token: TokenCaptain + strconv.Itoa(i),
			})
		}
	}
	kb.Buttons = append(kb.Buttons, domain.Button{Label: "⬅️ Назад", Token: TokenCancelBoat})
	return domain.SendButtons("👨‍✈️ Выберите капитана:", kb)
}

func (e *Engine) hoursKeyboard() domain.Keyboard {
	kb := domain.Keyboard{Kind: domain.KeyboardReply, Layout: []int{4}}
	values := validator.DiscreteHours
	if e.flow.HoursMode == domain.HoursRange {
		values = nil
		for h := validator.MinRangeHours; h <= validator.MaxRangeHours; h++ {
			values = append(values, strconv.Itoa(h))
		}
		kb.Layout = []int{3}
	}
	for _, v := range values {
		kb.Buttons = append(kb.Buttons, domain.Button{Label: v, Token: v})
	}
	return kb
}

func hourKeyboard() domain.Keyboard {
	kb := domain.Keyboard{Kind: domain.KeyboardInline, Layout: []int{4}}
	for h := validator.FirstHour; h <= validator.LastHour; h++ {
		kb.Buttons = append(kb.Buttons, domain.Button{
			Label: fmt.Sprintf("%d:00", h),
			Token: TokenHour + strconv.Itoa(h),
		})
	}
	return kb
}

func minuteKeyboard(hour int) domain.Keyboard {
	kb := domain.Keyboard{Kind: domain.KeyboardInline, Layout: []int{2}}
	for _, m := range validator.Minutes {
		label := fmt.Sprintf("%d:%s", hour, m)
		kb.Buttons = append(kb.Buttons, domain.Button{Label: label, Token: TokenMinute + label})
	}
	return kb
}

// boatPreview shows the photo and crew of a boat with select/back buttons.
func boatPreview(boat domain.Boat) domain.Action {
	lines := []string{"🚤 " + boat.Name}
	if boat.HasPier() {
		lines = append(lines, "📍 Причал: "+boat.Pier)
	}
	if len(boat.Captains) > 0 {
		c := boat.Captains[0]
		lines = append(lines, fmt.Sprintf("👨‍✈️ Капитан: %s (%s)", c.Name, c.Phone))
		if len(boat.Captains) > 1 {
			lines = append(lines, "(Есть выбор капитанов)")
		}
	}
	kb := domain.Keyboard{
		Kind: domain.KeyboardInline,
		Buttons: []domain.Button{
			{Label: "✅ Выбрать " + boat.Name, Token: TokenBoatSelect + boat.Name},
			{Label: "⬅️ Назад", Token: TokenBackToBoats},
		},
		Layout: []int{1},
	}
	action := domain.SendButtons(strings.Join(lines, "\n"), kb)
	if boat.Photo != "" {
		action.Type = domain.ActionSendPhoto
		action.Photo = boat.Photo
	}
	return action
}

// summary is the confirmation text sent before the card.
func summary(d domain.Draft) string {
	f := d.Fields()
	var b strings.Builder
	b.WriteString("✅ Данные аренды:\n")
	fmt.Fprintf(&b, "🚤 Лодка: %s\n", f[domain.FieldBoat])
	fmt.Fprintf(&b, "📍 Причал: %s\n", f[domain.FieldPier])
	fmt.Fprintf(&b, "👨‍✈️ Капитан: %s (%s)\n", f[domain.FieldCaptainName], f[domain.FieldCaptainPhone])
	fmt.Fprintf(&b, "📅 Дата: %s в %s\n", f[domain.FieldDate], f[domain.FieldTime])
	fmt.Fprintf(&b, "⏳ Продолжительность: %s ч.\n", f[domain.FieldHours])
	fmt.Fprintf(&b, "👥 Гости: %s\n", f[domain.FieldGuests])
	fmt.Fprintf(&b, "👤 Клиент: %s\n", f[domain.FieldClientName])
	fmt.Fprintf(&b, "💰 Остаток к оплате: %s руб.", f[domain.FieldRemainingPayment])
	return b.String()
}

func retryPrompt() domain.Action {
	return domain.SendButtons(msgRenderFailed, domain.Keyboard{
		Kind:    domain.KeyboardInline,
		Buttons: []domain.Button{{Label: "🔄 Повторить", Token: TokenRetryRender}},
	})
}

func newCardPrompt() domain.Action {
	return domain.SendButtons("Создать новую карточку:", domain.Keyboard{
		Kind:    domain.KeyboardReply,
		Buttons: []domain.Button{{Label: NewCardText, Token: NewCardText}},
	})
}
