package subscriberlist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscribers-admin/internal/lib/month"
	"github.com/magabrotheeeer/subscribers-admin/internal/models"
)

var (
	// ErrInactive — подписка уже отменена, действие недоступно.
	ErrInactive = errors.New("subscription is not active")
	// ErrAlreadyPaid — списание в этой сессии уже прошло.
	ErrAlreadyPaid = errors.New("subscriber already charged in this session")
)

// Subscriber — строка таблицы: запись подписчика и два изменяемых флага.
// Подписку можно только отменить, возобновление не поддерживается.
type Subscriber struct {
	id             models.ID
	name           string
	guardianName   string
	email          string
	dateSubscribed time.Time
	active         bool
	paid           bool
}

// NewSubscriber создаёт подписчика из записи сервиса. Флаг оплаты сброшен.
func NewSubscriber(r models.SubscriberRecord) *Subscriber {
	return &Subscriber{
		id:             r.ID,
		name:           r.Name,
		guardianName:   r.GuardianName,
		email:          r.Email,
		dateSubscribed: r.DateSubscribed.Time,
		active:         r.IsActive,
	}
}

func (s *Subscriber) ID() models.ID             { return s.id }
func (s *Subscriber) Name() string              { return s.name }
func (s *Subscriber) GuardianName() string      { return s.guardianName }
func (s *Subscriber) Email() string             { return s.email }
func (s *Subscriber) DateSubscribed() time.Time { return s.dateSubscribed }
func (s *Subscriber) IsActive() bool            { return s.active }
func (s *Subscriber) IsPaidThisSession() bool   { return s.paid }

// Deactivate переводит подписку в отменённое состояние.
func (s *Subscriber) Deactivate() error {
	if !s.active {
		return ErrInactive
	}
	s.active = false
	return nil
}

// Chargeable проверяет, что с подписчика можно списать средства.
func (s *Subscriber) Chargeable() error {
	if !s.active {
		return ErrInactive
	}
	if s.paid {
		return ErrAlreadyPaid
	}
	return nil
}

// MarkPaid отмечает успешное списание в текущей сессии.
func (s *Subscriber) MarkPaid() error {
	if err := s.Chargeable(); err != nil {
		return err
	}
	s.paid = true
	return nil
}

// SubscribedOn сообщает, что подписка оформлена в тот же день и месяц, что и ref.
func (s *Subscriber) SubscribedOn(ref time.Time) bool {
	return month.SameDay(s.dateSubscribed, ref)
}

// Matches ищет подстроку query в почте или имени без учёта регистра.
func (s *Subscriber) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(s.email), q) ||
		strings.Contains(strings.ToLower(s.name), q)
}

// Row собирает модель строки таблицы из текущих значений полей.
func (s *Subscriber) Row() Row {
	row := Row{
		ID:             s.id.String(),
		Name:           s.name,
		Email:          s.email,
		GuardianName:   s.guardianName,
		DateSubscribed: s.dateSubscribed,
		DateLabel:      formatDate(s.dateSubscribed),
		Active:         s.active,
		Paid:           s.paid,
		ShowActions:    s.active,
		Chargeable:     s.active && !s.paid,
		ToggleIcon:     "play_circle",
		ChargeIcon:     "local_atm",
	}
	if s.active {
		row.ToggleIcon = "cancel"
	}
	if s.paid {
		row.ChargeIcon = "price_check"
	}
	return row
}

var monthsShort = [...]string{
	"янв.", "февр.", "мар.", "апр.", "мая", "июн.",
	"июл.", "авг.", "сент.", "окт.", "нояб.", "дек.",
}

// formatDate форматирует дату как "15 июн. 2024 г.".
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d г.", t.Day(), monthsShort[t.Month()-1], t.Year())
}
