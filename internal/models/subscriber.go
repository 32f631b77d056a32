// Package models содержит доменные структуры подписчика в том виде,
// в котором их отдаёт удалённый сервис подписок.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SubscriberRecord описывает одну запись подписчика из GET /subscribers.
type SubscriberRecord struct {
	ID             ID        `json:"id"`              // Идентификатор, назначенный сервером
	Name           string    `json:"name"`            // Имя клиента
	GuardianName   string    `json:"child_name"`      // Имя ребёнка (опекаемого)
	Email          string    `json:"email"`           // Электронная почта
	DateSubscribed Timestamp `json:"date_subscribed"` // Дата оформления подписки
	IsActive       bool      `json:"is_active"`       // Активна ли подписка
}

// ID — непрозрачный идентификатор подписчика. Хранит исходный JSON-литерал,
// поэтому число остаётся числом, а строка строкой при отправке обратно.
type ID struct {
	raw json.RawMessage
}

// NewID создаёт идентификатор из JSON-литерала, например `42` или `"a1"`.
func NewID(raw string) ID {
	return ID{raw: json.RawMessage(raw)}
}

// String возвращает идентификатор без кавычек.
func (id ID) String() string {
	var s string
	if err := json.Unmarshal(id.raw, &s); err == nil {
		return s
	}
	return string(id.raw)
}

// IsZero сообщает, что идентификатор не был задан.
func (id ID) IsZero() bool {
	return len(id.raw) == 0 || bytes.Equal(id.raw, []byte("null"))
}

// MarshalJSON отдаёт исходный литерал.
func (id ID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return []byte("null"), nil
	}
	return id.raw, nil
}

// UnmarshalJSON принимает число или строку.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty id")
	}
	switch trimmed[0] {
	case '{', '[':
		return fmt.Errorf("unsupported id literal: %s", trimmed)
	}
	id.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// timestampLayouts перечисляет форматы date_subscribed, которые встречаются у сервиса.
// Время без смещения считается местным, дата без времени — полночью UTC.
var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", false},
}

// Timestamp — время оформления подписки.
type Timestamp struct {
	time.Time
}

// ParseTimestamp разбирает строку в одном из поддерживаемых форматов.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, l := range timestampLayouts {
		loc := time.UTC
		if l.local {
			loc = time.Local
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp format: %q", s)
}

// UnmarshalJSON разбирает строковую дату; null оставляет нулевое значение.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON отдаёт дату в RFC3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
