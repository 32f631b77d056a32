package month

import (
	"time"
)

// SameDay сообщает, что даты приходятся на одно и то же число одного и того же месяца.
// Год не сравнивается: подписка, оформленная 15 июня 2023, совпадает с 15 июня 2025.
// Дата a приводится к часовому поясу b.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Day() == b.Day() && a.Month() == b.Month()
}
