package subscriberlist

import "time"

// Filter возвращает видимых подписчиков в исходном порядке.
// Сначала применяется поиск по query (пустая строка отключает поиск),
// затем, если onlyToday, отбор подписавшихся в тот же день и месяц, что и ref.
func Filter(subs []*Subscriber, query string, onlyToday bool, ref time.Time) []*Subscriber {
	visible := make([]*Subscriber, 0, len(subs))
	for _, s := range subs {
		if query != "" && !s.Matches(query) {
			continue
		}
		if onlyToday && !s.SubscribedOn(ref) {
			continue
		}
		visible = append(visible, s)
	}
	return visible
}
