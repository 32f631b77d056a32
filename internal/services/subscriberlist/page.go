package subscriberlist

import "time"

// Row — модель одной строки таблицы подписчиков.
type Row struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	GuardianName   string    `json:"child_name"`
	DateSubscribed time.Time `json:"date_subscribed"`
	DateLabel      string    `json:"date_label"`
	Active         bool      `json:"is_active"`
	Paid           bool      `json:"is_paid"`
	ShowActions    bool      `json:"show_actions"`
	Chargeable     bool      `json:"chargeable"`
	ToggleIcon     string    `json:"toggle_icon"`
	ChargeIcon     string    `json:"charge_icon"`
}

// Toggle — состояние переключателя фильтра.
type Toggle struct {
	Enabled bool   `json:"enabled"` // Переключатель есть на экране
	On      bool   `json:"on"`
	Icon    string `json:"icon"`
	Label   string `json:"label"`
}

func newToggle(enabled, on bool, label string) Toggle {
	icon := "check_box_outline_blank"
	if on {
		icon = "check_box"
	}
	return Toggle{Enabled: enabled, On: on, Icon: icon, Label: label}
}

// Page — всё, что нужно для отрисовки экрана. Строится из состояния без побочных эффектов.
type Page struct {
	Title  string `json:"title"`
	Query  string `json:"query"`
	Today  Toggle `json:"today"`
	Active Toggle `json:"active"`
	Loaded bool   `json:"loaded"`
	Total  int    `json:"total"`
	Rows   []Row  `json:"rows"`
}

// NoticeKind — вид уведомления.
type NoticeKind string

const (
	// NoticeAlert — сообщение об ошибке.
	NoticeAlert NoticeKind = "alert"
	// NoticeInfo — подтверждение успешного действия.
	NoticeInfo NoticeKind = "info"
)

// Notice — уведомление, которое покажется на следующей отрисованной странице.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title,omitempty"`
	Message string     `json:"message"`
}

// Prompt — вопрос оператору перед необратимым действием.
type Prompt struct {
	SubscriberID string
	Title        string
	Message      string
	Accept       string
}

// ConfirmFunc показывает вопрос и возвращает согласие оператора.
type ConfirmFunc func(Prompt) bool
