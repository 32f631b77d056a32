package subscriberapi

import "github.com/magabrotheeeer/subscribers-admin/internal/models"

// Credential — пароль менеджера, который передаётся в заголовке access-password.
type Credential string

// CancelRequest — тело POST /subscribers/cancel.
type CancelRequest struct {
	SubscriberEmail string `json:"subscriber_email"`
}

// CancelResponse — ответ на отмену подписки.
// CancelledSubscriberIDs равен nil, если сервер не прислал поле.
type CancelResponse struct {
	CancelledSubscriberIDs []models.ID `json:"cancelled_subscriber_ids"`
}

// ChargeRequest — тело POST /charge/. Amount в копейках.
type ChargeRequest struct {
	SubscriberID models.ID `json:"subscriber_id"`
	Amount       int64     `json:"amount"`
}

// ChargeResponse — ответ на списание. ChargedAmount в копейках.
type ChargeResponse struct {
	ChargedSubscriberID models.ID `json:"charged_subscriber_id"`
	ChargedAmount       float64   `json:"charged_amount"`
}

// errorBody — тело ответа с ошибкой. detail бывает строкой или списком ошибок валидации.
type errorBody struct {
	Detail any `json:"detail"`
}
