package subscriberlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/subscribers-admin/internal/journal"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/metrics"
	"github.com/magabrotheeeer/subscribers-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscribers-admin/internal/models"
	"github.com/magabrotheeeer/subscribers-admin/internal/subscriberapi"
)

const (
	msgCancelFailed  = "Произошла ошибка при отключении подписки."
	msgChargeFailed  = "Неизвестная ошибка при списании средств."
	titleCancel      = "Отменить подписку"
	titleChargeOK    = "Оплата успешна"
	acceptCancel     = "Продолжить"
	minorUnitsPerRub = 100
)

var (
	// ErrInvalidAmount — сумма не является целым положительным числом.
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrCancelFailed — сервис не подтвердил отмену подписки.
	ErrCancelFailed = errors.New("cancellation was not confirmed")
	// ErrChargeFailed — списание не прошло.
	ErrChargeFailed = errors.New("charge failed")
)

// ParseAmount разбирает сумму в рублях, введённую оператором.
func ParseAmount(input string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || n <= 0 || n > math.MaxInt64/minorUnitsPerRub {
		return 0, ErrInvalidAmount
	}
	return n, nil
}

// ToggleSubscription отменяет активную подписку после подтверждения оператором.
// Для отменённой подписки ничего не делает: возобновление не поддерживается.
func (v *View) ToggleSubscription(ctx context.Context, id string, confirm ConfirmFunc) error {
	v.mu.Lock()
	s := v.findLocked(id)
	if s == nil {
		v.mu.Unlock()
		return ErrNotFound
	}
	if !s.active {
		v.mu.Unlock()
		return nil
	}
	prompt := Prompt{
		SubscriberID: id,
		Title:        titleCancel,
		Message:      fmt.Sprintf("Точно хотите отменить подписку для пользователя %s?\n\nПодписку нельзя будет возобновить.", s.email),
		Accept:       acceptCancel,
	}
	v.mu.Unlock()

	if !confirm(prompt) {
		return nil
	}
	return v.CancelSubscription(ctx, id)
}

// CancelSubscription отправляет отмену подписки по email подписчика.
// Успехом считается только непустой cancelled_subscriber_ids в ответе.
func (v *View) CancelSubscription(ctx context.Context, id string) error {
	const op = "subscriberlist.View.CancelSubscription"
	log := v.log.With(slog.String("op", op), slog.String("subscriber_id", id))

	v.mu.Lock()
	s := v.findLocked(id)
	if s == nil {
		v.mu.Unlock()
		return ErrNotFound
	}
	if !s.active {
		v.mu.Unlock()
		return ErrInactive
	}
	email := s.email
	v.mu.Unlock()

	resp, err := v.provider.CancelSubscription(ctx, v.cred, email)
	if err == nil && (resp == nil || len(resp.CancelledSubscriberIDs) == 0) {
		err = ErrCancelFailed
	}

	entry := journal.Entry{Action: journal.ActionCancel, SubscriberID: id, Email: email, Success: err == nil}
	if err != nil {
		entry.Detail = err.Error()
	}
	v.record(ctx, entry)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		metrics.Actions.WithLabelValues(journal.ActionCancel, outcome(err)).Inc()
		log.Error("failed to cancel subscription", sl.Err(err))
		v.alert(msgCancelFailed)
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.Actions.WithLabelValues(journal.ActionCancel, metrics.OutcomeOK).Inc()
	log.Info("subscription cancelled", slog.Int("cancelled", len(resp.CancelledSubscriberIDs)))
	// Список мог перезагрузиться, пока шёл запрос.
	if s := v.findLocked(id); s != nil && s.active {
		_ = s.Deactivate()
	}
	return nil
}

// RequestCharge списывает с подписчика сумму в рублях, введённую оператором.
// Некорректная сумма не приводит ни к запросу, ни к изменению состояния.
func (v *View) RequestCharge(ctx context.Context, id string, input string) error {
	const op = "subscriberlist.View.RequestCharge"
	log := v.log.With(slog.String("op", op), slog.String("subscriber_id", id))

	rub, err := ParseAmount(input)
	if err != nil {
		return err
	}
	amount := rub * minorUnitsPerRub

	v.mu.Lock()
	s := v.findLocked(id)
	if s == nil {
		v.mu.Unlock()
		return ErrNotFound
	}
	if err := s.Chargeable(); err != nil {
		v.mu.Unlock()
		return err
	}
	subID, name, email := s.id, s.name, s.email
	v.mu.Unlock()

	resp, err := v.provider.Charge(ctx, v.cred, subID, amount)
	if err == nil && resp == nil {
		err = ErrChargeFailed
	}

	entry := journal.Entry{Action: journal.ActionCharge, SubscriberID: id, Email: email, Amount: amount, Success: err == nil}
	if err != nil {
		entry.Detail = err.Error()
	}
	v.record(ctx, entry)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		metrics.Actions.WithLabelValues(journal.ActionCharge, outcome(err)).Inc()
		log.Error("failed to charge subscriber", slog.Int64("amount", amount), sl.Err(err))
		msg := subscriberapi.Detail(err)
		if msg == "" {
			msg = msgChargeFailed
		}
		v.alert(msg)
		if errors.Is(err, ErrChargeFailed) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrChargeFailed, err)
	}

	metrics.Actions.WithLabelValues(journal.ActionCharge, metrics.OutcomeOK).Inc()
	log.Info("subscriber charged", slog.Int64("amount", amount))
	if s := v.findLocked(id); s != nil {
		_ = s.MarkPaid()
	}
	v.inform(titleChargeOK, fmt.Sprintf("С клиента %s (ID: %s) списано %s руб.",
		name, chargedID(resp, subID), formatRubles(resp.ChargedAmount)))
	return nil
}

func chargedID(resp *subscriberapi.ChargeResponse, fallback models.ID) string {
	if resp.ChargedSubscriberID.IsZero() {
		return fallback.String()
	}
	return resp.ChargedSubscriberID.String()
}

// formatRubles переводит копейки в рубли: 150050 -> "1500.5".
func formatRubles(minor float64) string {
	return strconv.FormatFloat(minor/minorUnitsPerRub, 'f', -1, 64)
}
