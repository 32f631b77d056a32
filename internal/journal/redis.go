// Package journal хранит в redis историю действий оператора: отмен подписок и списаний.
// Неудачное списание иначе не оставляет следа, кроме всплывающего сообщения.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/subscribers-admin/internal/config"
)

// Действия, которые попадают в журнал.
const (
	ActionCancel = "cancel"
	ActionCharge = "charge"
)

// Entry — одна запись журнала.
type Entry struct {
	Action       string    `json:"action"`
	SubscriberID string    `json:"subscriber_id"`
	Email        string    `json:"email"`
	Amount       int64     `json:"amount,omitempty"` // В копейках, только для списаний
	Success      bool      `json:"success"`
	Detail       string    `json:"detail,omitempty"`
	At           time.Time `json:"at"`
}

// Journal — журнал действий в redis-списке, новые записи в начале.
type Journal struct {
	Db     *redis.Client
	key    string
	length int64
}

// InitServer подключается к redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Journal, error) {
	const op = "journal.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	length := cfg.JournalLength
	if length <= 0 {
		length = 1000
	}
	return &Journal{Db: db, key: cfg.JournalKey, length: length}, nil
}

// Record добавляет запись и обрезает журнал до заданной длины.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	const op = "journal.Record"
	if e.At.IsZero() {
		e.At = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	pipe := j.Db.TxPipeline()
	pipe.LPush(ctx, j.key, data)
	pipe.LTrim(ctx, j.key, 0, j.length-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Recent возвращает до n последних записей, новые первыми.
func (j *Journal) Recent(ctx context.Context, n int64) ([]Entry, error) {
	const op = "journal.Recent"
	if n <= 0 {
		return nil, nil
	}
	vals, err := j.Db.LRange(ctx, j.key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	entries := make([]Entry, 0, len(vals))
	for _, v := range vals {
		var e Entry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close закрывает соединение с redis.
func (j *Journal) Close() error {
	return j.Db.Close()
}
