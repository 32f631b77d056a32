// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env-default:"local"`
	SubscriberAPI   `yaml:"api"`
	HTTPServer      `yaml:"http_server"`
	Session         `yaml:"session"`
	RedisConnection `yaml:"redis_connection"`
	List            `yaml:"list"`
}

// SubscriberAPI структура для настройки клиента сервиса подписок
type SubscriberAPI struct {
	BaseURL    string        `yaml:"base_url" env-required:"true"`
	TimeoutAPI time.Duration `yaml:"timeoutapi" env-default:"10s"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	// ActionRate и ActionBurst ограничивают частоту отмен и списаний
	ActionRate  float64 `yaml:"action_rate" env-default:"1"`
	ActionBurst int     `yaml:"action_burst" env-default:"3"`
}

// Session структура для настройки cookie-сессии, в которой хранится пароль менеджера
type Session struct {
	SessionName   string        `yaml:"name" env-default:"subscribers-admin"`
	SessionSecret string        `yaml:"secret" env-required:"true"`
	SessionMaxAge time.Duration `yaml:"max_age" env-default:"720h"`
	SecureCookie  bool          `yaml:"secure_cookie"`
	// MaxViews ограничивает число экранов операторов в памяти
	MaxViews int `yaml:"max_views" env-default:"1000"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой AddressRedis отключает журнал действий.
type RedisConnection struct {
	AddressRedis  string        `yaml:"addressredis"`
	Password      string        `yaml:"password"`
	User          string        `yaml:"user"`
	DB            int           `yaml:"db"`
	MaxRetries    int           `yaml:"max_retries"`
	DialTimeout   time.Duration `yaml:"dial_timeout"`
	TimeoutRedis  time.Duration `yaml:"timeoutredis"`
	JournalKey    string        `yaml:"journal_key" env-default:"subscribers-admin:journal"`
	JournalLength int64         `yaml:"journal_length" env-default:"1000"`
}

// List структура для настройки экрана подписчиков
type List struct {
	Title        string `yaml:"title" env-default:"Подписчики"`
	ActiveFilter bool   `yaml:"active_filter"`
}

// MustLoad функция для загрузки конфига из файла CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"SubscriberAPI:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Session:\n"+
			"  Name: %s\n"+
			"  MaxAge: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  JournalKey: %s\n"+
			"List:\n"+
			"  Title: %s\n"+
			"  ActiveFilter: %t\n",
		c.Env,
		c.BaseURL,
		c.TimeoutAPI,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.SessionName,
		c.SessionMaxAge,
		c.AddressRedis,
		c.DB,
		c.JournalKey,
		c.Title,
		c.ActiveFilter,
	)
}
