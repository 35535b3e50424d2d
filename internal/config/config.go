package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	RabbitMQ       RabbitMQConfig       `toml:"rabbitmq"`
	ListingService ListingServiceConfig `toml:"listing_service"`
	PaymentService PaymentServiceConfig `toml:"payment_service"`
	Booking        BookingConfig        `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RabbitMQConfig настройки публикации событий бронирований
type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// ListingServiceConfig настройки клиента ListingService
type ListingServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// PaymentServiceConfig настройки клиента платежного провайдера
type PaymentServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// BookingConfig бизнес-параметры бронирования
// Ставки и окна - конфигурация продукта, не зашиваются в код
type BookingConfig struct {
	// Окно ожидания подтверждения хостом, в часах
	// По истечении pending-бронирование автоматически отменяется
	PendingWindowHours int `toml:"pending_window_hours"`

	// Интервал фонового прохода (автоотмена истекших, завершение прошедших), в секундах
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"`

	// НДС в базисных пунктах (1900 = 19%)
	VATBasisPoints int64 `toml:"vat_basis_points"`

	// Сервисный сбор по тарифным планам хостов, в базисных пунктах
	FeeStandardBasisPoints int64 `toml:"fee_standard_basis_points"`
	FeePlusBasisPoints     int64 `toml:"fee_plus_basis_points"`
	FeeProBasisPoints      int64 `toml:"fee_pro_basis_points"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "nt-booking-service"
	}
	if cfg.Booking.PendingWindowHours == 0 {
		cfg.Booking.PendingWindowHours = 24
	}
	if cfg.Booking.SweepIntervalSeconds == 0 {
		cfg.Booking.SweepIntervalSeconds = 60
	}
	if cfg.Booking.VATBasisPoints == 0 {
		cfg.Booking.VATBasisPoints = 1900
	}
	if cfg.Booking.FeeStandardBasisPoints == 0 {
		cfg.Booking.FeeStandardBasisPoints = 1000
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if cfg.Booking.VATBasisPoints < 0 || cfg.Booking.VATBasisPoints > 10000 {
		return fmt.Errorf("config: booking.vat_basis_points must be within [0, 10000]")
	}
	for _, fee := range []int64{cfg.Booking.FeeStandardBasisPoints, cfg.Booking.FeePlusBasisPoints, cfg.Booking.FeeProBasisPoints} {
		if fee < 0 || fee > 10000 {
			return fmt.Errorf("config: booking fee rates must be within [0, 10000] basis points")
		}
	}
	return nil
}
