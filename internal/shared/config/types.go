package config

import "fmt"

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"gt=0,lte=65535"`
	Mode    string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"gt=0,lte=65535"`
	Username        string `mapstructure:"username" validate:"required"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret" validate:"required"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes" validate:"gt=0"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName     string `mapstructure:"from_name"`
	// BillingAlertsAddress receives billing outcome notices. User accounts
	// live in a separate identity service, so delivery fans out from there.
	BillingAlertsAddress string `mapstructure:"billing_alerts_address" validate:"omitempty,email"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GatewayConfig holds the connection settings for the recurring-payment
// gateway. WebhookSecret signs inbound webhook bodies; it must be set in
// any non-debug mode.
type GatewayConfig struct {
	BaseURL       string `mapstructure:"base_url" validate:"required,url"`
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// PlanConfig describes one allow-listed subscription plan.
type PlanConfig struct {
	ID          string `mapstructure:"id" validate:"required"`
	Name        string `mapstructure:"name" validate:"required"`
	GatewayCode string `mapstructure:"gateway_code" validate:"required"`
	PeriodDays  int    `mapstructure:"period_days" validate:"gt=0"`
}

type SubscriptionConfig struct {
	Plans []PlanConfig `mapstructure:"plans" validate:"dive"`
}
