package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	DefaultTokenTTL = 7 * 24 * time.Hour
	DefaultOTPTTL   = 10 * time.Minute
)

var (
	ErrMissingJWTSecret = errors.New("JWT secret is missing, set JWT_SECRET")
	ErrMissingDatabase  = errors.New("database configuration is missing, set DB_HOST and DB_NAME")
	ErrUnknownDriver    = errors.New("unknown DB_DRIVER")
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	OTP       OTPConfig
	SMTP      SMTPConfig
	Twilio    TwilioConfig
	MQTT      MQTTConfig
	Bootstrap BootstrapConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Driver        string
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	QueryTimeout  time.Duration
	RetryAttempts uint64
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type OTPConfig struct {
	TTL time.Duration
	// Codes that expired more than SweepGrace ago are cleared every SweepInterval.
	SweepInterval time.Duration
	SweepGrace    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

type MQTTConfig struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	TopicPrefix    string
	ConnectTimeout time.Duration
}

// BootstrapConfig holds the accounts seeded at startup. An empty email disables
// that account.
type BootstrapConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	UserName      string
	UserEmail     string
	UserPassword  string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	OTPRPS       float64 // Requests per second for verify-otp and resend-otp
	OTPBurst     int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// Load reads .env from the working directory (if present) and the environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit env file path.
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else {
			log.Printf("Warning: config file %s not found. Falling back to environment variables only.", envFile)
		}
	}

	tokenTTL, err := ParseTTL(v.GetString("JWT_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRE: %w", err)
	}
	otpTTL, err := ParseTTL(v.GetString("OTP_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_EXPIRE: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			Environment: v.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(v.GetString("DB_DRIVER")),
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			DBName:        v.GetString("DB_NAME"),
			SSLMode:       v.GetString("DB_SSLMODE"),
			QueryTimeout:  v.GetDuration("DB_QUERY_TIMEOUT"),
			RetryAttempts: v.GetUint64("DB_RETRY_ATTEMPTS"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    tokenTTL,
		},
		OTP: OTPConfig{
			TTL:           otpTTL,
			SweepInterval: v.GetDuration("OTP_SWEEP_INTERVAL"),
			SweepGrace:    v.GetDuration("OTP_SWEEP_GRACE"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Twilio: TwilioConfig{
			AccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
			PhoneNumber: v.GetString("TWILIO_PHONE_NUMBER"),
		},
		MQTT: MQTTConfig{
			Broker:         v.GetString("MQTT_BROKER"),
			ClientID:       v.GetString("MQTT_CLIENT_ID"),
			Username:       v.GetString("MQTT_USERNAME"),
			Password:       v.GetString("MQTT_PASSWORD"),
			TopicPrefix:    v.GetString("MQTT_TOPIC_PREFIX"),
			ConnectTimeout: v.GetDuration("MQTT_CONNECT_TIMEOUT"),
		},
		Bootstrap: BootstrapConfig{
			AdminName:     v.GetString("ADMIN_NAME"),
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
			UserName:      v.GetString("USER_NAME"),
			UserEmail:     v.GetString("USER_EMAIL"),
			UserPassword:  v.GetString("USER_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
			OTPRPS:       v.GetFloat64("RATE_LIMIT_OTP_RPS"),
			OTPBurst:     v.GetInt("RATE_LIMIT_OTP_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   splitList(v.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   splitList(v.GetString("CORS_EXPOSED_HEADERS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetDuration("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("ENVIRONMENT", "development")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_QUERY_TIMEOUT", "5s")
	v.SetDefault("DB_RETRY_ATTEMPTS", 3)

	v.SetDefault("JWT_EXPIRE", "7d")
	v.SetDefault("OTP_EXPIRE", "10m")
	v.SetDefault("OTP_SWEEP_INTERVAL", "1h")
	v.SetDefault("OTP_SWEEP_GRACE", "24h")

	v.SetDefault("SMTP_PORT", 587)

	v.SetDefault("MQTT_CLIENT_ID", "trusthire-api")
	v.SetDefault("MQTT_TOPIC_PREFIX", "trusthire/accounts")
	v.SetDefault("MQTT_CONNECT_TIMEOUT", "10s")

	v.SetDefault("ADMIN_NAME", "Admin User")
	v.SetDefault("USER_NAME", "Demo User")

	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	v.SetDefault("RATE_LIMIT_OTP_RPS", 0.2)
	v.SetDefault("RATE_LIMIT_OTP_BURST", 5)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID")
	v.SetDefault("CORS_EXPOSED_HEADERS", "X-Request-ID")
	v.SetDefault("CORS_MAX_AGE", "12h")
}

// Validate reports configuration that must stop the process before it serves
// a single request.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return ErrMissingDatabase
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// EmailEnabled reports whether SMTP delivery is configured.
func (c *SMTPConfig) EmailEnabled() bool {
	return c.Host != "" && c.User != "" && c.Password != ""
}

// SMSEnabled reports whether Twilio delivery is configured.
func (c *TwilioConfig) SMSEnabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.PhoneNumber != ""
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseTTL accepts Go durations ("10m", "168h") and whole days ("7d").
func ParseTTL(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty duration")
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", value)
	}
	return d, nil
}
