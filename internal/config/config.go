package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Payroll   PayrollConfig
	Jobs      JobsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32

	// EnsureSchema applies the embedded schema on startup.
	EnsureSchema bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Version  string
	Timezone string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig bounds how often a single client may hit payroll write endpoints.
type RateLimitConfig struct {
	PayrollPerMinute int
	PayrollBurst     int
}

// PayrollConfig holds the pay rules fed into the calculator.
type PayrollConfig struct {
	OvertimeRate         decimal.Decimal
	TaxRate              decimal.Decimal
	MonthlyHourThreshold decimal.Decimal
	DailyHourThreshold   decimal.Decimal
	Workers              int
}

func (p PayrollConfig) Rates() payroll.Rates {
	return payroll.Rates{
		OvertimeRate:         p.OvertimeRate,
		TaxRate:              p.TaxRate,
		MonthlyHourThreshold: p.MonthlyHourThreshold,
		DailyHourThreshold:   p.DailyHourThreshold,
	}
}

// JobsConfig controls background jobs. A zero interval disables a job.
type JobsConfig struct {
	StaleSessionInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrms"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),

		EnsureSchema: getEnv("DB_ENSURE_SCHEMA", "false") == "true",
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	perMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_PAYROLL_PER_MINUTE", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PAYROLL_PER_MINUTE: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_PAYROLL_BURST", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PAYROLL_BURST: %w", err)
	}
	config.RateLimit = RateLimitConfig{
		PayrollPerMinute: perMinute,
		PayrollBurst:     burst,
	}

	// Payroll rules
	payrollCfg, err := loadPayrollConfig()
	if err != nil {
		return nil, err
	}
	config.Payroll = payrollCfg

	staleInterval, err := time.ParseDuration(getEnv("JOB_STALE_SESSION_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_STALE_SESSION_INTERVAL: %w", err)
	}
	config.Jobs = JobsConfig{StaleSessionInterval: staleInterval}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadPayrollConfig() (PayrollConfig, error) {
	defaults := payroll.DefaultRates()

	overtimeRate, err := getEnvDecimal("PAYROLL_OVERTIME_RATE", defaults.OvertimeRate.String())
	if err != nil {
		return PayrollConfig{}, err
	}
	taxRate, err := getEnvDecimal("PAYROLL_TAX_RATE", defaults.TaxRate.String())
	if err != nil {
		return PayrollConfig{}, err
	}
	monthly, err := getEnvDecimal("PAYROLL_MONTHLY_HOUR_THRESHOLD", defaults.MonthlyHourThreshold.String())
	if err != nil {
		return PayrollConfig{}, err
	}
	daily, err := getEnvDecimal("PAYROLL_DAILY_HOUR_THRESHOLD", defaults.DailyHourThreshold.String())
	if err != nil {
		return PayrollConfig{}, err
	}
	workers, err := strconv.Atoi(getEnv("PAYROLL_WORKERS", "8"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_WORKERS: %w", err)
	}

	return PayrollConfig{
		OvertimeRate:         overtimeRate,
		TaxRate:              taxRate,
		MonthlyHourThreshold: monthly,
		DailyHourThreshold:   daily,
		Workers:              workers,
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Payroll.TaxRate.IsNegative() || c.Payroll.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_TAX_RATE must be between 0 and 1")
	}
	if c.Payroll.OvertimeRate.IsNegative() {
		return fmt.Errorf("PAYROLL_OVERTIME_RATE must be non-negative")
	}
	if !c.Payroll.MonthlyHourThreshold.IsPositive() || !c.Payroll.DailyHourThreshold.IsPositive() {
		return fmt.Errorf("payroll hour thresholds must be positive")
	}
	if c.Payroll.Workers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be at least 1")
	}
	if c.Jobs.StaleSessionInterval < 0 {
		return fmt.Errorf("JOB_STALE_SESSION_INTERVAL must not be negative")
	}
	if c.RateLimit.PayrollPerMinute < 1 || c.RateLimit.PayrollBurst < 1 {
		return fmt.Errorf("payroll rate limit values must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// Location returns the business time zone used to normalize attendance dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
