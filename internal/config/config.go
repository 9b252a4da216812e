package config

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Redis     RedisConfig
	Order     OrderConfig
	Tracing   TracingConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name           string
	Env            string
	Port           string
	Debug          bool
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	MaxIdleConns int
	MaxOpenConns int
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level  string
	Format string
}

// RedisConfig is optional; an empty Addr disables event fan-out.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// OrderConfig holds the stock and loyalty defaults used by order processing.
type OrderConfig struct {
	DefaultMinStockLevel         int
	DefaultMaxStockLevel         int
	LoyaltyPointsPerCurrencyUnit int
	// LoyaltyThresholdRupees is the spend that earns one unit of points
	LoyaltyThresholdRupees int
}

type TracingConfig struct {
	Enabled bool
}

// PrinterConfig selects the counter receipt printer: usb, network or none.
type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Warnf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "eazyque-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_REQUEST_TIMEOUT", 15)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "eazyque")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ORDER_DEFAULT_MIN_STOCK", 10)
	viper.SetDefault("ORDER_DEFAULT_MAX_STOCK", 1000)
	viper.SetDefault("ORDER_LOYALTY_POINTS_PER_UNIT", 1)
	viper.SetDefault("ORDER_LOYALTY_THRESHOLD", 100)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 32)

	return &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Env:            viper.GetString("APP_ENV"),
			Port:           viper.GetString("APP_PORT"),
			Debug:          viper.GetBool("APP_DEBUG"),
			RequestTimeout: time.Duration(viper.GetInt("APP_REQUEST_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			Timezone:     viper.GetString("DB_TIMEZONE"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetStringSlice("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetStringSlice("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetStringSlice("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Order: OrderConfig{
			DefaultMinStockLevel:         viper.GetInt("ORDER_DEFAULT_MIN_STOCK"),
			DefaultMaxStockLevel:         viper.GetInt("ORDER_DEFAULT_MAX_STOCK"),
			LoyaltyPointsPerCurrencyUnit: viper.GetInt("ORDER_LOYALTY_POINTS_PER_UNIT"),
			LoyaltyThresholdRupees:       viper.GetInt("ORDER_LOYALTY_THRESHOLD"),
		},
		Tracing: TracingConfig{
			Enabled: viper.GetBool("TRACING_ENABLED"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// splitList accepts both repeated values and a single comma separated value
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
