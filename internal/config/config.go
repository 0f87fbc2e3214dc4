package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	POS       POSConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Events    EventsConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// BackendConfig describes the remote REST backend that owns products,
// registers, sessions and sales.
type BackendConfig struct {
	BaseURL      string
	Timeout      time.Duration
	ServiceToken string
	MaxPages     int
}

type POSConfig struct {
	TaxRate         decimal.Decimal
	StoreName       string
	StoreAddress    string
	StorePhone      string
	StoreTaxID      string
	CurrencySymbol  string
	TerminalIdleTTL time.Duration
	ManagerPINHash  string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

// JWTConfig holds the secret shared with the backend, if any. Without it
// operator tokens are decoded but not verified here; the backend stays the
// authority on every forwarded call.
type JWTConfig struct {
	Secret string
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

type PrinterConfig struct {
	Type     string
	USBPath  string
	Address  string
	SpoolDir string
	Width    int
}

type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pos-terminal")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:8000/api/v1")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("BACKEND_SERVICE_TOKEN", "")
	viper.SetDefault("BACKEND_MAX_PAGES", 20)
	viper.SetDefault("POS_TAX_RATE", "0.08")
	viper.SetDefault("POS_STORE_NAME", "Store")
	viper.SetDefault("POS_STORE_ADDRESS", "")
	viper.SetDefault("POS_STORE_PHONE", "")
	viper.SetDefault("POS_STORE_TAX_ID", "")
	viper.SetDefault("POS_CURRENCY_SYMBOL", "$")
	viper.SetDefault("POS_TERMINAL_IDLE_TTL_MINUTES", 720)
	viper.SetDefault("POS_MANAGER_PIN_HASH", "")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pos_terminal")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_SQLITE_PATH", "./storage/pos-terminal.db")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_SPOOL_DIR", "./storage/spool")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("EVENTS_AMQP_URL", "")
	viper.SetDefault("EVENTS_EXCHANGE", "pos.events")

	taxRate, err := decimal.NewFromString(viper.GetString("POS_TAX_RATE"))
	if err != nil || taxRate.IsNegative() {
		log.Printf("Warning: invalid POS_TAX_RATE %q, falling back to 0.08", viper.GetString("POS_TAX_RATE"))
		taxRate = decimal.RequireFromString("0.08")
	}

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Backend: BackendConfig{
			BaseURL:      viper.GetString("BACKEND_BASE_URL"),
			Timeout:      time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
			ServiceToken: viper.GetString("BACKEND_SERVICE_TOKEN"),
			MaxPages:     viper.GetInt("BACKEND_MAX_PAGES"),
		},
		POS: POSConfig{
			TaxRate:         taxRate,
			StoreName:       viper.GetString("POS_STORE_NAME"),
			StoreAddress:    viper.GetString("POS_STORE_ADDRESS"),
			StorePhone:      viper.GetString("POS_STORE_PHONE"),
			StoreTaxID:      viper.GetString("POS_STORE_TAX_ID"),
			CurrencySymbol:  viper.GetString("POS_CURRENCY_SYMBOL"),
			TerminalIdleTTL: time.Duration(viper.GetInt("POS_TERMINAL_IDLE_TTL_MINUTES")) * time.Minute,
			ManagerPINHash:  viper.GetString("POS_MANAGER_PIN_HASH"),
		},
		Database: DatabaseConfig{
			Driver:     viper.GetString("DB_DRIVER"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:     viper.GetString("PRINTER_TYPE"),
			USBPath:  viper.GetString("PRINTER_USB_PATH"),
			Address:  viper.GetString("PRINTER_ADDRESS"),
			SpoolDir: viper.GetString("PRINTER_SPOOL_DIR"),
			Width:    viper.GetInt("PRINTER_WIDTH"),
		},
		Events: EventsConfig{
			AMQPURL:  viper.GetString("EVENTS_AMQP_URL"),
			Exchange: viper.GetString("EVENTS_EXCHANGE"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
