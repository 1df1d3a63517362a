package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	Postgres Postgres

	// LocalStorePath is the directory for the embedded store backing
	// anonymous carts and favorites.
	LocalStorePath string

	// FirebaseCredentialsFile is optional; when empty the verifier falls back
	// to application default credentials.
	FirebaseCredentialsFile string

	Payment Payment

	SendGridAPIKey string
	MailFrom       string
}

type Postgres struct {
	Host    string
	Port    int
	User    string
	Pass    string
	DB      string
	SSLMode string
}

type Payment struct {
	BaseURL    string
	APIKey     string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		Postgres: Postgres{
			Host:    getEnv("POSTGRES_HOST", "localhost"),
			Port:    getEnvInt("POSTGRES_PORT", 5432),
			User:    getEnv("POSTGRES_USER", "furnistore"),
			Pass:    getEnv("POSTGRES_PASSWORD", "furnistore"),
			DB:      getEnv("POSTGRES_DB", "furnistore_db"),
			SSLMode: getEnv("POSTGRES_SSLMODE", "disable"),
		},
		LocalStorePath:          getEnv("LOCAL_STORE_PATH", "./data/localstore"),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		Payment: Payment{
			BaseURL:    getEnv("PAYMENT_BASE_URL", "https://api.payments.example.com"),
			APIKey:     getEnv("PAYMENT_API_KEY", ""),
			SuccessURL: getEnv("PAYMENT_SUCCESS_URL", "https://shop.example.com/checkout/success"),
			CancelURL:  getEnv("PAYMENT_CANCEL_URL", "https://shop.example.com/cart"),
			Timeout:    getEnvDuration("PAYMENT_TIMEOUT", 15*time.Second),
		},
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "orders@furnistore.example.com"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
