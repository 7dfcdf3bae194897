package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config хранит все параметры запуска приложения.
type Config struct {
	Env                  string
	HTTPPort             string
	DataFile             string
	BackupKeep           int
	OperatorID           int64
	OperatorStartBalance decimal.Decimal
	CommissionRate       decimal.Decimal
	MaxTopupAmount       decimal.Decimal
	TonWalletAddress     string
	BotUsername          string
	WebAppPath           string
	AllowedOrigins       []string
	RateLimitLimit       int64
	RateLimitPeriod      time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:                  env,
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DataFile:             getEnv("DATA_FILE", "./data/bot_data.json"),
		BackupKeep:           int(mustParseInt64(getEnv("BACKUP_KEEP", "10"))),
		OperatorStartBalance: mustParseDecimal(getEnv("OPERATOR_START_BALANCE", "7000")),
		CommissionRate:       mustParseDecimal(getEnv("COMMISSION_RATE", "0.05")),
		MaxTopupAmount:       mustParseDecimal(getEnv("MAX_TOPUP_AMOUNT", "1000")),
		TonWalletAddress:     getEnv("TON_WALLET_ADDRESS", ""),
		BotUsername:          getEnv("BOT_USERNAME", "garant_bot"),
		WebAppPath:           getEnv("WEBAPP_PATH", "./mini_app"),
	}

	// Оператор обязателен: на его счёт уходит комиссия каждой завершённой сделки.
	operatorID := getEnv("OPERATOR_ID", "")
	if operatorID == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: OPERATOR_ID обязателен в production")
		}
		operatorID = "1"
		log.Printf("config: WARNING - используется дефолтный OPERATOR_ID=1, задайте его в production!")
	}
	cfg.OperatorID = mustParseInt64(operatorID)

	if cfg.CommissionRate.IsNegative() || cfg.CommissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("config: COMMISSION_RATE должен быть в диапазоне [0, 1), получен %s", cfg.CommissionRate)
	}
	if cfg.BackupKeep < 1 {
		return nil, fmt.Errorf("config: BACKUP_KEEP должен быть положительным, получен %d", cfg.BackupKeep)
	}

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "https://web.telegram.org"}
	} else {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}

	// Анти-спам: по умолчанию одно мутирующее действие в 2 секунды.
	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "1"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "2s"))

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 безопасно парсит строку в int64.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}

// mustParseDecimal безопасно парсит строку в decimal.
func mustParseDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить сумму %q: %v", v, err)
	}
	return d
}
