// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var validDays = map[string]bool{
	"MON": true, "TUE": true, "WED": true, "THU": true,
	"FRI": true, "SAT": true, "SUN": true,
}

// Config holds all runtime configuration for the rebalancer.
type Config struct {
	DatabaseURL   string
	Port          int
	LogLevel      string
	Pretty        bool
	Index         string          // index whose composition is tracked, e.g. SP500
	InitialCash   decimal.Decimal // cash seed for the process-lifetime portfolio
	MinOrderValue decimal.Decimal // dead-zone: deviations below this are not traded
	RebalanceDay  string          // MON..SUN
	RebalanceTime string          // HH:MM, 24h
}

// Load reads configuration from environment variables (a .env file is picked
// up if present), applies defaults, and validates values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	initialCash, err := getDecimal("INITIAL_CASH", "0")
	if err != nil {
		return nil, fmt.Errorf("invalid INITIAL_CASH: %w", err)
	}
	if initialCash.IsNegative() {
		return nil, fmt.Errorf("invalid INITIAL_CASH: must not be negative")
	}

	minOrderValue, err := getDecimal("MIN_ORDER_VALUE", "10")
	if err != nil {
		return nil, fmt.Errorf("invalid MIN_ORDER_VALUE: %w", err)
	}

	day := getStr("REBALANCE_DAY", "MON")
	if !validDays[day] {
		return nil, fmt.Errorf("invalid REBALANCE_DAY: %q, must be MON..SUN", day)
	}

	at := getStr("REBALANCE_TIME", "09:30")
	if _, err := time.Parse("15:04", at); err != nil {
		return nil, fmt.Errorf("invalid REBALANCE_TIME: %w", err)
	}

	return &Config{
		DatabaseURL:   getStr("DATABASE_URL", "postgresql://localhost:5432/rebalancer"),
		Port:          port,
		LogLevel:      logLevel,
		Pretty:        getStr("LOG_PRETTY", "true") == "true",
		Index:         getStr("INDEX_SYMBOL", "SP500"),
		InitialCash:   initialCash,
		MinOrderValue: minOrderValue,
		RebalanceDay:  day,
		RebalanceTime: at,
	}, nil
}

// CronSpec renders the weekly trigger as a standard 5-field cron expression.
func (c *Config) CronSpec() string {
	at, _ := time.Parse("15:04", c.RebalanceTime)
	return fmt.Sprintf("%d %d * * %s", at.Minute(), at.Hour(), c.RebalanceDay)
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDecimal(key, defaultVal string) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		v = defaultVal
	}
	return decimal.NewFromString(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
