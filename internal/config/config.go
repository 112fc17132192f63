package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/example/ydsbot/internal/ledger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration
type Config struct {
	DataDir          string
	TelegramToken    string
	OwnerChatID      int64
	HistoryDriver    string
	HistoryDSN       string
	TimeAPIURL       string
	TimeAPITimeout   time.Duration
	Timezone         string
	AutosaveInterval time.Duration
	LogLevel         string
	Scoring          ledger.Config
}

// NewViper loads .env (when present) into the environment and returns a viper instance that
// reads the environment with defaults.
func NewViper(envFiles ...string) (*viper.Viper, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	scoring := ledger.DefaultConfig()
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("HISTORY_DRIVER", "sqlite3")
	v.SetDefault("TIME_API_URL", "https://worldtimeapi.org/api/timezone/Europe/Istanbul")
	v.SetDefault("TIME_API_TIMEOUT", "2s")
	v.SetDefault("TIMEZONE", "Europe/Istanbul")
	v.SetDefault("AUTOSAVE_INTERVAL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WARMUP_QUESTIONS", scoring.WarmupQuestions)
	v.SetDefault("DAILY_WORD_QUOTA", scoring.DailyWordQuota)
	v.SetDefault("QUOTA_PENALTY_PER_WORD", scoring.QuotaPenaltyPerWord)

	return v, nil
}

// Load builds a Config from v
func Load(v *viper.Viper) *Config {
	cfg := &Config{
		DataDir:          v.GetString("DATA_DIR"),
		TelegramToken:    v.GetString("TELEGRAM_BOT_TOKEN"),
		OwnerChatID:      v.GetInt64("OWNER_CHAT_ID"),
		HistoryDriver:    v.GetString("HISTORY_DRIVER"),
		HistoryDSN:       v.GetString("HISTORY_DSN"),
		TimeAPIURL:       v.GetString("TIME_API_URL"),
		TimeAPITimeout:   v.GetDuration("TIME_API_TIMEOUT"),
		Timezone:         v.GetString("TIMEZONE"),
		AutosaveInterval: v.GetDuration("AUTOSAVE_INTERVAL"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		Scoring: ledger.Config{
			WarmupQuestions:     v.GetInt("WARMUP_QUESTIONS"),
			DailyWordQuota:      v.GetInt("DAILY_WORD_QUOTA"),
			QuotaPenaltyPerWord: v.GetInt("QUOTA_PENALTY_PER_WORD"),
		},
	}
	if cfg.HistoryDSN == "" && cfg.HistoryDriver == "sqlite3" {
		cfg.HistoryDSN = filepath.Join(cfg.DataDir, "history.db")
	}
	return cfg
}

// Location resolves the configured timezone, falling back to the local zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
