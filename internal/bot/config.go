package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Telegram bot token
	Token string
	// Only this chat may use the bot; 0 allows any chat
	OwnerChatID int64
	// Long-polling timeout in seconds
	UpdateTimeout int
	// Number of recent days shown by /stats
	StatsDays int
	// Period covered by the answer history block of /stats
	HistoryPeriod time.Duration
	// Largest word file accepted for import, in bytes
	MaxUploadSize int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout: 60,
		StatsDays:     7,
		HistoryPeriod: 30 * 24 * time.Hour,
		MaxUploadSize: 5 << 20,
	}
}
