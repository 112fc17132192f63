package ledger

// Config holds the tunable scoring rules
type Config struct {
	// Number of questions per day during which positive vocabulary points are withheld
	WarmupQuestions int
	// Words that should be added per day; 0 disables the end-of-day penalty
	DailyWordQuota int
	// Points lost per missing word at day rollover
	QuotaPenaltyPerWord int
}

// DefaultConfig returns the default scoring rules
func DefaultConfig() Config {
	return Config{
		WarmupQuestions:     40,
		DailyWordQuota:      10,
		QuotaPenaltyPerWord: 1,
	}
}
