package models

// DaySummary is one row of the recent-days table
type DaySummary struct {
	Date   string `json:"date"`
	Record DailyRecord
}

// Summary is a read-only view of the ledger for the stats screen
type Summary struct {
	TotalScore      int          `json:"total_score"`
	Today           string       `json:"today"`
	TodayRecord     DailyRecord  `json:"today_record"`
	AnsweredToday   int          `json:"answered_today"`
	CorrectStreak   int          `json:"correct_streak"`
	WrongStreak     int          `json:"wrong_streak"`
	ComboMultiplier int          `json:"combo_multiplier"`
	RecentDays      []DaySummary `json:"recent_days"`
}

// HistoryStats aggregates answer history over a period
type HistoryStats struct {
	TotalAnswers int            `json:"total_answers" db:"total_answers"`
	TotalCorrect int            `json:"total_correct" db:"total_correct"`
	TotalPoints  int            `json:"total_points" db:"total_points"`
	ByTestType   map[string]int `json:"by_test_type"`
}
