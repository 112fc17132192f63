package models

import (
	"encoding/json"
	"strings"
)

// Ledger is the persisted progress document: score, streaks and per-day counters
type Ledger struct {
	TotalScore        int                     `json:"total_score"`
	Daily             map[string]*DailyRecord `json:"daily"`
	LastCheckDate     string                  `json:"last_check_date"`
	AnsweredToday     int                     `json:"answered_today"`
	CorrectStreak     int                     `json:"correct_streak"`
	WrongStreak       int                     `json:"wrong_streak"`
	ComboMultiplier   int                     `json:"combo_multiplier"`
	TestAnsweredToday map[string]int          `json:"test_answered_today"`
	TestAnsweredTotal map[string]int          `json:"test_answered_total"`
}

// NewLedger returns an empty ledger with all maps allocated
func NewLedger() *Ledger {
	return &Ledger{
		Daily:             make(map[string]*DailyRecord),
		ComboMultiplier:   1,
		TestAnsweredToday: make(map[string]int),
		TestAnsweredTotal: make(map[string]int),
	}
}

// UnmarshalJSON accepts both the current field names and the older "score" spelling of total_score.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	type plain Ledger
	aux := struct {
		*plain
		Score *int `json:"score"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Score != nil && l.TotalScore == 0 {
		l.TotalScore = *aux.Score
	}
	if l.Daily == nil {
		l.Daily = make(map[string]*DailyRecord)
	}
	if l.TestAnsweredToday == nil {
		l.TestAnsweredToday = make(map[string]int)
	}
	if l.TestAnsweredTotal == nil {
		l.TestAnsweredTotal = make(map[string]int)
	}
	if l.ComboMultiplier == 0 {
		l.ComboMultiplier = 1
	}
	return nil
}

// DailyRecord holds the counters for one calendar date
type DailyRecord struct {
	Score               int            `json:"score"`
	QuestionsAnswered   int            `json:"questions_answered"`
	Correct             int            `json:"correct"`
	Wrong               int            `json:"wrong"`
	WordsAdded          int            `json:"words_added"`
	QuotaPenaltyApplied bool           `json:"quota_penalty_applied"`
	TestAnswered        map[string]int `json:"test_answered"`
}

// NewDailyRecord returns a zeroed record
func NewDailyRecord() *DailyRecord {
	return &DailyRecord{TestAnswered: make(map[string]int)}
}

const legacyTestSuffix = "_test_answered"

// UnmarshalJSON folds legacy "<type>_test_answered" keys into TestAnswered.
func (d *DailyRecord) UnmarshalJSON(data []byte) error {
	type plain DailyRecord
	if err := json.Unmarshal(data, (*plain)(d)); err != nil {
		return err
	}
	if d.TestAnswered == nil {
		d.TestAnswered = make(map[string]int)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if !strings.HasSuffix(key, legacyTestSuffix) {
			continue
		}
		var n int
		if err := json.Unmarshal(value, &n); err != nil {
			continue
		}
		testType := strings.TrimSuffix(key, legacyTestSuffix)
		if _, ok := d.TestAnswered[testType]; !ok {
			d.TestAnswered[testType] = n
		}
	}
	return nil
}
