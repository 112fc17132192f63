// Package ledger is the progress state machine: day rollover, streaks, combo multiplier and
// per-day counters.
package ledger

import (
	"sort"
	"time"

	"github.com/example/ydsbot/pkg/models"
)

// DateLayout is the key format of daily records
const DateLayout = "2006-01-02"

// Ledger mutates a models.Ledger while keeping its invariants. Not safe for concurrent use.
type Ledger struct {
	state *models.Ledger
	cfg   Config
}

// New wraps state. A nil state starts a fresh ledger.
func New(state *models.Ledger, cfg Config) *Ledger {
	if state == nil {
		state = models.NewLedger()
	}
	if state.Daily == nil {
		state.Daily = make(map[string]*models.DailyRecord)
	}
	if state.TestAnsweredToday == nil {
		state.TestAnsweredToday = make(map[string]int)
	}
	if state.TestAnsweredTotal == nil {
		state.TestAnsweredTotal = make(map[string]int)
	}
	return &Ledger{state: state, cfg: cfg}
}

// State returns the underlying document
func (l *Ledger) State() *models.Ledger {
	return l.state
}

// Config returns the scoring rules in use
func (l *Ledger) Config() Config {
	return l.cfg
}

// RolloverResult describes what a day change did
type RolloverResult struct {
	PreviousDate string
	Today        string
	QuotaPenalty int
}

// Rollover starts a new day if today is later than last_check_date. It applies the word quota
// penalty to the previous date at most once, zeroes the daily counters and streaks, and makes
// sure today's record exists. Calling it again on the same date changes nothing. A clock that
// steps back to an earlier date keeps the current day.
func (l *Ledger) Rollover(today time.Time) (RolloverResult, bool) {
	todayKey := today.Format(DateLayout)
	result := RolloverResult{PreviousDate: l.state.LastCheckDate, Today: todayKey}

	// YYYY-MM-DD keys sort chronologically as strings.
	if todayKey <= l.state.LastCheckDate {
		result.Today = l.state.LastCheckDate
		l.record(l.state.LastCheckDate)
		return result, false
	}

	if l.state.LastCheckDate != "" {
		result.QuotaPenalty = l.applyQuotaPenalty(l.state.LastCheckDate)
	}

	l.state.AnsweredToday = 0
	l.state.CorrectStreak = 0
	l.state.WrongStreak = 0
	l.state.ComboMultiplier = 1
	for testType := range l.state.TestAnsweredToday {
		l.state.TestAnsweredToday[testType] = 0
	}
	l.state.LastCheckDate = todayKey
	l.record(todayKey)

	return result, true
}

func (l *Ledger) applyQuotaPenalty(date string) int {
	if l.cfg.DailyWordQuota <= 0 {
		return 0
	}
	rec := l.record(date)
	if rec.QuotaPenaltyApplied {
		return 0
	}
	rec.QuotaPenaltyApplied = true

	missing := l.cfg.DailyWordQuota - rec.WordsAdded
	if missing <= 0 {
		return 0
	}
	penalty := missing * l.cfg.QuotaPenaltyPerWord
	rec.Score -= penalty
	l.state.TotalScore -= penalty
	return penalty
}

func (l *Ledger) record(date string) *models.DailyRecord {
	rec, ok := l.state.Daily[date]
	if !ok || rec == nil {
		rec = models.NewDailyRecord()
		l.state.Daily[date] = rec
	}
	if rec.TestAnswered == nil {
		rec.TestAnswered = make(map[string]int)
	}
	return rec
}

// Answer is one submission as the ledger sees it
type Answer struct {
	Variant   Variant
	TestType  string
	IsCorrect bool
	AgeDays   int
}

// Outcome is the result of recording an answer
type Outcome struct {
	IsCorrect       bool `json:"is_correct"`
	Points          int  `json:"points_awarded"`
	CorrectStreak   int  `json:"correct_streak"`
	WrongStreak     int  `json:"wrong_streak"`
	ComboMultiplier int  `json:"combo_multiplier"`
	AnsweredToday   int  `json:"answered_today"`
}

// Record applies one answer to the ledger for today's date.
func (l *Ledger) Record(today time.Time, a Answer) Outcome {
	l.Rollover(today)
	rec := l.record(l.state.LastCheckDate)

	points := l.cfg.Points(ScoreInput{
		Variant:             a.Variant,
		IsCorrect:           a.IsCorrect,
		AgeDays:             a.AgeDays,
		CorrectStreakBefore: l.state.CorrectStreak,
		WrongStreakBefore:   l.state.WrongStreak,
		AnsweredTodayBefore: l.state.AnsweredToday,
	})

	if a.IsCorrect {
		rec.Correct++
		l.state.CorrectStreak++
		l.state.WrongStreak = 0
		l.state.ComboMultiplier = ComboMultiplier(l.state.CorrectStreak)
	} else {
		rec.Wrong++
		l.state.WrongStreak++
		l.state.CorrectStreak = 0
		l.state.ComboMultiplier = 1
	}

	l.state.TotalScore += points
	rec.Score += points

	l.state.AnsweredToday++
	rec.QuestionsAnswered++
	rec.TestAnswered[a.TestType]++
	l.state.TestAnsweredToday[a.TestType]++
	l.state.TestAnsweredTotal[a.TestType]++

	return Outcome{
		IsCorrect:       a.IsCorrect,
		Points:          points,
		CorrectStreak:   l.state.CorrectStreak,
		WrongStreak:     l.state.WrongStreak,
		ComboMultiplier: l.state.ComboMultiplier,
		AnsweredToday:   l.state.AnsweredToday,
	}
}

// RecordWordAdded counts a new vocabulary word toward today's quota
func (l *Ledger) RecordWordAdded(today time.Time, n int) {
	l.Rollover(today)
	l.record(l.state.LastCheckDate).WordsAdded += n
}

// Summary builds the stats view with up to days most recent daily records.
func (l *Ledger) Summary(today time.Time, days int) models.Summary {
	todayKey := today.Format(DateLayout)
	s := models.Summary{
		TotalScore:      l.state.TotalScore,
		Today:           todayKey,
		AnsweredToday:   l.state.AnsweredToday,
		CorrectStreak:   l.state.CorrectStreak,
		WrongStreak:     l.state.WrongStreak,
		ComboMultiplier: l.state.ComboMultiplier,
	}
	if rec, ok := l.state.Daily[todayKey]; ok && rec != nil {
		s.TodayRecord = *rec
	}

	dates := make([]string, 0, len(l.state.Daily))
	for date := range l.state.Daily {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > days {
		dates = dates[:days]
	}
	for _, date := range dates {
		if rec := l.state.Daily[date]; rec != nil {
			s.RecentDays = append(s.RecentDays, models.DaySummary{Date: date, Record: *rec})
		}
	}
	return s
}
