package ledger

import (
	"time"
)

// Variant selects the scoring rule
type Variant string

const (
	VariantVocabulary Variant = "vocabulary"
	VariantParagraph  Variant = "paragraph"
	VariantSynonym    Variant = "synonym"
)

const (
	wrongPoints        = -2
	comboPenaltyAt5    = -5
	comboPenaltyAt10   = -10
	paragraphPoints    = 1
	synonymPoints      = 2
	recentWordPoints   = 1
	weekOldWordPoints  = 2
	monthOldWordPoints = 3
	weekOldThreshold   = 7
	monthOldThreshold  = 30
)

// ScoreInput is everything Points looks at
type ScoreInput struct {
	Variant             Variant
	IsCorrect           bool
	AgeDays             int
	CorrectStreakBefore int
	WrongStreakBefore   int
	AnsweredTodayBefore int
}

// ComboMultiplier maps a correct streak to its multiplier
func ComboMultiplier(correctStreak int) int {
	switch {
	case correctStreak >= 10:
		return 3
	case correctStreak >= 5:
		return 2
	default:
		return 1
	}
}

// WordPoints is the base award for a correctly answered vocabulary word of the given age
func WordPoints(ageDays int) int {
	switch {
	case ageDays >= monthOldThreshold:
		return monthOldWordPoints
	case ageDays >= weekOldThreshold:
		return weekOldWordPoints
	default:
		return recentWordPoints
	}
}

// WrongStreakPenalty is the extra deduction when the wrong streak reaches exactly 5 or 10.
func WrongStreakPenalty(wrongStreak int) int {
	switch wrongStreak {
	case 5:
		return comboPenaltyAt5
	case 10:
		return comboPenaltyAt10
	default:
		return 0
	}
}

// Points computes the award for one answer. It is a pure function of its input.
func (c Config) Points(in ScoreInput) int {
	switch in.Variant {
	case VariantSynonym:
		if in.IsCorrect {
			return synonymPoints
		}
		return 0
	case VariantVocabulary:
		if !in.IsCorrect {
			return wrongPoints + WrongStreakPenalty(in.WrongStreakBefore+1)
		}
		if in.AnsweredTodayBefore < c.WarmupQuestions {
			return 0
		}
		return WordPoints(in.AgeDays) * ComboMultiplier(in.CorrectStreakBefore+1)
	default:
		if in.IsCorrect {
			return paragraphPoints
		}
		return 0
	}
}

var addedDateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
}

// ParseAddedDate reads an added_date in any of the accepted layouts
func ParseAddedDate(value string, loc *time.Location) (time.Time, bool) {
	for _, layout := range addedDateLayouts {
		if added, err := time.ParseInLocation(layout, value, loc); err == nil {
			return added, true
		}
	}
	return time.Time{}, false
}

// AgeDays returns whole days between addedDate and today, or 0 when addedDate cannot be parsed.
func AgeDays(today time.Time, addedDate string) int {
	added, ok := ParseAddedDate(addedDate, today.Location())
	if !ok {
		return 0
	}
	days := int(midnight(today).Sub(midnight(added)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Check applies the equality rule. Single-answer questions need an exact match of the one
// selection; multi-select questions need the selected set to equal the correct set.
func Check(selected, correct []string, multiSelect bool) bool {
	if !multiSelect {
		return len(selected) == 1 && len(correct) > 0 && selected[0] == correct[0]
	}
	want := toSet(correct)
	got := toSet(selected)
	if len(want) != len(got) {
		return false
	}
	for v := range want {
		if !got[v] {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
