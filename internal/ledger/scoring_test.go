package ledger

import (
	"testing"
	"time"
)

func TestPoints(t *testing.T) {
	cfg := DefaultConfig()

	testCases := []struct {
		name string
		in   ScoreInput
		want int
	}{
		{"paragraph correct", ScoreInput{Variant: VariantParagraph, IsCorrect: true}, 1},
		{"paragraph wrong", ScoreInput{Variant: VariantParagraph}, 0},
		{"synonym correct", ScoreInput{Variant: VariantSynonym, IsCorrect: true}, 2},
		{"synonym wrong", ScoreInput{Variant: VariantSynonym, WrongStreakBefore: 4}, 0},
		{"new word after warmup", ScoreInput{Variant: VariantVocabulary, IsCorrect: true, AgeDays: 2, AnsweredTodayBefore: 40}, 1},
		{"week old word", ScoreInput{Variant: VariantVocabulary, IsCorrect: true, AgeDays: 7, AnsweredTodayBefore: 40}, 2},
		{"month old word", ScoreInput{Variant: VariantVocabulary, IsCorrect: true, AgeDays: 40, AnsweredTodayBefore: 40}, 3},
		{"month old word during warmup", ScoreInput{Variant: VariantVocabulary, IsCorrect: true, AgeDays: 40, AnsweredTodayBefore: 39}, 0},
		{"x2 combo", ScoreInput{Variant: VariantVocabulary, IsCorrect: true, AgeDays: 7, CorrectStreakBefore: 4, AnsweredTodayBefore: 50}, 4},
		{"x3 combo", ScoreInput{Variant: VariantVocabulary, IsCorrect: true, AgeDays: 30, CorrectStreakBefore: 9, AnsweredTodayBefore: 50}, 9},
		{"wrong word", ScoreInput{Variant: VariantVocabulary, AgeDays: 40}, -2},
		{"wrong word during warmup", ScoreInput{Variant: VariantVocabulary, AnsweredTodayBefore: 0}, -2},
		{"fifth wrong in a row", ScoreInput{Variant: VariantVocabulary, WrongStreakBefore: 4}, -7},
		{"sixth wrong in a row", ScoreInput{Variant: VariantVocabulary, WrongStreakBefore: 5}, -2},
		{"tenth wrong in a row", ScoreInput{Variant: VariantVocabulary, WrongStreakBefore: 9}, -12},
		{"twelfth wrong in a row", ScoreInput{Variant: VariantVocabulary, WrongStreakBefore: 11}, -2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cfg.Points(tc.in); got != tc.want {
				t.Errorf("Points(%+v) = %d, want %d", tc.in, got, tc.want)
			}
			if again := cfg.Points(tc.in); again != cfg.Points(tc.in) {
				t.Error("Points is not deterministic")
			}
		})
	}
}

func TestComboMultiplier(t *testing.T) {
	for streak, want := range map[int]int{0: 1, 1: 1, 4: 1, 5: 2, 9: 2, 10: 3, 25: 3} {
		if got := ComboMultiplier(streak); got != want {
			t.Errorf("ComboMultiplier(%d) = %d, want %d", streak, got, want)
		}
	}
}

func TestAgeDays(t *testing.T) {
	today := time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)

	testCases := []struct {
		added string
		want  int
	}{
		{"2026-10-15", 0},
		{"2026-10-08", 7},
		{"2026-09-05", 40},
		{"2026-09-05 23:59:00", 40},
		{"2026-10-20", 0},
		{"", 0},
		{"yesterday", 0},
	}
	for _, tc := range testCases {
		if got := AgeDays(today, tc.added); got != tc.want {
			t.Errorf("AgeDays(%q) = %d, want %d", tc.added, got, tc.want)
		}
	}
}

func TestCheck(t *testing.T) {
	testCases := []struct {
		name     string
		selected []string
		correct  []string
		multi    bool
		want     bool
	}{
		{"exact match", []string{"bolluk"}, []string{"bolluk"}, false, true},
		{"no normalization", []string{"Bolluk"}, []string{"bolluk"}, false, false},
		{"nothing selected", nil, []string{"bolluk"}, false, false},
		{"same set other order", []string{"ample", "plentiful"}, []string{"plentiful", "ample"}, true, true},
		{"partial overlap", []string{"ample"}, []string{"plentiful", "ample"}, true, false},
		{"extra pick", []string{"ample", "plentiful", "rare"}, []string{"plentiful", "ample"}, true, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Check(tc.selected, tc.correct, tc.multi); got != tc.want {
				t.Errorf("Check = %v, want %v", got, tc.want)
			}
		})
	}
}
