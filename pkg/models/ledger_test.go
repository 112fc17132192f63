package models

import (
	"encoding/json"
	"testing"
)

func TestDailyRecordFoldsLegacyCounters(t *testing.T) {
	raw := `{"score": 4, "questions_answered": 6, "correct": 5, "wrong": 1,
		"sentence_test_answered": 2, "synonym_test_answered": 3,
		"test_answered": {"synonym": 9}}`

	var rec DailyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Score != 4 || rec.QuestionsAnswered != 6 {
		t.Errorf("known fields lost: %+v", rec)
	}
	if rec.TestAnswered["sentence"] != 2 {
		t.Errorf("legacy sentence counter = %d", rec.TestAnswered["sentence"])
	}
	if rec.TestAnswered["synonym"] != 9 {
		t.Errorf("current map should win over legacy key, got %d", rec.TestAnswered["synonym"])
	}
}

func TestLedgerAcceptsLegacyScoreField(t *testing.T) {
	var l Ledger
	if err := json.Unmarshal([]byte(`{"score": 12, "daily": {"2026-10-15": {"correct": 1}}}`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.TotalScore != 12 {
		t.Errorf("total score = %d", l.TotalScore)
	}
	if l.ComboMultiplier != 1 || l.TestAnsweredToday == nil || l.TestAnsweredTotal == nil {
		t.Errorf("defaults not backfilled: %+v", l)
	}
	if l.Daily["2026-10-15"].Correct != 1 || l.Daily["2026-10-15"].TestAnswered == nil {
		t.Errorf("daily record = %+v", l.Daily["2026-10-15"])
	}
}
