package database

import (
	"path/filepath"
	"testing"

	"github.com/example/ydsbot/pkg/models"
)

func newTestRepository(t *testing.T) *AnswerRepository {
	t.Helper()
	db, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAnswerRepository(db)
}

func TestCreateAndGetByDate(t *testing.T) {
	repo := newTestRepository(t)

	rec := &models.AnswerRecord{Kind: "vocabulary", TestType: "en_to_tr", ItemID: "abundance", IsCorrect: true, Points: 3, AnsweredOn: "2026-10-15"}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID == 0 {
		t.Error("ID was not set")
	}

	records, err := repo.GetByDate("2026-10-15")
	if err != nil {
		t.Fatalf("GetByDate: %v", err)
	}
	if len(records) != 1 || records[0].ItemID != "abundance" || !records[0].IsCorrect {
		t.Errorf("records = %+v", records)
	}
}

func TestGetStatsByPeriod(t *testing.T) {
	repo := newTestRepository(t)
	seed := []models.AnswerRecord{
		{Kind: "vocabulary", TestType: "en_to_tr", ItemID: "a", IsCorrect: true, Points: 3, AnsweredOn: "2026-10-13"},
		{Kind: "vocabulary", TestType: "en_to_tr", ItemID: "b", IsCorrect: false, Points: -2, AnsweredOn: "2026-10-14"},
		{Kind: "synonym", TestType: "synonym", ItemID: "s", IsCorrect: true, Points: 2, AnsweredOn: "2026-10-15"},
		{Kind: "paragraph", TestType: "main_idea", ItemID: "p", IsCorrect: true, Points: 1, AnsweredOn: "2026-09-01"},
	}
	for i := range seed {
		if err := repo.Create(&seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := repo.GetStatsByPeriod("2026-10-01", "2026-10-15")
	if err != nil {
		t.Fatalf("GetStatsByPeriod: %v", err)
	}
	if stats.TotalAnswers != 3 || stats.TotalCorrect != 2 || stats.TotalPoints != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByTestType["en_to_tr"] != 2 || stats.ByTestType["synonym"] != 1 {
		t.Errorf("by type = %v", stats.ByTestType)
	}

	deleted, err := repo.DeleteBefore("2026-10-01")
	if err != nil || deleted != 1 {
		t.Errorf("DeleteBefore = %d, %v", deleted, err)
	}
}
