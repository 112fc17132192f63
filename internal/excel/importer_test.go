package excel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/ledger"
	"github.com/example/ydsbot/internal/validate"
	"github.com/xuri/excelize/v2"
)

func TestReadWordsFromExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]string{
		{"English", "Turkish", "Added"},
		{"Abundance", "bolluk", "2026-09-05"},
		{"go (went, gone)", "gitmek", ""},
	}
	for i, row := range rows {
		for j, value := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cellName, value); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	words, err := ReadWords(cfg, validate.NewValidator())
	if err != nil {
		t.Fatalf("ReadWords: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words", len(words))
	}
	if words[0].English != "abundance" || words[0].Turkish != "bolluk" || words[0].AddedDate != "2026-09-05" {
		t.Errorf("first word = %+v", words[0])
	}
	if words[1].English != "go" {
		t.Errorf("parenthesised forms not stripped: %q", words[1].English)
	}
}

func TestReadWordsKeepsExcelDateCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]interface{}{
		"A1": "English", "B1": "Turkish", "C1": "Added",
		"A2": "abundance", "B2": "bolluk", "C2": time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		"A3": "scarce", "B3": "kıt", "C3": "05.09.2026",
	}
	for name, value := range cells {
		if err := f.SetCellValue(sheet, name, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	words, err := ReadWords(cfg, validate.NewValidator())
	if err != nil {
		t.Fatalf("ReadWords: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words", len(words))
	}
	for _, w := range words {
		if w.AddedDate != "2026-09-05" {
			t.Errorf("%s added_date = %q, want 2026-09-05", w.English, w.AddedDate)
		}
	}
	today := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	if age := ledger.AgeDays(today, words[0].AddedDate); age != 40 {
		t.Errorf("age = %d days, want 40", age)
	}
}

func TestReadWordsRejectsUnreadableDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "en,tr,added\nabundance,bolluk,last tuesday\nscarce,kıt,2026-09-05\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	_, err := ReadWords(cfg, validate.NewValidator())
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["row 2.Word.added_date"]; !ok {
		t.Errorf("row 2 date not reported: %v", verr.Fields)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{" 2026-09-05 ", "2026-09-05", false},
		{"2026-09-05 14:30:00", "2026-09-05", false},
		{"05.09.2026", "2026-09-05", false},
		{"46270", "2026-09-05", false},
		{"9/5/26 00:00", "", true},
		{"-3", "", true},
	}
	for _, tt := range tests {
		got, err := normalizeDate(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestReadWordsFromCSVRejectsBadBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "en,tr\nabundance,bolluk\ndecline,\n\nenhance,geliştirmek\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	words, err := ReadWords(cfg, validate.NewValidator())
	if words != nil {
		t.Errorf("no words should be returned from a bad batch, got %v", words)
	}
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["row 3.Word.tr"]; !ok {
		t.Errorf("row 3 not reported: %v", verr.Fields)
	}
}

func TestReadWordsUnsupportedType(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.FilePath = "words.txt"
	if _, err := ReadWords(cfg, validate.NewValidator()); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestColumnToIndex(t *testing.T) {
	for col, want := range map[string]int{"A": 0, "b": 1, "Z": 25, "AA": 26} {
		if got := columnToIndex(col); got != want {
			t.Errorf("columnToIndex(%q) = %d, want %d", col, got, want)
		}
	}
}
