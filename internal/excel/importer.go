package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/ledger"
	"github.com/example/ydsbot/internal/validate"
	"github.com/example/ydsbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath        string // Path to the Excel or CSV file
	EnglishColumn   string // Column with the English word
	TurkishColumn   string // Column with the Turkish meaning
	AddedDateColumn string // Optional column with the date the word was learned
	SheetName       string // Name of the sheet to import; empty means the first sheet
	StartRow        int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		EnglishColumn:   "A",
		TurkishColumn:   "B",
		AddedDateColumn: "C",
		StartRow:        2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
}

// ReadWords reads every word row from an Excel or CSV file. Rows are validated as a batch:
// if any row is invalid, no words are returned and the error lists every bad row.
func ReadWords(config ImportConfig, v *validate.Validator) ([]models.Word, error) {
	rows, err := readRows(config)
	if err != nil {
		return nil, err
	}

	words := make([]models.Word, 0, len(rows))
	problems := make(map[string]string)

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow || isBlank(row) {
			continue
		}

		prefix := fmt.Sprintf("row %d.", rowNum)
		added, err := normalizeDate(cell(row, config.AddedDateColumn))
		if err != nil {
			problems[prefix+"Word.added_date"] = err.Error()
			continue
		}

		word := models.Word{
			English:   strings.ToLower(cleanWord(cell(row, config.EnglishColumn))),
			Turkish:   cleanWord(cell(row, config.TurkishColumn)),
			AddedDate: added,
		}
		if err := v.StructWithPrefix(prefix, word); err != nil {
			if verr, ok := err.(*apperr.ValidationError); ok {
				for field, msg := range verr.Fields {
					problems[field] = msg
				}
				continue
			}
			return nil, err
		}
		words = append(words, word)
	}

	if len(problems) > 0 {
		return nil, apperr.NewValidationError(problems)
	}
	return words, nil
}

func readRows(config ImportConfig) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	switch ext {
	case ".csv":
		return readCSV(config.FilePath)
	case ".xlsx", ".xlsm":
		return readExcel(config)
	}
	return nil, apperr.NewValidationError(map[string]string{"file": "unsupported file type " + ext})
}

// readExcel reads all rows of the configured sheet
func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	// Raw values keep date cells as serial numbers instead of locale-formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV reads all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.NewValidationError(map[string]string{"file": err.Error()})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// normalizeDate turns an added-date cell into YYYY-MM-DD. Text dates in any layout the ledger
// accepts and Excel date serials are allowed; an empty cell stays empty.
func normalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, ok := ledger.ParseAddedDate(value, time.UTC); ok {
		return t.Format(ledger.DateLayout), nil
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.Format(ledger.DateLayout), nil
		}
	}
	return "", fmt.Errorf("%q is not a date", value)
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cleanWord strips extra info in parentheses, e.g. "go (went, gone)"
func cleanWord(word string) string {
	indexOpenParen := strings.Index(word, "(")
	if indexOpenParen > 0 {
		return strings.TrimSpace(word[:indexOpenParen])
	}
	return strings.TrimSpace(word)
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
