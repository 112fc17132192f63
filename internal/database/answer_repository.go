package database

import (
	"fmt"
	"time"

	"github.com/example/ydsbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// AnswerRepository handles database operations for answer history
type AnswerRepository struct {
	db *sqlx.DB
}

// NewAnswerRepository creates a new repository instance
func NewAnswerRepository(db *sqlx.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create inserts a new answer record
func (r *AnswerRepository) Create(rec *models.AnswerRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if r.db.DriverName() == DriverPostgres {
		query := `
			INSERT INTO answers (kind, test_type, item_id, is_correct, points, answered_on, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		return r.db.QueryRow(query,
			rec.Kind, rec.TestType, rec.ItemID, rec.IsCorrect, rec.Points, rec.AnsweredOn, rec.CreatedAt,
		).Scan(&rec.ID)
	}

	// SQLite has no RETURNING on older versions
	result, err := r.db.Exec(`
		INSERT INTO answers (kind, test_type, item_id, is_correct, points, answered_on, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Kind, rec.TestType, rec.ItemID, rec.IsCorrect, rec.Points, rec.AnsweredOn, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	rec.ID = id
	return nil
}

// GetByDate returns every answer given on date (YYYY-MM-DD), oldest first
func (r *AnswerRepository) GetByDate(date string) ([]models.AnswerRecord, error) {
	var records []models.AnswerRecord
	query := r.db.Rebind("SELECT * FROM answers WHERE answered_on = ? ORDER BY id")
	if err := r.db.Select(&records, query, date); err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	return records, nil
}

// GetStatsByPeriod aggregates answers between two dates, inclusive
func (r *AnswerRepository) GetStatsByPeriod(startDate, endDate string) (*models.HistoryStats, error) {
	stats := &models.HistoryStats{ByTestType: make(map[string]int)}

	query := r.db.Rebind(`
		SELECT
			COUNT(*) AS total_answers,
			COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS total_correct,
			COALESCE(SUM(points), 0) AS total_points
		FROM answers
		WHERE answered_on BETWEEN ? AND ?
	`)
	if err := r.db.Get(stats, query, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to get answer totals: %w", err)
	}

	var perType []struct {
		TestType string `db:"test_type"`
		Count    int    `db:"count"`
	}
	query = r.db.Rebind(`
		SELECT test_type, COUNT(*) AS count
		FROM answers
		WHERE answered_on BETWEEN ? AND ?
		GROUP BY test_type
	`)
	if err := r.db.Select(&perType, query, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to get answers by test type: %w", err)
	}
	for _, row := range perType {
		stats.ByTestType[row.TestType] = row.Count
	}

	return stats, nil
}

// DeleteBefore removes answers older than date and returns how many were deleted
func (r *AnswerRepository) DeleteBefore(date string) (int64, error) {
	result, err := r.db.Exec(r.db.Rebind("DELETE FROM answers WHERE answered_on < ?"), date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete answers: %w", err)
	}
	return result.RowsAffected()
}
