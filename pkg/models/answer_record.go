package models

import "time"

// AnswerRecord is one submitted answer kept in the history database
type AnswerRecord struct {
	ID         int64     `json:"id" db:"id"`
	Kind       string    `json:"kind" db:"kind"`           // "vocabulary", "paragraph", "synonym"
	TestType   string    `json:"test_type" db:"test_type"` // e.g. "en_to_tr", "main_idea", "synonym"
	ItemID     string    `json:"item_id" db:"item_id"`
	IsCorrect  bool      `json:"is_correct" db:"is_correct"`
	Points     int       `json:"points" db:"points"`
	AnsweredOn string    `json:"answered_on" db:"answered_on"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
