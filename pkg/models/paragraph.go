package models

// ParagraphQuestion is one question variant attached to a paragraph
type ParagraphQuestion struct {
	Type     string   `json:"type" validate:"required"`
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"min=2,dive,required"`
	Answer   string   `json:"answer" validate:"required"`
}

// Paragraph is a reading-comprehension item with its own question bank
type Paragraph struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title" validate:"required"`
	Text               string              `json:"paragraph" validate:"required"`
	TurkishTranslation string              `json:"turkish_translation,omitempty"`
	Questions          []ParagraphQuestion `json:"questions" validate:"min=1,dive"`
	AddedDate          string              `json:"added_date,omitempty"`
	Difficulty         string              `json:"difficulty,omitempty"`
	UsedQuestions      []string            `json:"used_questions"`
}
