package models

// SynonymSet is a multi-select question: every option in CorrectAnswers must be picked
type SynonymSet struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Question       string   `json:"question" validate:"required"`
	Options        []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswers []string `json:"correct_answers" validate:"min=1,dive,required"`
	Solution       string   `json:"solution,omitempty"`
}
