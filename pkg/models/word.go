package models

// Word is an English-Turkish vocabulary pair
type Word struct {
	English       string `json:"en" validate:"required,max=100"`
	Turkish       string `json:"tr" validate:"required,max=200"`
	WrongCount    int    `json:"wrong_count"`
	AddedDate     string `json:"added_date,omitempty"`
	LastWrongDate string `json:"last_wrong_date,omitempty"`
}

// ID returns the identifier of the word. Vocabulary pairs are keyed by their English text.
func (w Word) ID() string {
	return w.English
}
