package quiz

import (
	"github.com/example/ydsbot/internal/ledger"
)

// Kind is the item family a question comes from
type Kind string

const (
	KindVocabulary Kind = "vocabulary"
	KindParagraph  Kind = "paragraph"
	KindSynonym    Kind = "synonym"
)

// Test types
const (
	TestEnToTr   = "en_to_tr"
	TestTrToEn   = "tr_to_en"
	TestSynonym  = "synonym"
	TestSentence = "sentence"
)

// VocabularyTestTypes lists the directions a word can be asked in
var VocabularyTestTypes = []string{TestEnToTr, TestTrToEn}

// Question is what the presentation layer renders. It carries everything needed to grade the
// answer, so the engine does not have to remember what it served.
type Question struct {
	Kind           Kind     `json:"kind"`
	TestType       string   `json:"test_type"`
	ItemID         string   `json:"item_id"`
	Index          int      `json:"index"`
	Title          string   `json:"title,omitempty"`
	Context        string   `json:"context,omitempty"`
	Prompt         string   `json:"prompt"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
	MultiSelect    bool     `json:"multi_select"`
	Solution       string   `json:"solution,omitempty"`
}

// Outcome is the graded result of a submission
type Outcome struct {
	ledger.Outcome
	CorrectAnswers []string `json:"correct_answers"`
	Solution       string   `json:"solution,omitempty"`
}

func (k Kind) variant() ledger.Variant {
	switch k {
	case KindVocabulary:
		return ledger.VariantVocabulary
	case KindSynonym:
		return ledger.VariantSynonym
	default:
		return ledger.VariantParagraph
	}
}
