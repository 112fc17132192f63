package quiz

import (
	"errors"
	"fmt"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/ledger"
	"github.com/example/ydsbot/internal/rotation"
	"github.com/example/ydsbot/internal/store"
	"github.com/example/ydsbot/pkg/models"
	"github.com/sirupsen/logrus"
)

// Submit grades the selected options for the question q identifies and applies the result to
// the item and the ledger. Only q's kind, test type, item and index are read; the answer key
// comes from the stored item. A failed save is returned alongside the outcome: the answer
// still counts in memory and is written by the next successful save.
func (e *Engine) Submit(q *Question, selected []string) (*Outcome, error) {
	if q == nil {
		return nil, apperr.NewValidationError(map[string]string{"question": "is required"})
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}

	now := e.today()
	todayKey := now.Format(ledger.DateLayout)
	ageDays := 0
	var isCorrect bool
	var correct []string
	var solution string

	switch q.Kind {
	case KindVocabulary:
		w := e.findWord(q.ItemID)
		if w == nil {
			return nil, fmt.Errorf("word %q: %w", q.ItemID, apperr.ErrNotFound)
		}
		switch q.TestType {
		case TestEnToTr:
			correct = []string{w.Turkish}
		case TestTrToEn:
			correct = []string{w.English}
		default:
			return nil, fmt.Errorf("unknown vocabulary test type %q: %w", q.TestType, apperr.ErrNotFound)
		}
		isCorrect = ledger.Check(selected, correct, false)
		ageDays = ledger.AgeDays(now, w.AddedDate)
		if !isCorrect {
			w.WrongCount++
			w.LastWrongDate = todayKey
			e.markDirty(store.DocVocabulary)
		}
	case KindParagraph:
		p := e.findParagraph(q.ItemID)
		if p == nil {
			return nil, fmt.Errorf("paragraph %q: %w", q.ItemID, apperr.ErrNotFound)
		}
		if q.Index < 0 || q.Index >= len(p.Questions) || p.Questions[q.Index].Type != q.TestType {
			return nil, fmt.Errorf("paragraph %q question %d: %w", q.ItemID, q.Index, apperr.ErrNotFound)
		}
		correct = []string{p.Questions[q.Index].Answer}
		isCorrect = ledger.Check(selected, correct, false)
		if rotation.MarkUsed(p, q.TestType, q.Index) {
			e.markDirty(store.DocParagraphs)
		}
	case KindSynonym:
		s := e.findSynonym(q.ItemID)
		if s == nil {
			return nil, fmt.Errorf("synonym set %q: %w", q.ItemID, apperr.ErrNotFound)
		}
		correct = append([]string(nil), s.CorrectAnswers...)
		solution = s.Solution
		isCorrect = ledger.Check(selected, correct, true)
	default:
		return nil, fmt.Errorf("unknown question kind %q: %w", q.Kind, apperr.ErrNotFound)
	}

	result := e.ledger.Record(now, ledger.Answer{
		Variant:   q.Kind.variant(),
		TestType:  q.TestType,
		IsCorrect: isCorrect,
		AgeDays:   ageDays,
	})
	e.markDirty(store.DocLedger)

	e.log.WithFields(logrus.Fields{
		"kind":      q.Kind,
		"test_type": q.TestType,
		"item":      q.ItemID,
		"correct":   isCorrect,
		"points":    result.Points,
	}).Debug("Answer recorded")

	e.recordHistory(q, result, todayKey)

	outcome := &Outcome{
		Outcome:        result,
		CorrectAnswers: correct,
		Solution:       solution,
	}

	if err := e.flush(); err != nil {
		var saveErr *apperr.SaveError
		if errors.As(err, &saveErr) {
			e.log.WithField("document", saveErr.Document).Warnf("Answer kept in memory, save failed: %v", err)
		}
		return outcome, err
	}
	return outcome, nil
}

// recordHistory writes the answer to the optional history database. Failures are logged only.
func (e *Engine) recordHistory(q *Question, result ledger.Outcome, date string) {
	if e.history == nil {
		return
	}
	rec := &models.AnswerRecord{
		Kind:       string(q.Kind),
		TestType:   q.TestType,
		ItemID:     q.ItemID,
		IsCorrect:  result.IsCorrect,
		Points:     result.Points,
		AnsweredOn: date,
		CreatedAt:  e.clock.Now(),
	}
	if err := e.history.Create(rec); err != nil {
		e.log.Warnf("Failed to record answer history: %v", err)
	}
}
