package quiz

import (
	"fmt"
	"strings"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/excel"
	"github.com/example/ydsbot/internal/ledger"
	"github.com/example/ydsbot/internal/store"
	"github.com/example/ydsbot/pkg/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AddWord adds a vocabulary pair learned today and counts it toward the daily word quota.
func (e *Engine) AddWord(english, turkish string) (*models.Word, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}

	now := e.today()
	word := models.Word{
		English:   strings.ToLower(strings.TrimSpace(english)),
		Turkish:   strings.TrimSpace(turkish),
		AddedDate: now.Format(ledger.DateLayout),
	}
	if err := e.validator.Struct(word); err != nil {
		return nil, err
	}
	if e.hasWord(word.English) {
		return nil, apperr.NewValidationError(map[string]string{"en": fmt.Sprintf("%q already exists", word.English)})
	}

	e.appendWord(word)
	e.ledger.RecordWordAdded(now, 1)
	e.markDirty(store.DocVocabulary, store.DocWordList, store.DocLedger)

	e.log.WithField("word", word.English).Info("Word added")
	return &word, e.flush()
}

// ImportWords reads a spreadsheet or CSV of word pairs. The batch is validated as a whole before
// anything changes; words that already exist are skipped.
func (e *Engine) ImportWords(path string) (*excel.ImportResult, error) {
	cfg := excel.DefaultImportConfig()
	cfg.FilePath = path

	words, err := excel.ReadWords(cfg, e.validator)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}

	now := e.today()
	result := &excel.ImportResult{TotalProcessed: len(words)}
	for _, w := range words {
		if e.hasWord(w.English) {
			result.Skipped++
			continue
		}
		if w.AddedDate == "" {
			w.AddedDate = now.Format(ledger.DateLayout)
		}
		e.appendWord(w)
		result.Created++
	}

	if result.Created > 0 {
		e.ledger.RecordWordAdded(now, result.Created)
		e.markDirty(store.DocVocabulary, store.DocWordList, store.DocLedger)
	}

	e.log.WithFields(logrus.Fields{
		"file":    path,
		"created": result.Created,
		"skipped": result.Skipped,
	}).Info("Words imported")
	return result, e.flush()
}

// AddParagraph validates and stores a new paragraph with a fresh id
func (e *Engine) AddParagraph(p models.Paragraph) (*models.Paragraph, error) {
	if err := e.validator.Struct(p); err != nil {
		return nil, err
	}
	problems := make(map[string]string)
	for i, q := range p.Questions {
		if !contains(q.Options, q.Answer) {
			problems[fmt.Sprintf("questions[%d].answer", i)] = "must be one of the options"
		}
	}
	if len(problems) > 0 {
		return nil, apperr.NewValidationError(problems)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p.ID = uuid.NewString()
	p.AddedDate = e.today().Format(ledger.DateLayout)
	p.UsedQuestions = []string{}
	e.records.Paragraphs = append(e.records.Paragraphs, p)
	e.markDirty(store.DocParagraphs)

	e.log.WithField("paragraph", p.ID).Info("Paragraph added")
	return &p, e.flush()
}

// AddSynonymSet validates and stores a new synonym question with a fresh id
func (e *Engine) AddSynonymSet(s models.SynonymSet) (*models.SynonymSet, error) {
	if err := e.validator.Struct(s); err != nil {
		return nil, err
	}
	for _, answer := range s.CorrectAnswers {
		if !contains(s.Options, answer) {
			return nil, apperr.NewValidationError(map[string]string{
				"correct_answers": fmt.Sprintf("%q is not one of the options", answer),
			})
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s.ID = uuid.NewString()
	if s.Type == "" {
		s.Type = TestSynonym
	}
	e.records.Synonyms = append(e.records.Synonyms, s)
	e.markDirty(store.DocSynonyms)

	e.log.WithField("synonym_set", s.ID).Info("Synonym set added")
	return &s, e.flush()
}

// DeleteItem removes an item at the user's request
func (e *Engine) DeleteItem(kind Kind, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := false
	switch kind {
	case KindVocabulary:
		id = strings.ToLower(id)
		e.records.Words, removed = removeFirst(e.records.Words, func(w models.Word) bool { return w.ID() == id })
		e.records.WordList, _ = removeFirst(e.records.WordList, func(s string) bool { return s == id })
		if removed {
			e.markDirty(store.DocVocabulary, store.DocWordList)
		}
	case KindParagraph:
		e.records.Paragraphs, removed = removeFirst(e.records.Paragraphs, func(p models.Paragraph) bool { return p.ID == id })
		if removed {
			e.markDirty(store.DocParagraphs)
		}
	case KindSynonym:
		e.records.Synonyms, removed = removeFirst(e.records.Synonyms, func(s models.SynonymSet) bool { return s.ID == id })
		if removed {
			e.markDirty(store.DocSynonyms)
		}
	default:
		return fmt.Errorf("unknown item kind %q: %w", kind, apperr.ErrNotFound)
	}
	if !removed {
		return fmt.Errorf("%s %q: %w", kind, id, apperr.ErrNotFound)
	}

	e.log.WithFields(logrus.Fields{"kind": kind, "id": id}).Info("Item deleted")
	return e.flush()
}

func (e *Engine) hasWord(english string) bool {
	return contains(e.records.WordList, english) || e.findWord(english) != nil
}

func (e *Engine) appendWord(w models.Word) {
	e.records.Words = append(e.records.Words, w)
	if !contains(e.records.WordList, w.English) {
		e.records.WordList = append(e.records.WordList, w.English)
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// removeFirst drops the first element matching and reports whether one was found
func removeFirst[T any](items []T, match func(T) bool) ([]T, bool) {
	for i := range items {
		if match(items[i]) {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}
