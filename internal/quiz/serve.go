package quiz

import (
	"fmt"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/rotation"
	"github.com/example/ydsbot/internal/store"
	"github.com/example/ydsbot/pkg/models"
)

// NextVocabulary picks a random word and asks it in the given direction with up to three
// distractors taken from other words.
func (e *Engine) NextVocabulary(testType string) (*Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if testType != TestEnToTr && testType != TestTrToEn {
		return nil, fmt.Errorf("unknown vocabulary test type %q: %w", testType, apperr.ErrNotFound)
	}
	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}
	if len(e.records.Words) == 0 {
		return nil, fmt.Errorf("no vocabulary words: %w", apperr.ErrNotFound)
	}

	word := e.records.Words[e.rnd.Intn(len(e.records.Words))]
	prompt, answer := word.English, word.Turkish
	if testType == TestTrToEn {
		prompt, answer = word.Turkish, word.English
	}

	options := append(e.distractors(word, testType), answer)
	return &Question{
		Kind:           KindVocabulary,
		TestType:       testType,
		ItemID:         word.ID(),
		Index:          -1,
		Prompt:         prompt,
		Options:        rotation.Shuffle(e.rnd, options),
		CorrectAnswers: []string{answer},
	}, nil
}

// distractors returns up to maxDistractors wrong options for word, all distinct from the answer
func (e *Engine) distractors(word models.Word, testType string) []string {
	side := func(w models.Word) string {
		if testType == TestTrToEn {
			return w.English
		}
		return w.Turkish
	}
	answer := side(word)

	candidates := make([]string, 0, len(e.records.Words))
	seen := map[string]bool{answer: true}
	for _, w := range e.records.Words {
		value := side(w)
		if w.ID() == word.ID() || seen[value] {
			continue
		}
		seen[value] = true
		candidates = append(candidates, value)
	}

	e.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > maxDistractors {
		candidates = candidates[:maxDistractors]
	}
	return candidates
}

// NextParagraph picks a random paragraph that has questions of testType and asks the next
// unused one through the rotation.
func (e *Engine) NextParagraph(testType string) (*Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}

	var candidates []int
	for i, p := range e.records.Paragraphs {
		for _, q := range p.Questions {
			if q.Type == testType {
				candidates = append(candidates, i)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no paragraph has %q questions: %w", testType, rotation.ErrNotAvailable)
	}

	return e.paragraphQuestion(&e.records.Paragraphs[candidates[e.rnd.Intn(len(candidates))]], testType)
}

// NextParagraphFor asks the next question of testType from one specific paragraph
func (e *Engine) NextParagraphFor(id, testType string) (*Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}

	p := e.findParagraph(id)
	if p == nil {
		return nil, fmt.Errorf("paragraph %q: %w", id, apperr.ErrNotFound)
	}
	return e.paragraphQuestion(p, testType)
}

func (e *Engine) paragraphQuestion(p *models.Paragraph, testType string) (*Question, error) {
	before := len(p.UsedQuestions)
	sel, err := e.rotator.Next(p, testType)
	if err != nil {
		return nil, err
	}
	if len(p.UsedQuestions) != before {
		// A cycle was reset; persist it with the next save.
		e.markDirty(store.DocParagraphs)
	}

	return &Question{
		Kind:           KindParagraph,
		TestType:       testType,
		ItemID:         p.ID,
		Index:          sel.Index,
		Title:          p.Title,
		Context:        p.Text,
		Prompt:         sel.Question.Question,
		Options:        sel.Question.Options,
		CorrectAnswers: []string{sel.Question.Answer},
	}, nil
}

// NextSynonym picks a random synonym set. All correct options must be selected.
func (e *Engine) NextSynonym() (*Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}
	if len(e.records.Synonyms) == 0 {
		return nil, fmt.Errorf("no synonym sets: %w", apperr.ErrNotFound)
	}

	s := e.records.Synonyms[e.rnd.Intn(len(e.records.Synonyms))]
	return &Question{
		Kind:           KindSynonym,
		TestType:       TestSynonym,
		ItemID:         s.ID,
		Index:          -1,
		Prompt:         s.Question,
		Options:        rotation.Shuffle(e.rnd, s.Options),
		CorrectAnswers: append([]string(nil), s.CorrectAnswers...),
		MultiSelect:    true,
		Solution:       s.Solution,
	}, nil
}

func (e *Engine) findWord(id string) *models.Word {
	for i := range e.records.Words {
		if e.records.Words[i].ID() == id {
			return &e.records.Words[i]
		}
	}
	return nil
}

func (e *Engine) findParagraph(id string) *models.Paragraph {
	for i := range e.records.Paragraphs {
		if e.records.Paragraphs[i].ID == id {
			return &e.records.Paragraphs[i]
		}
	}
	return nil
}

func (e *Engine) findSynonym(id string) *models.SynonymSet {
	for i := range e.records.Synonyms {
		if e.records.Synonyms[i].ID == id {
			return &e.records.Synonyms[i]
		}
	}
	return nil
}
