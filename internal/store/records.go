package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/pkg/models"
)

// Records is the in-memory state of every document
type Records struct {
	Words      []models.Word
	Paragraphs []models.Paragraph
	Synonyms   []models.SynonymSet
	WordList   []string
	Ledger     *models.Ledger
}

// LoadAll loads every document with backup and default fallbacks. It never fails;
// the returned map says where each document came from.
func (s *FileStore) LoadAll() (*Records, map[string]Source) {
	r := &Records{}
	sources := make(map[string]Source, len(AllDocuments))
	r.Words, sources[DocVocabulary] = Load(s, DocVocabulary, DefaultWords)
	r.Paragraphs, sources[DocParagraphs] = Load(s, DocParagraphs, DefaultParagraphs)
	r.Synonyms, sources[DocSynonyms] = Load(s, DocSynonyms, DefaultSynonyms)
	r.WordList, sources[DocWordList] = Load(s, DocWordList, DefaultWordList)
	r.Ledger, sources[DocLedger] = Load(s, DocLedger, models.NewLedger)
	if r.Ledger == nil {
		r.Ledger = models.NewLedger()
	}
	r.normalize()
	return r, sources
}

// SaveRecords encodes the named documents (all of them when names is empty) and saves them together.
func (s *FileStore) SaveRecords(r *Records, names ...string) error {
	docs, err := r.Encode(names...)
	if err != nil {
		return err
	}
	return s.Save(docs)
}

// Encode renders the named documents, or all of them when names is empty.
func (r *Records) Encode(names ...string) (map[string][]byte, error) {
	if len(names) == 0 {
		names = AllDocuments
	}
	docs := make(map[string][]byte, len(names))
	for _, name := range names {
		v, err := r.document(name)
		if err != nil {
			return nil, err
		}
		data, err := Encode(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		docs[name] = data
	}
	return docs, nil
}

func (r *Records) document(name string) (any, error) {
	switch name {
	case DocVocabulary:
		return r.Words, nil
	case DocParagraphs:
		return r.Paragraphs, nil
	case DocSynonyms:
		return r.Synonyms, nil
	case DocWordList:
		return r.WordList, nil
	case DocLedger:
		return r.Ledger, nil
	}
	return nil, fmt.Errorf("unknown document %q: %w", name, apperr.ErrNotFound)
}

// Decode builds Records from raw documents. Every document must be present and parse.
func Decode(docs map[string][]byte) (*Records, error) {
	r := &Records{}
	targets := map[string]any{
		DocVocabulary: &r.Words,
		DocParagraphs: &r.Paragraphs,
		DocSynonyms:   &r.Synonyms,
		DocWordList:   &r.WordList,
		DocLedger:     &r.Ledger,
	}
	for _, name := range AllDocuments {
		data, ok := docs[name]
		if !ok {
			return nil, apperr.NewValidationError(map[string]string{name: "missing from archive"})
		}
		if err := json.Unmarshal(data, targets[name]); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, errors.Join(apperr.ErrParse, err))
		}
	}
	if r.Ledger == nil {
		r.Ledger = models.NewLedger()
	}
	r.normalize()
	return r, nil
}

func (r *Records) normalize() {
	if r.Words == nil {
		r.Words = []models.Word{}
	}
	if r.Paragraphs == nil {
		r.Paragraphs = []models.Paragraph{}
	}
	for i := range r.Paragraphs {
		if r.Paragraphs[i].UsedQuestions == nil {
			r.Paragraphs[i].UsedQuestions = []string{}
		}
	}
	if r.Synonyms == nil {
		r.Synonyms = []models.SynonymSet{}
	}
	if r.WordList == nil {
		r.WordList = []string{}
	}
}
