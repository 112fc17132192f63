package quiz

import (
	"fmt"
	"io"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/ledger"
	"github.com/example/ydsbot/internal/store"
	"github.com/example/ydsbot/pkg/models"
)

// ExportArchive writes every document and a manifest as a zip to w
func (e *Engine) ExportArchive(w io.Writer) (*models.Manifest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	docs, err := e.records.Encode()
	if err != nil {
		return nil, err
	}
	manifest, err := store.WriteArchive(w, docs, e.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to export archive: %w", err)
	}
	e.log.WithField("files", len(manifest.Files)).Info("Archive exported")
	return manifest, nil
}

// ImportArchive replaces every document with the contents of a zip made by ExportArchive.
// Nothing changes unless the whole archive parses, validates and saves.
func (e *Engine) ImportArchive(r io.ReaderAt, size int64) (*models.Manifest, error) {
	docs, manifest, err := store.ReadArchive(r, size)
	if err != nil {
		return nil, err
	}
	records, err := store.Decode(docs)
	if err != nil {
		return nil, err
	}
	if err := e.validateRecords(records); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prevRecords, prevLedger, prevDirty := e.records, e.ledger, e.dirty

	e.records = records
	e.ledger = ledger.New(records.Ledger, e.scoring)
	e.dirty = make(map[string]bool)
	e.markDirty(store.AllDocuments...)

	if err := e.flush(); err != nil {
		e.records, e.ledger, e.dirty = prevRecords, prevLedger, prevDirty
		return nil, fmt.Errorf("failed to restore archive: %w", err)
	}

	e.log.WithField("backup_date", manifest.BackupDate).Info("Archive restored")
	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}
	return manifest, nil
}

func (e *Engine) validateRecords(r *store.Records) error {
	problems := make(map[string]string)
	collect := func(prefix string, item interface{}) {
		err := e.validator.StructWithPrefix(prefix, item)
		if err == nil {
			return
		}
		verr, ok := err.(*apperr.ValidationError)
		if !ok {
			problems[prefix] = err.Error()
			return
		}
		for field, msg := range verr.Fields {
			problems[field] = msg
		}
	}

	for i, w := range r.Words {
		collect(fmt.Sprintf("%s[%d].", store.DocVocabulary, i), w)
	}
	for i, p := range r.Paragraphs {
		collect(fmt.Sprintf("%s[%d].", store.DocParagraphs, i), p)
	}
	for i, s := range r.Synonyms {
		collect(fmt.Sprintf("%s[%d].", store.DocSynonyms, i), s)
	}

	if len(problems) > 0 {
		return apperr.NewValidationError(problems)
	}
	return nil
}
