// Package store keeps the quiz documents as indented JSON files next to their backups.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/sirupsen/logrus"
)

// Logical document names
const (
	DocVocabulary = "vocabulary"
	DocParagraphs = "paragraphs"
	DocSynonyms   = "synonyms"
	DocWordList   = "wordlist"
	DocLedger     = "ledger"
)

// AllDocuments lists every document in save order
var AllDocuments = []string{DocVocabulary, DocParagraphs, DocSynonyms, DocWordList, DocLedger}

const backupSuffix = "_backup"

// Source tells where a loaded document came from
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceBackup   Source = "backup"
	SourceDefaults Source = "defaults"
)

// FileStore reads and writes documents under a data directory
type FileStore struct {
	dir string
	log *logrus.Logger
}

// NewFileStore creates the data directory if needed
func NewFileStore(dir string, log *logrus.Logger) (*FileStore, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", errors.Join(apperr.ErrIO, err))
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &FileStore{dir: dir, log: log}, nil
}

// Dir returns the data directory
func (s *FileStore) Dir() string {
	return s.dir
}

// PrimaryPath returns the file a document is normally read from
func (s *FileStore) PrimaryPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// BackupPath returns the fixed backup location for a document
func (s *FileStore) BackupPath(name string) string {
	return filepath.Join(s.dir, name+backupSuffix+".json")
}

// Encode renders v the way every document is stored: UTF-8, two-space indent, no HTML escaping.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Save copies each existing primary file to its backup path and then replaces the primary.
// If any step fails, primaries touched by this call are restored from their backups and a
// *apperr.SaveError is returned. There is no transaction across documents.
func (s *FileStore) Save(docs map[string][]byte) error {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	var touched []savedDoc
	for _, name := range names {
		doc, err := s.saveOne(name, docs[name])
		if doc.name != "" {
			touched = append(touched, doc)
		}
		if err != nil {
			restoreErr := s.restore(touched)
			s.log.WithFields(logrus.Fields{
				"document": name,
				"restored": restoreErr == nil,
			}).Warnf("Degraded save: %v", err)
			return &apperr.SaveError{Document: name, Restored: restoreErr == nil, Err: err}
		}
	}
	return nil
}

type savedDoc struct {
	name      string
	hadBackup bool
}

func (s *FileStore) saveOne(name string, content []byte) (savedDoc, error) {
	primary := s.PrimaryPath(name)
	doc := savedDoc{name: name}

	if _, err := os.Stat(primary); err == nil {
		if err := copyFile(primary, s.BackupPath(name)); err != nil {
			return savedDoc{}, fmt.Errorf("failed to back up %s: %w", name, err)
		}
		doc.hadBackup = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return savedDoc{}, fmt.Errorf("failed to stat %s: %w", name, err)
	}

	if err := writeAtomic(primary, content); err != nil {
		return doc, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return doc, nil
}

func (s *FileStore) restore(docs []savedDoc) error {
	var errs []error
	for _, doc := range docs {
		primary := s.PrimaryPath(doc.name)
		if doc.hadBackup {
			if err := copyFile(s.BackupPath(doc.name), primary); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if err := os.Remove(primary); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load decodes document name into a T. Primary first, then backup, then defaults().
// The returned Source says which one won.
func Load[T any](s *FileStore, name string, defaults func() T) (T, Source) {
	log := s.log.WithField("document", name)

	if v, err := decodeFile[T](s.PrimaryPath(name)); err == nil {
		return v, SourcePrimary
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Primary document unusable, trying backup: %v", err)
	}

	if v, err := decodeFile[T](s.BackupPath(name)); err == nil {
		log.Warn("Loaded document from backup")
		return v, SourceBackup
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Backup document unusable: %v", err)
	}

	log.Info("Using default dataset")
	return defaults(), SourceDefaults
}

func decodeFile[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), errors.Join(apperr.ErrParse, err))
	}
	return v, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeAtomic(dst, data)
}

// writeAtomic writes to a temp file in the same directory and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
