// Package quiz is the session engine. It owns the in-memory documents and is the only place
// where items and the progress ledger are mutated.
package quiz

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/clock"
	"github.com/example/ydsbot/internal/ledger"
	"github.com/example/ydsbot/internal/rotation"
	"github.com/example/ydsbot/internal/store"
	"github.com/example/ydsbot/internal/validate"
	"github.com/example/ydsbot/pkg/models"
	"github.com/sirupsen/logrus"
)

const maxDistractors = 3

// HistoryRecorder stores submitted answers. *database.AnswerRepository implements it.
type HistoryRecorder interface {
	Create(rec *models.AnswerRecord) error
}

// Options configures an Engine
type Options struct {
	Store     *store.FileStore
	Clock     clock.Clock
	Scoring   ledger.Config
	History   HistoryRecorder
	Validator *validate.Validator
	Log       *logrus.Logger
	Rand      *rand.Rand
}

// Engine serves questions and applies answers. Each call runs to completion under one lock;
// concurrent sessions against the same data directory are not supported.
type Engine struct {
	mu sync.Mutex

	store     *store.FileStore
	records   *store.Records
	ledger    *ledger.Ledger
	scoring   ledger.Config
	clock     clock.Clock
	rnd       *rand.Rand
	rotator   *rotation.Rotator
	validator *validate.Validator
	history   HistoryRecorder
	log       *logrus.Logger

	dirty    map[string]bool
	degraded []string
}

// New loads every document (falling back to backups and defaults), writes out documents that
// only existed as defaults and applies a pending day rollover.
func New(opts Options) *Engine {
	if opts.Log == nil {
		opts.Log = logrus.New()
		opts.Log.SetOutput(io.Discard)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Local{}
	}
	if opts.Rand == nil {
		opts.Rand = rotation.NewRand()
	}
	if opts.Validator == nil {
		opts.Validator = validate.NewValidator()
	}

	records, sources := opts.Store.LoadAll()

	e := &Engine{
		store:     opts.Store,
		records:   records,
		ledger:    ledger.New(records.Ledger, opts.Scoring),
		scoring:   opts.Scoring,
		clock:     opts.Clock,
		rnd:       opts.Rand,
		rotator:   rotation.New(opts.Rand),
		validator: opts.Validator,
		history:   opts.History,
		log:       opts.Log,
		dirty:     make(map[string]bool),
	}

	for _, name := range store.AllDocuments {
		if sources[name] == store.SourcePrimary {
			continue
		}
		e.degraded = append(e.degraded, fmt.Sprintf("%s loaded from %s", name, sources[name]))
		if sources[name] == store.SourceDefaults {
			e.markDirty(name)
		}
	}

	if err := e.rollover(); err != nil {
		e.log.Warnf("Saving after day rollover failed: %v", err)
	}
	if err := e.flush(); err != nil {
		e.log.Warnf("Writing default documents failed: %v", err)
	}
	return e
}

// Degraded lists documents that did not come from their primary file at startup
func (e *Engine) Degraded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.degraded...)
}

// CheckRollover applies a day change if the clock moved past last_check_date
func (e *Engine) CheckRollover() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rollover()
}

// Autosave writes any documents changed since the last successful save
func (e *Engine) Autosave() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flush()
}

// Summary returns the stats view with the given number of recent days
func (e *Engine) Summary(days int) models.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Summary(e.clock.Now(), days)
}

// Counts reports how many items of each kind are loaded
func (e *Engine) Counts() map[Kind]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return map[Kind]int{
		KindVocabulary: len(e.records.Words),
		KindParagraph:  len(e.records.Paragraphs),
		KindSynonym:    len(e.records.Synonyms),
	}
}

// ParagraphTestTypes lists every test type present in the paragraph banks, sorted
func (e *Engine) ParagraphTestTypes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]bool)
	for _, p := range e.records.Paragraphs {
		for _, q := range p.Questions {
			seen[q.Type] = true
		}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (e *Engine) today() time.Time {
	return e.clock.Now()
}

// rollover must be called with e.mu held
func (e *Engine) rollover() error {
	res, changed := e.ledger.Rollover(e.today())
	if !changed {
		return nil
	}
	fields := logrus.Fields{"previous": res.PreviousDate, "today": res.Today}
	if res.QuotaPenalty > 0 {
		fields["quota_penalty"] = res.QuotaPenalty
	}
	e.log.WithFields(fields).Info("Day rollover")

	e.dirty[store.DocLedger] = true
	return e.flush()
}

// flush saves every dirty document as one unit. Must be called with e.mu held.
func (e *Engine) flush() error {
	if len(e.dirty) == 0 {
		return nil
	}
	names := make([]string, 0, len(e.dirty))
	for name := range e.dirty {
		names = append(names, name)
	}
	if err := e.store.SaveRecords(e.records, names...); err != nil {
		var saveErr *apperr.SaveError
		if !errors.As(err, &saveErr) {
			return fmt.Errorf("failed to save: %w", errors.Join(apperr.ErrIO, err))
		}
		return err
	}
	e.dirty = make(map[string]bool)
	return nil
}

func (e *Engine) markDirty(names ...string) {
	for _, name := range names {
		e.dirty[name] = true
	}
}
