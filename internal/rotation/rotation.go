// Package rotation picks paragraph questions so that no variant repeats before every
// variant of the same test type has been answered once.
package rotation

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/pkg/models"
)

// ErrNotAvailable is returned when a paragraph has no question of the requested type
var ErrNotAvailable = fmt.Errorf("no question of that type: %w", apperr.ErrNotFound)

// Selection is one question chosen from a paragraph, with its options already shuffled
type Selection struct {
	Index    int
	Key      string
	Question models.ParagraphQuestion
}

// Rotator selects questions. It is not safe for concurrent use.
type Rotator struct {
	rnd *rand.Rand
}

// New creates a rotator. A nil rnd gets a time-seeded source.
func New(rnd *rand.Rand) *Rotator {
	if rnd == nil {
		rnd = NewRand()
	}
	return &Rotator{rnd: rnd}
}

// Key builds the rotation key of question index for testType
func Key(testType string, index int) string {
	return testType + "_" + strconv.Itoa(index)
}

// Next picks an unused question of testType from p. When every matching question has been
// used, only the keys of testType are cleared from p.UsedQuestions and a new cycle starts.
// Next never marks the returned question as used; see MarkUsed.
func (r *Rotator) Next(p *models.Paragraph, testType string) (*Selection, error) {
	var matching []int
	for i, q := range p.Questions {
		if q.Type == testType {
			matching = append(matching, i)
		}
	}
	if len(matching) == 0 {
		return nil, ErrNotAvailable
	}

	used := make(map[string]bool, len(p.UsedQuestions))
	for _, key := range p.UsedQuestions {
		used[key] = true
	}

	var unused []int
	for _, i := range matching {
		if !used[Key(testType, i)] {
			unused = append(unused, i)
		}
	}
	if len(unused) == 0 {
		p.UsedQuestions = ResetType(p.UsedQuestions, testType)
		unused = matching
	}

	idx := unused[r.rnd.Intn(len(unused))]
	q := p.Questions[idx]
	q.Options = Shuffle(r.rnd, q.Options)

	return &Selection{
		Index:    idx,
		Key:      Key(testType, idx),
		Question: q,
	}, nil
}

// MarkUsed records that question index of testType was answered. It reports whether the key
// was newly added; a key is never stored twice.
func MarkUsed(p *models.Paragraph, testType string, index int) bool {
	key := Key(testType, index)
	for _, existing := range p.UsedQuestions {
		if existing == key {
			return false
		}
	}
	p.UsedQuestions = append(p.UsedQuestions, key)
	return true
}

// ResetType removes every key that belongs to testType and keeps the rest in order.
func ResetType(keys []string, testType string) []string {
	kept := make([]string, 0, len(keys))
	for _, key := range keys {
		if !belongsTo(key, testType) {
			kept = append(kept, key)
		}
	}
	return kept
}

func belongsTo(key, testType string) bool {
	rest, ok := strings.CutPrefix(key, testType+"_")
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}
