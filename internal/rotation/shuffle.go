package rotation

import (
	"math/rand"
	"time"
)

// NewRand returns a time-seeded generator
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle returns a shuffled copy of options; the input is left as is.
func Shuffle(rnd *rand.Rand, options []string) []string {
	out := make([]string, len(options))
	copy(out, options)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
