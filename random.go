package chip8

import (
	"math/rand"
	"time"
)

// RandomSource provides the uniform bytes consumed by CXNN.
type RandomSource interface {
	Byte() uint8
}

type seededRandom struct {
	rnd *rand.Rand
}

// NewSeededRandom returns a pseudo random source. A zero seed picks one from
// the current time.
func NewSeededRandom(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &seededRandom{rnd: rand.New(rand.NewSource(seed))}
}

func (r *seededRandom) Byte() uint8 {
	return uint8(r.rnd.Intn(256))
}

// SequenceRandom replays a fixed list of bytes, starting over when exhausted.
// An empty sequence always yields 0.
type SequenceRandom struct {
	Values []uint8
	next   int
}

func (s *SequenceRandom) Byte() uint8 {
	if len(s.Values) == 0 {
		return 0
	}
	b := s.Values[s.next%len(s.Values)]
	s.next++
	return b
}
