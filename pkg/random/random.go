// Package random provides the randomness capability threaded through the
// simulation. Every consumer takes a Source rather than reaching for global
// state, so a run is reproducible from its seed.
package random

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Source is the narrow set of random outcomes the simulation draws.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
	Uint64() uint64
	Shuffle(n int, swap func(i, j int))
}

// Bernoulli reports a success with probability p.
func Bernoulli(r Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// New returns a stream for single-threaded setup work such as population
// generation.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, mix(seed)))
}

// ForAgent returns the stream an agent uses during one simulated hour.
// The stream depends only on the run seed, the hour and the arena index,
// so the order in which workers pick up agents does not affect the result.
func ForAgent(seed uint64, hour, index int) *rand.Rand {
	return rand.New(rand.NewPCG(agentSeed(seed, hour, index)))
}

func agentSeed(seed uint64, hour, index int) (uint64, uint64) {
	return seed ^ mix(uint64(hour)), mix(uint64(index) + 1)
}

// Stream is a reusable agent stream for one worker goroutine. After Reset
// it produces the same sequence as ForAgent with the same arguments.
type Stream struct {
	*rand.Rand
	pcg *rand.PCG
}

func NewStream() *Stream {
	pcg := rand.NewPCG(0, 0)
	return &Stream{Rand: rand.New(pcg), pcg: pcg}
}

// Reset rewinds the stream to the start of an agent's hour.
func (s *Stream) Reset(seed uint64, hour, index int) {
	s.pcg.Seed(agentSeed(seed, hour, index))
}

// Phase identifies a single-threaded step of an hour that needs its own stream.
type Phase uint64

const (
	PhaseInterventions Phase = iota + 1
)

// ForPhase returns the stream for a single-threaded step of an hour.
func ForPhase(seed uint64, hour int, phase Phase) *rand.Rand {
	return rand.New(rand.NewPCG(seed^mix(uint64(hour)), ^mix(uint64(phase))))
}

// UUID draws a version 4 UUID from r.
func UUID(r Source) uuid.UUID {
	id, err := uuid.NewRandomFromReader(reader{r})
	if err != nil {
		// reader never fails
		panic(err)
	}
	return id
}

type reader struct{ r Source }

func (rd reader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := rd.r.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// mix is the splitmix64 finaliser.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
