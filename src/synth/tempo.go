package synth

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// SampleRate is the fixed rate every generator is evaluated at
const SampleRate beep.SampleRate = 48000

// Tempo is the beat clock setting of a Sequencer
type Tempo uint64

// DefaultTempo applies when a stepper does not name one
const DefaultTempo Tempo = 1

// MaxTempo is the largest Tempo whose beat length fits in a time.Duration
const MaxTempo Tempo = math.MaxInt64 / Tempo(time.Second)

// SamplesPerBeat is (bpm * rate) / 60, truncated. With this formula a Tempo
// of 60 is one beat per second and larger values mean longer beats.
func (t Tempo) SamplesPerBeat(rate beep.SampleRate) uint64 {
	return uint64(t) * uint64(rate) / 60
}

// Quantum returns the wall-clock length of one beat, t/60 seconds.
// Tempos above MaxTempo saturate.
func (t Tempo) Quantum() time.Duration {
	if t > MaxTempo {
		return math.MaxInt64
	}
	return time.Duration(t) * time.Second / 60
}
