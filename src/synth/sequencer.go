package synth

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Sequencer is a beat clock owned by a single Generator. Every time the
// sample index lands on a beat boundary the next Step is applied to the
// generator's frequency and then rotated to the back of the cycle.
type Sequencer struct {
	tempo          Tempo
	samplesPerBeat uint64
	steps          []Step
	next           int
}

// NewSequencer copies steps so the caller's slice is never rotated underneath it
func NewSequencer(tempo Tempo, steps ...Step) (*Sequencer, error) {
	if tempo == 0 {
		return nil, errors.Wrap(ErrInvalidTempo, "tempo must be positive")
	}
	for i, s := range steps {
		if err := s.Validate(); err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
	}

	if tempo > MaxTempo {
		return nil, errors.Wrapf(ErrInvalidTempo, "tempo %d is above %d", tempo, MaxTempo)
	}

	return &Sequencer{
		tempo:          tempo,
		samplesPerBeat: tempo.SamplesPerBeat(SampleRate),
		steps:          append([]Step(nil), steps...),
	}, nil
}

// Tick fires the front step if index is on a beat boundary and returns the
// resulting frequency, held within [0, MaxFrequency]. Index 0 is always a
// boundary.
func (s *Sequencer) Tick(index uint64, freq float64) float64 {
	if s == nil || len(s.steps) == 0 {
		return freq
	}
	if index%s.samplesPerBeat != 0 {
		return freq
	}

	step := s.steps[s.next]
	s.next = (s.next + 1) % len(s.steps)
	return clampFreq(step.Apply(freq))
}

// Steps returns the cycle in its current rotation, front first
func (s *Sequencer) Steps() []Step {
	if s == nil {
		return nil
	}
	out := make([]Step, 0, len(s.steps))
	out = append(out, s.steps[s.next:]...)
	return append(out, s.steps[:s.next]...)
}

func (s *Sequencer) Tempo() Tempo { return s.tempo }

func (s *Sequencer) String() string {
	return fmt.Sprintf("Sequencer(%+v)",
		struct {
			Tempo Tempo
			Beat  time.Duration
			Steps []Step
		}{s.tempo, s.tempo.Quantum(), s.Steps()},
	)
}
