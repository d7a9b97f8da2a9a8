package synth

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnimplementedWave = errors.New("synth: wave kind not implemented")
	ErrInvalidFrequency  = errors.New("synth: invalid frequency")
	ErrInvalidStep       = errors.New("synth: invalid step")
	ErrInvalidTempo      = errors.New("synth: invalid tempo")
)

// WaveKind is the closed set of waveforms a Generator can produce
type WaveKind int

const (
	Sine WaveKind = iota
	Square
	Saw
	Triangle
)

var waveNames = map[WaveKind]string{
	Sine:     "Sine",
	Square:   "Square",
	Saw:      "Saw",
	Triangle: "Triangle",
}

func (k WaveKind) String() string {
	if name, ok := waveNames[k]; ok {
		return name
	}
	return fmt.Sprintf("WaveKind(%d)", int(k))
}

// ParseWaveKind maps a configuration name onto a WaveKind, ignoring case.
// Triangle parses; NewGenerator is where it gets refused.
func ParseWaveKind(name string) (WaveKind, bool) {
	for k, n := range waveNames {
		if strings.EqualFold(n, name) {
			return k, true
		}
	}
	return 0, false
}

// MaxFrequency is the Nyquist limit at SampleRate. It is also the highest
// Square frequency that still leaves a non-zero half-period divisor.
const MaxFrequency = float64(SampleRate / 2)

// Generator produces one sample per tick from the absolute sample index.
// Fields are private so the only way to build one is NewGenerator, which
// guarantees Next never sees an unimplemented kind or a zero divisor.
type Generator struct {
	kind        WaveKind
	freq        float64
	phaseOffset uint64
	seq         *Sequencer
}

// NewGenerator validates the parameters for kind. seq may be nil.
func NewGenerator(kind WaveKind, freq float64, phaseOffset uint64, seq *Sequencer) (*Generator, error) {
	if math.IsNaN(freq) || math.IsInf(freq, 0) {
		return nil, errors.Wrapf(ErrInvalidFrequency, "%s frequency %v is not finite", kind, freq)
	}

	switch kind {
	case Sine:
	case Square:
		if math.Trunc(freq) < 1 || freq > MaxFrequency {
			return nil, errors.Wrapf(ErrInvalidFrequency, "Square frequency %v must be within [1, %v] Hz", freq, MaxFrequency)
		}
	case Saw:
		if freq <= 0 {
			return nil, errors.Wrapf(ErrInvalidFrequency, "Saw frequency %v must be positive", freq)
		}
	case Triangle:
		return nil, errors.Wrap(ErrUnimplementedWave, kind.String())
	default:
		return nil, errors.Wrap(ErrUnimplementedWave, kind.String())
	}

	return &Generator{kind: kind, freq: freq, phaseOffset: phaseOffset, seq: seq}, nil
}

// Next advances the sequencer, if any, and evaluates the waveform at
// index+phaseOffset. The addition wraps on overflow.
func (g *Generator) Next(index uint64) float64 {
	i := index + g.phaseOffset
	g.freq = g.seq.Tick(i, g.freq)

	switch g.kind {
	case Square:
		return squareAt(g.freq, i)
	case Saw:
		return sawAt(g.freq, i)
	default:
		return sineAt(g.freq, i)
	}
}

func (g *Generator) Kind() WaveKind        { return g.kind }
func (g *Generator) Freq() float64         { return g.freq }
func (g *Generator) PhaseOffset() uint64   { return g.phaseOffset }
func (g *Generator) Sequencer() *Sequencer { return g.seq }

func (g *Generator) String() string {
	return fmt.Sprintf("%s(%gHz +%d)", g.kind, g.freq, g.phaseOffset)
}

// clampFreq holds freq inside [0, MaxFrequency]; NaN becomes 0
func clampFreq(freq float64) float64 {
	switch {
	case math.IsNaN(freq) || freq < 0:
		return 0
	case freq > MaxFrequency:
		return MaxFrequency
	default:
		return freq
	}
}

func sineAt(freq float64, i uint64) float64 {
	return math.Sin(2 * math.Pi * freq * float64(i) / float64(SampleRate))
}

// squareAt alternates -1/+1 every half period. The frequency is truncated
// to whole Hz before dividing, so 440.9 plays as 440.
func squareAt(freq float64, i uint64) float64 {
	hz := uint64(1)
	if freq >= 1 {
		hz = uint64(freq)
	}
	halfPeriod := uint64(SampleRate/2) / hz
	if halfPeriod == 0 {
		halfPeriod = 1
	}

	if (i/halfPeriod)%2 == 0 {
		return -1.0
	}
	return 1.0
}

// sawAt is a rising ramp over [0, 1). norm*2 - norm is kept as written
// even though it reduces to norm.
func sawAt(freq float64, i uint64) float64 {
	period := uint64(1)
	switch p := float64(SampleRate) / freq; {
	case p >= math.MaxUint64:
		period = math.MaxUint64
	case p >= 1:
		period = uint64(p)
	}

	idx := i % period
	norm := float64(idx) / float64(period)
	return (norm * 2.0) - norm
}
