package streams

import (
	"github.com/faiface/beep"
	"github.com/pkg/errors"
	"tjweldon/opsynth/src/synth"
)

var ErrNoGroups = errors.New("streams: mixer needs at least one group")

// Mixer is the synthesis graph: every group contributes equally to the
// mean that becomes the output sample for a tick.
type Mixer struct {
	Groups []*synth.Group
}

// NewMixer refuses an empty graph since its mean is undefined
func NewMixer(groups ...*synth.Group) (*Mixer, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}
	return &Mixer{Groups: groups}, nil
}

// Next evaluates every group once for index and returns their mean
func (m *Mixer) Next(index uint64) float64 {
	sum := m.Groups[0].Next(index)
	for _, g := range m.Groups[1:] {
		sum += g.Next(index)
	}
	return sum / float64(len(m.Groups))
}

// Streamer evaluates the mixer directly from tick 0, bypassing the sample
// channel. It is used for offline rendering and never runs out.
func (m *Mixer) Streamer() beep.Streamer {
	return &mixStreamer{mixer: m}
}

type mixStreamer struct {
	mixer *Mixer
	tick  uint64
}

func (ms *mixStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	fillMono(samples, func() float64 {
		v := ms.mixer.Next(ms.tick)
		ms.tick++
		return v
	})
	return len(samples), true
}

func (ms *mixStreamer) Err() error { return nil }
