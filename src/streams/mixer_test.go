package streams

import (
	"testing"

	"github.com/pkg/errors"
	"tjweldon/opsynth/src/synth"
)

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
}

func generator(t *testing.T, kind synth.WaveKind, freq float64) *synth.Generator {
	t.Helper()
	g, err := synth.NewGenerator(kind, freq, 0, nil)
	expectNoError(t, err)
	return g
}

func tremolo(t *testing.T) *synth.Group {
	return synth.NewGroup(generator(t, synth.Sine, 1), generator(t, synth.Square, 1))
}

func TestNewMixerRejectsEmptyGraph(t *testing.T) {
	m, err := NewMixer()
	if !errors.Is(err, ErrNoGroups) || m != nil {
		t.Fatalf("got (%v, %v), want ErrNoGroups", m, err)
	}
}

func TestMixerSingleGroupIsExact(t *testing.T) {
	m, err := NewMixer(tremolo(t))
	expectNoError(t, err)
	ref := tremolo(t)

	for i := uint64(0); i < 96000; i += 13 {
		if got, want := m.Next(i), ref.Next(i); got != want {
			t.Fatalf("tick %d: mixer %v, group %v", i, got, want)
		}
	}
}

func TestMixerIsMean(t *testing.T) {
	m, err := NewMixer(
		synth.NewGroup(generator(t, synth.Sine, 440)),
		synth.NewGroup(generator(t, synth.Saw, 100)),
		synth.NewGroup(generator(t, synth.Square, 3), generator(t, synth.Sine, 2)),
	)
	expectNoError(t, err)

	refs := []*synth.Group{
		synth.NewGroup(generator(t, synth.Sine, 440)),
		synth.NewGroup(generator(t, synth.Saw, 100)),
		synth.NewGroup(generator(t, synth.Square, 3), generator(t, synth.Sine, 2)),
	}
	for i := uint64(0); i < 48000; i++ {
		sum := 0.0
		for _, g := range refs {
			sum += g.Next(i)
		}
		want := sum / 3
		if got := m.Next(i); got != want {
			t.Fatalf("tick %d: got %v want %v", i, got, want)
		}
	}
}

func TestMixerStreamer(t *testing.T) {
	m, err := NewMixer(synth.NewGroup(generator(t, synth.Saw, 480)))
	expectNoError(t, err)
	ref := generator(t, synth.Saw, 480)

	s := m.Streamer()
	buf := make([][2]float64, 150)
	for chunk := 0; chunk < 3; chunk++ {
		n, ok := s.Stream(buf)
		if n != len(buf) || !ok {
			t.Fatalf("Stream = (%d, %v)", n, ok)
		}
		for i, frame := range buf {
			want := ref.Next(uint64(chunk*len(buf) + i))
			if frame[0] != want || frame[1] != want {
				t.Fatalf("chunk %d frame %d: got %v want %v", chunk, i, frame, want)
			}
		}
	}
	expectNoError(t, s.Err())
}
