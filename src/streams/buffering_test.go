package streams

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"tjweldon/opsynth/src/ring_buffers"
	"tjweldon/opsynth/src/synth"
)

func pipeline(t *testing.T, capacity int, groups ...*synth.Group) (*ring_buffers.Channel, *Producer, *Consumer) {
	t.Helper()

	m, err := NewMixer(groups...)
	expectNoError(t, err)
	ch, err := ring_buffers.NewChannel(capacity)
	expectNoError(t, err)
	out, in, err := ch.Split()
	expectNoError(t, err)
	return ch, NewProducer(m, out), NewConsumer(in, DefaultUnderrunThreshold)
}

func TestFillUntilFull(t *testing.T) {
	ch, p, _ := pipeline(t, 64, tremolo(t))

	n, err := p.Fill()
	expectNoError(t, err)
	if n != 16 || p.Ticks() != 16 {
		t.Fatalf("first fill wrote %d samples, ticks %d", n, p.Ticks())
	}
	if ch.State() != ring_buffers.PartiallyFilled || ch.Len() != 64 {
		t.Fatalf("after fill: %v, %d bytes", ch.State(), ch.Len())
	}

	n, err = p.Fill()
	expectNoError(t, err)
	if n != 0 || p.Ticks() != 16 {
		t.Fatalf("fill on a full channel wrote %d samples, ticks %d", n, p.Ticks())
	}
}

func TestProducerConsumerRoundTrip(t *testing.T) {
	_, p, c := pipeline(t, 32, synth.NewGroup(generator(t, synth.Sine, 440)), tremolo(t))
	ref, err := NewMixer(synth.NewGroup(generator(t, synth.Sine, 440)), tremolo(t))
	expectNoError(t, err)

	var got, want []float32
	for tick := uint64(0); len(got) < 1000; {
		n, err := p.Fill()
		expectNoError(t, err)
		for i := 0; i < n; i++ {
			got = append(got, c.Next())
			want = append(want, float32(ref.Next(tick)))
			tick++
		}
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}
	if s := c.Stats(); s.Underruns != 0 || s.Reads != uint64(len(got)) {
		t.Fatalf("stats = %+v", s)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	_, p, c := pipeline(t, 64, tremolo(t))
	p.Backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var runErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = p.Run(ctx)
	}()

	// drain a few buffers' worth so the producer cycles through backoff and refill
	ref := tremolo(t)
	for i := uint64(0); i < 200; {
		s := c.Stats().Underruns
		v := c.Next()
		if c.Stats().Underruns != s {
			time.Sleep(time.Millisecond)
			continue
		}
		if want := float32(ref.Next(i)); v != want {
			t.Errorf("sample %d: got %v want %v", i, v, want)
		}
		i++
	}

	cancel()
	wg.Wait()
	expectNoError(t, runErr)
}
