package streams

import (
	"context"
	"encoding/binary"
	"math"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"tjweldon/opsynth/src/ring_buffers"
	"tjweldon/opsynth/src/util"
)

// DefaultBackoff is how long the producer sleeps when the channel is full
const DefaultBackoff = 10 * time.Millisecond

// Producer renders the mixer into a sample channel as fast as the channel
// drains. It owns the mixer: nothing else may call Mixer.Next while it runs.
type Producer struct {
	Mixer   *Mixer
	Out     *ring_buffers.Producer
	Backoff time.Duration

	tick uint64
}

func NewProducer(mixer *Mixer, out *ring_buffers.Producer) *Producer {
	return &Producer{Mixer: mixer, Out: out, Backoff: DefaultBackoff}
}

// Ticks is the number of samples rendered so far, wrapping on overflow
func (p *Producer) Ticks() uint64 { return p.tick }

// Fill renders as many whole samples as fit in the largest free region and
// commits them. It returns the number of samples written, 0 if the channel
// is full.
func (p *Producer) Fill() (int, error) {
	region := p.Out.Grant()

	n := 0
	for ; n+ring_buffers.SampleWidth <= len(region); n += ring_buffers.SampleWidth {
		v := float32(p.Mixer.Next(p.tick))
		binary.LittleEndian.PutUint32(region[n:], math.Float32bits(v))
		p.tick++
	}

	if err := p.Out.Commit(n); err != nil {
		return 0, errors.Wrap(err, "commit samples")
	}
	return n / ring_buffers.SampleWidth, nil
}

// Run fills the channel until ctx is cancelled. When the channel is full it
// sleeps for Backoff and yields instead of spinning.
func (p *Producer) Run(ctx context.Context) error {
	logger := logger.Ctx("Producer.Run").Vol(util.Normal)
	quiet := logger.Vol(util.Quieter)

	backoff := time.NewTimer(p.Backoff)
	defer backoff.Stop()

	logger.Log("starting with", len(p.Mixer.Groups), "groups")
	for {
		select {
		case <-ctx.Done():
			logger.Log("stopped after", p.tick, "samples")
			return nil
		default:
		}

		written, err := p.Fill()
		if err != nil {
			return err
		}
		if written > 0 {
			continue
		}

		quiet.Log("channel full, backing off", p.Backoff)
		if !backoff.Stop() {
			select {
			case <-backoff.C:
			default:
			}
		}
		backoff.Reset(p.Backoff)
		select {
		case <-ctx.Done():
		case <-backoff.C:
		}
		runtime.Gosched()
	}
}
