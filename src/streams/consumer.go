package streams

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"

	"tjweldon/opsynth/src/ring_buffers"
	"tjweldon/opsynth/src/util"
)

// DefaultUnderrunThreshold is how long the consumer can starve before it says so
const DefaultUnderrunThreshold = 100 * time.Millisecond

// Stats counts consumer pulls by outcome
type Stats struct {
	Reads     uint64
	Underruns uint64
}

// Consumer is the real-time end of the pipeline. Next never blocks: when
// the channel is empty it returns silence and keeps track of how long the
// starvation has lasted.
type Consumer struct {
	Properties

	in        *ring_buffers.Consumer
	threshold time.Duration
	now       func() time.Time
	warn      func(starved time.Duration)
	fault     func(err error)

	lastRead time.Time
	lastWarn time.Time

	reads     atomic.Uint64
	underruns atomic.Uint64
}

func NewConsumer(in *ring_buffers.Consumer, threshold time.Duration) *Consumer {
	logger := logger.Ctx("Consumer").Vol(util.Loud)
	c := &Consumer{
		in:        in,
		threshold: threshold,
		now:       time.Now,
		warn: func(starved time.Duration) {
			logger.Log("underrun, no samples for", starved)
		},
		fault: func(err error) {
			logger.Log("release:", err)
		},
	}
	c.lastRead = c.now()
	return c
}

// Next returns the oldest sample in the channel, or 0 if there is none
func (c *Consumer) Next() float32 {
	region := c.in.Read()
	if len(region) < ring_buffers.SampleWidth {
		c.release(0)
		c.underrun()
		return 0
	}

	v := math.Float32frombits(binary.LittleEndian.Uint32(region))
	c.release(ring_buffers.SampleWidth)
	c.reads.Add(1)
	c.lastRead = c.now()
	return v
}

// release hands n bytes of the region Read just returned back to the
// producer. n never exceeds that region, so an error here is a broken
// channel and gets reported rather than dropped.
func (c *Consumer) release(n int) {
	if err := c.in.Release(n); err != nil {
		c.fault(err)
	}
}

// underrun records one silent sample. Starvation is timed from the last
// successful read, or from construction if nothing was ever read. The
// warning repeats at most once per threshold while it lasts.
func (c *Consumer) underrun() {
	c.underruns.Add(1)
	now := c.now()

	starved := now.Sub(c.lastRead)
	if starved < c.threshold || now.Sub(c.lastWarn) < c.threshold {
		return
	}
	c.lastWarn = now
	c.warn(starved)
}

// Stream implements beep.Streamer so the consumer can be handed to the speaker
func (c *Consumer) Stream(samples [][2]float64) (n int, ok bool) {
	fillMono(samples, func() float64 { return float64(c.Next()) })
	return len(samples), true
}

func (c *Consumer) Err() error { return nil }

// Stats is safe to call from any goroutine
func (c *Consumer) Stats() Stats {
	return Stats{Reads: c.reads.Load(), Underruns: c.underruns.Load()}
}
