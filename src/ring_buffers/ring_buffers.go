package ring_buffers

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"tjweldon/opsynth/src/util"
)

// SampleWidth is the serialized size of one float32 sample
const SampleWidth = 4

// DefaultCapacity holds 4096 samples, about 85ms at 48kHz
const DefaultCapacity = 16384

var (
	ErrInvalidCapacity = errors.New("ring_buffers: capacity must be a positive multiple of the sample width")
	ErrAlreadySplit    = errors.New("ring_buffers: channel already split")
	ErrCommitTooLarge  = errors.New("ring_buffers: commit larger than grant")
	ErrReleaseTooLarge = errors.New("ring_buffers: release larger than read region")
)

// State is a snapshot of the channel for diagnostics
type State int

const (
	Empty State = iota
	PartiallyFilled
	RegionGranted
	Draining
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case PartiallyFilled:
		return "PartiallyFilled"
	case RegionGranted:
		return "RegionGranted"
	case Draining:
		return "Draining"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Channel is a single-producer single-consumer byte ring.
// Thread-Safety:
//   - Producer: one goroutine grants and commits
//   - Consumer: one goroutine reads and releases
//   - head is only stored by the consumer, tail only by the producer
//
// head and tail count bytes ever released and committed; they are never
// reduced modulo the capacity, so tail-head is always the fill level.
type Channel struct {
	buf  []byte
	head atomic.Uint64 // Read index
	tail atomic.Uint64 // Write index

	granted atomic.Bool
	reading atomic.Bool
	split   atomic.Bool
}

// NewChannel allocates a channel holding capacity bytes. The capacity has to
// be a multiple of SampleWidth so a sample never straddles the wrap point.
func NewChannel(capacity int) (*Channel, error) {
	if capacity < SampleWidth || capacity%SampleWidth != 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	return &Channel{buf: make([]byte, capacity)}, nil
}

// Split hands out the two ends of the channel. It succeeds once.
func (c *Channel) Split() (*Producer, *Consumer, error) {
	if !c.split.CompareAndSwap(false, true) {
		return nil, nil, ErrAlreadySplit
	}
	return &Producer{c: c}, &Consumer{c: c}, nil
}

func (c *Channel) Cap() int { return len(c.buf) }

// Len returns committed bytes not yet released
func (c *Channel) Len() int {
	return int(c.tail.Load() - c.head.Load())
}

// State is approximate when read from a third goroutine
func (c *Channel) State() State {
	switch {
	case c.reading.Load():
		return Draining
	case c.granted.Load():
		return RegionGranted
	case c.Len() == 0:
		return Empty
	default:
		return PartiallyFilled
	}
}

// Producer is the write end of a Channel
type Producer struct {
	c     *Channel
	grant int
}

// Grant returns the largest contiguous free region. It is empty when the
// channel is full. The region stays valid until Commit.
func (p *Producer) Grant() []byte {
	c := p.c
	tail := c.tail.Load()
	free := uint64(len(c.buf)) - (tail - c.head.Load())
	start := tail % uint64(len(c.buf))
	n := util.Min(free, uint64(len(c.buf))-start)

	p.grant = int(n)
	c.granted.Store(n > 0)
	return c.buf[start : start+n]
}

// Commit publishes the first n bytes of the last grant to the consumer
func (p *Producer) Commit(n int) error {
	defer p.c.granted.Store(false)
	grant := p.grant
	p.grant = 0
	if n < 0 || n > grant {
		return errors.Wrapf(ErrCommitTooLarge, "commit %d of %d", n, grant)
	}
	p.c.tail.Add(uint64(n))
	return nil
}

// Consumer is the read end of a Channel
type Consumer struct {
	c    *Channel
	read int
}

// Read returns the committed bytes that are contiguous in memory. It never
// blocks; an empty slice means the producer has not caught up.
func (r *Consumer) Read() []byte {
	c := r.c
	head := c.head.Load()
	used := c.tail.Load() - head
	start := head % uint64(len(c.buf))
	n := util.Min(used, uint64(len(c.buf))-start)

	r.read = int(n)
	c.reading.Store(n > 0)
	return c.buf[start : start+n]
}

// Release hands the first n bytes of the last read back to the producer
func (r *Consumer) Release(n int) error {
	defer r.c.reading.Store(false)
	read := r.read
	r.read = 0
	if n < 0 || n > read {
		return errors.Wrapf(ErrReleaseTooLarge, "release %d of %d", n, read)
	}
	r.c.head.Add(uint64(n))
	return nil
}
