package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"tjweldon/opsynth/src/config"
	"tjweldon/opsynth/src/examples"
	"tjweldon/opsynth/src/ring_buffers"
	"tjweldon/opsynth/src/streams"
	"tjweldon/opsynth/src/util"
)

var logger = util.Logger{}.Ctx("main")

type args struct {
	Patch             string        `arg:"positional" default:"op.toml" help:"TOML patch describing the groups to play"`
	Example           string        `arg:"-e,--example" help:"play a built-in patch instead of a file"`
	Render            string        `arg:"-r,--render" help:"write a WAV file instead of playing"`
	Duration          time.Duration `arg:"-d,--duration" help:"how long to play or render; 0 plays until interrupted"`
	Buffer            int           `arg:"--buffer" default:"16384" help:"sample channel capacity in bytes"`
	Volume            float64       `arg:"--volume" default:"0" help:"output gain in powers of two"`
	Backoff           time.Duration `arg:"--backoff" default:"10ms" help:"producer sleep when the channel is full"`
	UnderrunThreshold time.Duration `arg:"--underrun-threshold" default:"100ms" help:"starvation time before an underrun is reported"`
	Verbosity         string        `arg:"-v,--verbosity" default:"Normal" help:"Silent, Quieter, Quiet, Normal, Loud, Louder or Loudest"`
}

func (args) Description() string {
	return fmt.Sprintf("opsynth plays a graph of modulated oscillators.\nbuilt-in patches: %v", examples.Names())
}

// defaultRenderDuration applies when --render is given without --duration
const defaultRenderDuration = 10 * time.Second

func main() {
	var a args
	arg.MustParse(&a)

	lv, err := util.ParseVolume(a.Verbosity)
	if err != nil {
		log.Fatal(err)
	}
	lv.FilterBelow()
	logger := logger.Vol(util.Normal)

	cfg, err := loadPatch(a)
	if err != nil {
		log.Fatal(err)
	}
	mixer, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}

	if a.Render != "" {
		if err := render(mixer, a); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := play(ctx, mixer, a); err != nil {
		log.Fatal(err)
	}
	logger.Log("main() ended.")
}

func loadPatch(a args) (*config.Config, error) {
	if a.Example != "" {
		return examples.Lookup(a.Example)
	}
	return config.Load(a.Patch)
}

// play streams the mixer to the default output device through the sample
// channel until ctx is done or the duration elapses
func play(ctx context.Context, mixer *streams.Mixer, a args) error {
	logger := logger.Ctx("play").Vol(util.Normal)

	ch, err := ring_buffers.NewChannel(a.Buffer)
	if err != nil {
		return err
	}
	out, in, err := ch.Split()
	if err != nil {
		return err
	}

	producer := streams.NewProducer(mixer, out)
	producer.Backoff = a.Backoff
	consumer := streams.NewConsumer(in, a.UnderrunThreshold)

	sr := consumer.SampleRate()
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	defer speaker.Close()

	if a.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Duration)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return producer.Run(ctx)
	})
	g.Go(func() error {
		// let the producer get ahead of the device before it starts pulling
		for ch.Len() < ch.Cap()/2 && ctx.Err() == nil {
			time.Sleep(time.Millisecond)
		}
		logger.Log("playing", a.Buffer, "byte channel at", sr, "Hz")
		speaker.Play(gain(consumer, a.Volume))
		<-ctx.Done()
		return nil
	})

	err = g.Wait()
	stats := consumer.Stats()
	logger.Log("played", stats.Reads, "samples with", stats.Underruns, "underruns, channel", ch.State())
	return err
}

// render writes the mixer straight to a WAV file, bypassing the channel
func render(mixer *streams.Mixer, a args) error {
	logger := logger.Ctx("render").Vol(util.Normal)

	d := a.Duration
	if d <= 0 {
		d = defaultRenderDuration
	}

	f, err := os.Create(a.Render)
	if err != nil {
		return err
	}
	defer f.Close()

	n := streams.Format.SampleRate.N(d)
	logger.Log("rendering", n, "samples to", a.Render)
	if err := wav.Encode(f, beep.Take(n, gain(mixer.Streamer(), a.Volume)), streams.Format); err != nil {
		return errors.Wrapf(err, "encode %s", a.Render)
	}
	return f.Close()
}

func gain(s beep.Streamer, volume float64) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: volume, Silent: false}
}
