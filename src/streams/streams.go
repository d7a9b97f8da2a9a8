package streams

import (
	"time"

	"github.com/faiface/beep"
	"tjweldon/opsynth/src/synth"
	"tjweldon/opsynth/src/util"
)

var logger = util.Logger{}.Ctx("streams")

// Format is what the pipeline declares to the audio backend: mono, 48kHz.
// Precision only matters when the stream is encoded to a file.
var Format = beep.Format{SampleRate: synth.SampleRate, NumChannels: 1, Precision: 2}

// Properties describes a stream that never ends and has no fixed frame size
type Properties struct{}

// Channels is always 1
func (Properties) Channels() int { return Format.NumChannels }

// SampleRate is always synth.SampleRate
func (Properties) SampleRate() beep.SampleRate { return Format.SampleRate }

// TotalDuration is unknown
func (Properties) TotalDuration() (time.Duration, bool) { return 0, false }

// CurrentFrameLen is unknown
func (Properties) CurrentFrameLen() (int, bool) { return 0, false }

// fillMono writes one mono value into both sides of a beep frame
func fillMono(samples [][2]float64, next func() float64) {
	for i := range samples {
		v := next()
		samples[i][0] = v
		samples[i][1] = v
	}
}
