package examples

import (
	"sort"

	"github.com/pkg/errors"
	"tjweldon/opsynth/src/config"
	"tjweldon/opsynth/src/util"
)

var logger = util.Logger{Volume: util.Loud}.Ctx("examples/patches")

var ErrUnknownPatch = errors.New("examples: unknown patch")

// op is shorthand for an operator without phase offset or stepper
func op(kind string, freq float64) config.Operator {
	return config.Operator{Kind: kind, Frequency: freq}
}

func bpm(n int64) *int64 { return &n }

// patches are built fresh on every lookup since a built graph is mutated while it plays
var patches = map[string]func() config.Config{
	// A4 gated by a 2Hz square
	"tremolo": func() config.Config {
		return config.Config{Groups: []config.Group{
			{Source: op("Sine", 440), Operators: []config.Operator{op("Square", 2)}},
		}}
	},

	// an A minor arpeggio stepping every quarter second
	"arp": func() config.Config {
		lead := op("Sine", 220)
		lead.Stepper = &config.Stepper{
			BPM: bpm(15),
			Steps: []config.Step{
				{Kind: "SetFreq", Value: 220},
				{Kind: "SetFreq", Value: 261.63},
				{Kind: "SetFreq", Value: 329.63},
				{Kind: "SetFreq", Value: 440},
			},
		}
		return config.Config{Groups: []config.Group{{Source: lead}}}
	},

	// two detuned ramps over a sub sine
	"drone": func() config.Config {
		return config.Config{Groups: []config.Group{
			{Source: op("Saw", 110)},
			{Source: op("Saw", 110.5)},
			{Source: op("Sine", 55)},
		}}
	},

	// ring modulated sines, the modulator octave-jumping every second
	"ring": func() config.Config {
		mod := op("Sine", 150)
		mod.Stepper = &config.Stepper{
			BPM:   bpm(60),
			Steps: []config.Step{{Kind: "Nop"}, {Kind: "MulFreq", Value: 2}, {Kind: "Nop"}, {Kind: "MulFreq", Value: 0.5}},
		}
		offbeat := op("Square", 1)
		offbeat.PhaseOffset = 12000
		return config.Config{Groups: []config.Group{
			{Source: op("Sine", 330), Operators: []config.Operator{mod}},
			{Source: op("Sine", 495), Operators: []config.Operator{offbeat}},
		}}
	},
}

// Names lists the built-in patches in alphabetical order
func Names() []string {
	names := make([]string, 0, len(patches))
	for name := range patches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a fresh copy of the named patch
func Lookup(name string) (*config.Config, error) {
	patch, ok := patches[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPatch, "%q, want one of %v", name, Names())
	}

	cfg := patch()
	logger.Ctx("Lookup").Vol(util.Normal).Log("using built-in patch", name, ":", &cfg)
	return &cfg, nil
}
