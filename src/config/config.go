package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"tjweldon/opsynth/src/streams"
	"tjweldon/opsynth/src/synth"
	"tjweldon/opsynth/src/util"
)

var logger = util.Logger{}.Ctx("config")

var (
	ErrUnknownKind   = errors.New("config: unknown kind")
	ErrUndecodedKeys = errors.New("config: unknown keys")
)

// Config is the patch document: an ordered list of groups
type Config struct {
	Groups []Group `toml:"group"`
}

// Group is one source operator modulated by zero or more operators
type Group struct {
	Source    Operator   `toml:"source"`
	Operators []Operator `toml:"operators"`
}

// Operator declares one generator
type Operator struct {
	Frequency   float64  `toml:"frequency"`
	Kind        string   `toml:"op_kind"`
	PhaseOffset uint64   `toml:"phase_offset,omitempty"`
	Stepper     *Stepper `toml:"stepper,omitempty"`
}

// Stepper declares the sequencer of an operator. BPM defaults to 1.
type Stepper struct {
	BPM   *int64 `toml:"bpm,omitempty"`
	Steps []Step `toml:"steps"`
}

// Step is Nop, MulFreq or SetFreq; Value is the factor or the frequency
type Step struct {
	Kind  string  `toml:"kind"`
	Value float64 `toml:"value,omitempty"`
}

// Load reads and decodes a patch file
func Load(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, errors.Wrap(err, path)
	}

	logger.Vol(util.Normal).Log("loaded", path, "with", len(cfg.Groups), "groups")
	return &cfg, nil
}

// Parse decodes a patch held in memory
func Parse(doc string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "decode patch")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrapf(ErrUndecodedKeys, "%v", keys)
}

// Build validates the whole document and turns it into a mixer. Nothing is
// returned unless every group and operator is valid.
func (c *Config) Build() (*streams.Mixer, error) {
	logger := logger.Ctx("Build").Vol(util.Normal)

	groups := make([]*synth.Group, 0, len(c.Groups))
	for i, g := range c.Groups {
		group, err := g.build()
		if err != nil {
			return nil, errors.Wrapf(err, "group %d", i)
		}
		groups = append(groups, group)
	}

	mixer, err := streams.NewMixer(groups...)
	if err != nil {
		return nil, err
	}
	logger.Log("built graph:", c)
	return mixer, nil
}

func (g Group) build() (*synth.Group, error) {
	source, err := g.Source.build()
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}

	ops := make([]*synth.Generator, 0, len(g.Operators))
	for i, o := range g.Operators {
		op, err := o.build()
		if err != nil {
			return nil, errors.Wrapf(err, "operator %d", i)
		}
		ops = append(ops, op)
	}
	return synth.NewGroup(source, ops...), nil
}

func (o Operator) build() (*synth.Generator, error) {
	kind, ok := synth.ParseWaveKind(o.Kind)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "op_kind %q", o.Kind)
	}

	var seq *synth.Sequencer
	if o.Stepper != nil {
		var err error
		if seq, err = o.Stepper.build(); err != nil {
			return nil, errors.Wrap(err, "stepper")
		}
	}

	return synth.NewGenerator(kind, o.Frequency, o.PhaseOffset, seq)
}

func (s Stepper) build() (*synth.Sequencer, error) {
	tempo := synth.DefaultTempo
	if s.BPM != nil {
		if *s.BPM <= 0 {
			return nil, errors.Wrapf(synth.ErrInvalidTempo, "bpm %d must be positive", *s.BPM)
		}
		tempo = synth.Tempo(*s.BPM)
	}

	steps := make([]synth.Step, 0, len(s.Steps))
	for i, st := range s.Steps {
		step, err := st.build()
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		steps = append(steps, step)
	}
	return synth.NewSequencer(tempo, steps...)
}

func (s Step) build() (synth.Step, error) {
	switch {
	case strings.EqualFold(s.Kind, "Nop"):
		return synth.Nop(), nil
	case strings.EqualFold(s.Kind, "MulFreq"):
		return synth.MulFreq(s.Value), nil
	case strings.EqualFold(s.Kind, "SetFreq"):
		return synth.SetFreq(s.Value), nil
	default:
		return synth.Step{}, errors.Wrapf(ErrUnknownKind, "step kind %q", s.Kind)
	}
}

func (c *Config) String() string {
	return strings.Join(util.Map(Group.String, c.Groups), " + ")
}

func (g Group) String() string {
	ops := append([]Operator{g.Source}, g.Operators...)
	return strings.Join(util.Map(Operator.String, ops), " * ")
}

func (o Operator) String() string {
	s := fmt.Sprintf("%s(%g)", o.Kind, o.Frequency)
	if o.PhaseOffset != 0 {
		s += fmt.Sprintf("+%d", o.PhaseOffset)
	}
	if o.Stepper != nil {
		s += fmt.Sprintf("[%d steps]", len(o.Stepper.Steps))
	}
	return s
}
