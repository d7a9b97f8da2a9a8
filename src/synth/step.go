package synth

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// StepKind selects what a Step does to a generator's frequency
type StepKind int

const (
	StepNop StepKind = iota
	StepMulFreq
	StepSetFreq
)

func (k StepKind) String() string {
	switch k {
	case StepNop:
		return "Nop"
	case StepMulFreq:
		return "MulFreq"
	case StepSetFreq:
		return "SetFreq"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// Step is one entry of a Sequencer's cycle
type Step struct {
	Kind  StepKind
	Value float64
}

// Nop leaves the frequency alone
func Nop() Step { return Step{Kind: StepNop} }

// MulFreq multiplies the frequency by factor
func MulFreq(factor float64) Step { return Step{Kind: StepMulFreq, Value: factor} }

// SetFreq replaces the frequency with hz
func SetFreq(hz float64) Step { return Step{Kind: StepSetFreq, Value: hz} }

// Apply returns freq after the step
func (s Step) Apply(freq float64) float64 {
	switch s.Kind {
	case StepMulFreq:
		return freq * s.Value
	case StepSetFreq:
		return s.Value
	default:
		return freq
	}
}

// Validate rejects steps that would drive a frequency to zero, negative or non-finite values
func (s Step) Validate() error {
	switch s.Kind {
	case StepNop:
		return nil
	case StepMulFreq, StepSetFreq:
		if s.Value <= 0 || math.IsInf(s.Value, 0) || math.IsNaN(s.Value) {
			return errors.Wrapf(ErrInvalidStep, "%s value %v must be positive and finite", s.Kind, s.Value)
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidStep, "unknown step kind %d", int(s.Kind))
	}
}

func (s Step) String() string {
	if s.Kind == StepNop {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%g)", s.Kind, s.Value)
}
