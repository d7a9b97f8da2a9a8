package synth

// Group is one modulation chain: the source multiplied by every operator in order
type Group struct {
	Source    *Generator
	Operators []*Generator
}

// NewGroup takes ownership of source and operators
func NewGroup(source *Generator, operators ...*Generator) *Group {
	return &Group{Source: source, Operators: operators}
}

// Next evaluates every generator exactly once for index
func (g *Group) Next(index uint64) float64 {
	acc := g.Source.Next(index)
	for _, op := range g.Operators {
		acc *= op.Next(index)
	}
	return acc
}
