package generator

import (
	"math/rand"
)

type Pair struct {
	Weight float64
	Value  string
}

// DiscreteGenerator draws from a fixed set of string values with the
// configured relative weights. Weights need not sum to any particular
// total; only their ratio matters. Each instance carries its own random
// source and must not be shared between goroutines.
type DiscreteGenerator struct {
	values    []*Pair
	lastValue string
	random    *rand.Rand
}

func NewDiscreteGenerator() *DiscreteGenerator {
	return &DiscreteGenerator{
		values: make([]*Pair, 0),
		random: NewSource(),
	}
}

func (self *DiscreteGenerator) NextString() string {
	var sum float64
	for _, p := range self.values {
		sum += p.Weight
	}

	value := self.random.Float64()

	for _, p := range self.values {
		v := p.Weight / sum
		if value < v {
			self.lastValue = p.Value
			return p.Value
		}
		value -= v
	}
	// Float64() < 1, so the loop above always terminates with a value.
	panic("oops. should not get here")
}

func (self *DiscreteGenerator) LastString() string {
	if len(self.lastValue) == 0 {
		self.lastValue = self.NextString()
	}
	return self.lastValue
}

func (self *DiscreteGenerator) AddValue(weight float64, value string) {
	self.values = append(self.values, &Pair{
		Weight: weight,
		Value:  value,
	})
}
