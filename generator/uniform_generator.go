package generator

import (
	"math/rand"
)

// UniformIntegerGenerator generates integers uniformly distributed in
// [lowerBound, upperBound], both inclusive. Each instance carries its own
// random source and must not be shared between goroutines.
type UniformIntegerGenerator struct {
	*IntegerGeneratorBase
	lowerBound int64
	upperBound int64
	random     *rand.Rand
}

func NewUniformIntegerGenerator(lowerBound, upperBound int64) *UniformIntegerGenerator {
	return &UniformIntegerGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(lowerBound),
		lowerBound:           lowerBound,
		upperBound:           upperBound,
		random:               NewSource(),
	}
}

func (self *UniformIntegerGenerator) NextInt() int64 {
	ret := self.lowerBound + self.random.Int63n(self.upperBound-self.lowerBound+1)
	self.SetLastInt(ret)
	return ret
}

func (self *UniformIntegerGenerator) NextString() string {
	return self.IntegerGeneratorBase.NextString(self)
}

func (self *UniformIntegerGenerator) Mean() float64 {
	return float64(self.lowerBound+self.upperBound) / 2.0
}
