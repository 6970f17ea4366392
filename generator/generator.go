package generator

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Generator generates a sequence of string values, following some
// distribution (uniform, weighted discrete, sequential, ...).
type Generator interface {
	NextString() string
	LastString() string
}

var (
	randomLock sync.Mutex
	random     = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NextInt64 returns a random value in [0, n) from the package-wide source.
// Safe for concurrent use; generators on a worker hot path should carry
// their own source instead.
func NextInt64(n int64) int64 {
	randomLock.Lock()
	defer randomLock.Unlock()
	return random.Int63n(n)
}

func NextFloat64() float64 {
	randomLock.Lock()
	defer randomLock.Unlock()
	return random.Float64()
}

// NewSource returns an independently seeded random source for a single
// goroutine's exclusive use.
func NewSource() *rand.Rand {
	randomLock.Lock()
	defer randomLock.Unlock()
	return rand.New(rand.NewSource(random.Int63()))
}

// IntegerGenerator is a generator capable of generating integers
// and their string forms.
type IntegerGenerator interface {
	Generator
	// NextInt returns the next value as an int64. Implementations must
	// call SetLastInt() so that LastInt() keeps working.
	NextInt() int64
	LastInt() int64

	Mean() float64
}

// IntegerGeneratorBase is the shared parent of all IntegerGenerator
// implementations.
type IntegerGeneratorBase struct {
	lastInt int64
}

func NewIntegerGeneratorBase(last int64) *IntegerGeneratorBase {
	return &IntegerGeneratorBase{
		lastInt: last,
	}
}

func (self *IntegerGeneratorBase) SetLastInt(value int64) {
	self.lastInt = value
}

func (self *IntegerGeneratorBase) NextString(g IntegerGenerator) string {
	return fmt.Sprintf("%d", g.NextInt())
}

func (self *IntegerGeneratorBase) LastInt() int64 {
	return self.lastInt
}

func (self *IntegerGeneratorBase) LastString() string {
	return fmt.Sprintf("%d", self.LastInt())
}

// ConstantIntegerGenerator is a trivial generator that always returns the
// same value.
type ConstantIntegerGenerator struct {
	*IntegerGeneratorBase
	value int64
}

func NewConstantIntegerGenerator(i int64) *ConstantIntegerGenerator {
	return &ConstantIntegerGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(i - 1),
		value:                i,
	}
}

func (self *ConstantIntegerGenerator) NextInt() int64 {
	return self.value
}

func (self *ConstantIntegerGenerator) NextString() string {
	return self.IntegerGeneratorBase.NextString(self)
}

func (self *ConstantIntegerGenerator) Mean() float64 {
	return float64(self.value)
}
