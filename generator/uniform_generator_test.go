package generator

import (
	"strconv"
	"testing"

	"github.com/hhkbp2/testify/require"
)

func TestUniformIntegerGenerator(t *testing.T) {
	lowerBound := int64(1000)
	upperBound := int64(2000)
	var g IntegerGenerator
	uig := NewUniformIntegerGenerator(lowerBound, upperBound)
	g = uig
	total := 100
	for i := 0; i < total; i++ {
		last := g.NextInt()
		require.True(t, last >= lowerBound && last <= upperBound)
		require.Equal(t, last, g.LastInt())
		str := g.NextString()
		v, err := strconv.ParseInt(str, 0, 64)
		require.Nil(t, err)
		require.True(t, v >= lowerBound && v <= upperBound)
		require.Equal(t, float64(lowerBound+upperBound)/2.0, g.Mean())
	}
}

func TestUniformIntegerGeneratorCoversBounds(t *testing.T) {
	uig := NewUniformIntegerGenerator(0, 3)
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		seen[uig.NextInt()] = true
	}
	for v := int64(0); v <= 3; v++ {
		require.True(t, seen[v])
	}
}
