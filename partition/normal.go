package partition

import (
	"math/big"

	"gonum.org/v1/gonum/stat/distuv"
)

// DiscreteNormal spreads a normal distribution over the integers of
// [ceil(minValue), floor(maxValue)]. Integer i takes the mass of
// [i-0.5, i+0.5]; the end bins are cut at minValue and maxValue. Masses are
// renormalised to the truncated range. The result is indexed by integer.
func DiscreteNormal(mean, std, minValue, maxValue float64) map[int]*big.Float {
	normal := distuv.Normal{Mu: mean, Sigma: std}
	lo, hi := ceilInt(minValue), floorInt(maxValue)

	res := map[int]*big.Float{}
	if lo > hi {
		return res
	}
	if lo == hi {
		res[lo] = newFloat(1)
		return res
	}

	normalization := normal.CDF(maxValue) - normal.CDF(minValue)
	mass := func(a, b float64) *big.Float {
		if normalization <= 0 {
			// The truncated range lies far in a tail: treat it as uniform.
			return newFloat(1 / float64(hi-lo+1))
		}
		return newFloat((normal.CDF(b) - normal.CDF(a)) / normalization)
	}

	res[lo] = mass(minValue, float64(lo)+0.5)
	res[hi] = mass(float64(hi)-0.5, maxValue)
	for i := lo + 1; i < hi; i++ {
		res[i] = mass(float64(i)-0.5, float64(i)+0.5)
	}
	return res
}

func newFloat(v float64) *big.Float {
	return new(big.Float).SetPrec(floatPrec).SetFloat64(v)
}
