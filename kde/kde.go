package kde

import (
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// KDEUnivariate is a gaussian kernel density estimate of one sample.
type KDEUnivariate struct {
	// sorted copy of the sample
	Endog []float64

	gridSize int

	// bandwidth becomes bw * bwAdjust
	bwAdjust float64

	// the grid spans [min(x) - cut*bw, max(x) + cut*bw], clipped at 0
	cut float64

	density []model.DensityPoint
	cdf     []model.DensityPoint
	grid    []float64
	bw      float64
	fitted  bool
	kernel  *GaussianKernel
}

func NewKDEUnivariate(endog []float64, bwAdjust float64, cut float64) (*KDEUnivariate, error) {
	if len(endog) < 2 {
		return nil, fmt.Errorf("kde of %d values: %w", len(endog), common.ErrorInvalidValue)
	}
	sorted := append([]float64(nil), endog...)
	sort.Float64s(sorted)

	if bwAdjust <= 0 {
		bwAdjust = 1
	}
	if cut == 0 {
		cut = DefaultCut
	}

	return &KDEUnivariate{
		Endog:    sorted,
		gridSize: DefaultGridSize,
		bwAdjust: bwAdjust,
		cut:      cut,
	}, nil
}

// Kdensity evaluates the estimate on the grid and returns it with the
// bandwidth. A sample without spread has no bandwidth and is degenerate.
func (kde *KDEUnivariate) Kdensity() ([]model.DensityPoint, float64, error) {
	if kde.fitted {
		return kde.density, kde.bw, nil
	}

	kernel := NewGaussianKernel()
	bw := NewNormalReferenceBandWidth(kernel).BandWidth(kde.Endog) * kde.bwAdjust
	if !(bw > 0) || math.IsInf(bw, 0) {
		return nil, 0, fmt.Errorf("bandwidth %v: %w", bw, common.ErrorDegenerateInput)
	}
	kernel.SetH(bw)

	a := max(floats.Min(kde.Endog)-kde.cut*bw, 0)
	b := floats.Max(kde.Endog) + kde.cut*bw
	grid := floats.Span(make([]float64, kde.gridSize), a, b)

	res := make([]model.DensityPoint, 0, len(grid))
	for _, x := range grid {
		res = append(res, model.DensityPoint{X: x, Value: kernel.Density(kde.Endog, x)})
	}

	kde.density = res
	kde.bw = bw
	kde.grid = grid
	kde.kernel = kernel
	kde.fitted = true
	return res, bw, nil
}

// Cdf integrates the density over the grid cells.
func (kde *KDEUnivariate) Cdf() ([]model.DensityPoint, error) {
	if _, _, err := kde.Kdensity(); err != nil {
		return nil, err
	}
	if len(kde.cdf) > 0 {
		return kde.cdf, nil
	}

	f := func(x float64) float64 {
		return kde.kernel.Density(kde.Endog, x)
	}

	res := []model.DensityPoint{}
	lower, cumSum := 0.0, 0.0
	for _, x := range kde.grid {
		cumSum += quad.Fixed(f, lower, x, cdfQuadNodes, nil, 0)
		res = append(res, model.DensityPoint{X: x, Value: cumSum})
		lower = x
	}

	kde.cdf = res
	return res, nil
}

// Quantile inverts the cdf by linear interpolation between grid points.
func (kde *KDEUnivariate) Quantile(p float64) (*model.QuantileValue, error) {
	cdf, err := kde.Cdf()
	if err != nil {
		return nil, err
	}

	if p <= cdf[0].Value {
		return &model.QuantileValue{Quantile: p, Value: cdf[0].X}, nil
	}

	for i := 1; i < len(cdf); i++ {
		if cdf[i].Value > p {
			lowerX, lowerP := cdf[i-1].X, cdf[i-1].Value
			upperX, upperP := cdf[i].X, cdf[i].Value
			value := lowerX + (upperX-lowerX)*(p-lowerP)/(upperP-lowerP)
			return &model.QuantileValue{Quantile: p, Value: value}, nil
		}
	}
	return &model.QuantileValue{Quantile: p, Value: cdf[len(cdf)-1].X}, nil
}

func (kde *KDEUnivariate) Interval(lower, upper float64) (*model.Interval, error) {
	if !(lower < upper) {
		return nil, fmt.Errorf("interval [%v, %v]: %w", lower, upper, common.ErrorInvalidValue)
	}
	l, err := kde.Quantile(lower)
	if err != nil {
		return nil, err
	}
	u, err := kde.Quantile(upper)
	if err != nil {
		return nil, err
	}
	return &model.Interval{Lower: *l, Upper: *u}, nil
}
