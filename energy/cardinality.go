package energy

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/kde"
	"github.com/uyouii/splash-energy/model"
	"github.com/uyouii/splash-energy/utils"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// NewSource returns a seeded source; seed 0 derives one from the clock.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewSource(seed)
}

// CardinalityRatio estimates the ratio between the number of beads in
// HSCSplashes randomly chosen sticky paper splashes and the number of
// particles in all camera splashes. Each trial draws distinct splashes.
func CardinalityRatio(ctx context.Context, hsc, sp *model.SplashTable, opts Options,
	src rand.Source) (*model.CardinalityRatio, error) {
	logger := utils.GetLogger(ctx)

	if err := opts.validateSplashes(); err != nil {
		return nil, err
	}
	if opts.SampleCount <= 0 {
		return nil, fmt.Errorf("sample count %d: %w", opts.SampleCount, common.ErrorDegenerateInput)
	}
	if opts.SPSplashes < opts.HSCSplashes {
		return nil, fmt.Errorf("cannot draw %d of %d sticky paper splashes: %w",
			opts.HSCSplashes, opts.SPSplashes, common.ErrorDegenerateInput)
	}

	hscTotal := 0
	for _, size := range hsc.GroupSizes(opts.HSCSplashes) {
		hscTotal += size
	}
	if hscTotal == 0 {
		return nil, fmt.Errorf("no camera particles: %w", common.ErrorDegenerateInput)
	}
	spCardinalities := sp.GroupSizes(opts.SPSplashes)

	idxs := make([]int, opts.HSCSplashes)
	samples := make([]float64, opts.SampleCount)
	for i := range samples {
		sampleuv.WithoutReplacement(idxs, len(spCardinalities), src)
		sum := 0
		for _, idx := range idxs {
			sum += spCardinalities[idx]
		}
		samples[i] = float64(sum) / float64(hscTotal)
	}

	mean, std := stat.PopMeanStdDev(samples, nil)
	if math.IsNaN(mean) {
		return nil, fmt.Errorf("ratio mean is NaN: %w", common.ErrorDegenerateInput)
	}

	band := ratioBand(ctx, samples)

	logger.Info("cardinality ratio sampled", zap.Int("hsc_total", hscTotal),
		zap.Ints("sp_cardinalities", spCardinalities), zap.Int("samples", opts.SampleCount),
		zap.Float64("mean", mean), zap.Float64("std", std), zap.Any("band", band))

	return &model.CardinalityRatio{
		HSCTotal:        hscTotal,
		SPCardinalities: spCardinalities,
		Mean:            mean,
		Std:             std,
		Band:            band,
		Samples:         samples,
	}, nil
}

// ratioBand smooths the samples with a kernel density estimate and returns
// its RatioBandLower..RatioBandUpper quantiles, rounded to 4 places.
func ratioBand(ctx context.Context, samples []float64) *model.Interval {
	logger := utils.GetLogger(ctx)

	estimate, err := kde.NewKDEUnivariate(samples, 1, 0)
	if err != nil {
		logger.Debug("ratio band skipped", zap.Error(err))
		return nil
	}
	band, err := estimate.Interval(RatioBandLower, RatioBandUpper)
	if err != nil {
		logger.Debug("ratio band skipped", zap.Error(err))
		return nil
	}
	band.Lower.Value = utils.FormatFloat(band.Lower.Value, 4)
	band.Upper.Value = utils.FormatFloat(band.Upper.Value, 4)
	return band
}
