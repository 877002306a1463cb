package dataset

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/model"
	"github.com/uyouii/splash-energy/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Quantile interpolates linearly between the closest ranks of sorted data,
// h = (n-1)*p. gonum's LinInterp uses a different estimator.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || p < 0 || p > 1 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func OutlierBounds(values []float64, lower, upper float64) (*model.OutlierBounds, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values: %w", common.ErrorDegenerateInput)
	}
	if !(lower >= 0 && lower <= upper && upper <= 1) {
		return nil, fmt.Errorf("quantiles %v/%v: %w", lower, upper, common.ErrorInvalidValue)
	}
	if floats.HasNaN(values) {
		return nil, fmt.Errorf("NaN velocity: %w", common.ErrorInvalidValue)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := Quantile(sorted, lower)
	q3 := Quantile(sorted, upper)
	iqr := q3 - q1
	return &model.OutlierBounds{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - IqrFenceFactor*iqr,
		Upper: q3 + IqrFenceFactor*iqr,
	}, nil
}

// DropVelocityOutliers removes camera rows whose velocity lies outside the
// bounds computed from the unfiltered column. It returns the kept table, the
// bounds, and the Row ids of dropped records.
func DropVelocityOutliers(ctx context.Context, table *model.SplashTable,
	lower, upper float64) (*model.SplashTable, *model.OutlierBounds, []int, error) {
	logger := utils.GetLogger(ctx)

	if !table.HasVelocity {
		return nil, nil, nil, fmt.Errorf("%v: column %q: %w", table.Name, ColumnVelocity, common.ErrorMissingColumn)
	}

	bounds, err := OutlierBounds(table.Velocities(), lower, upper)
	if err != nil {
		logger.Error("OutlierBounds failed", zap.String("table", table.Name), zap.Error(err))
		return nil, nil, nil, err
	}

	outliers := map[int]bool{}
	for _, r := range table.Records {
		if !bounds.Contains(r.Velocity) {
			outliers[r.Row] = true
		}
	}

	kept := make([]model.SplashRecord, 0, len(table.Records)-len(outliers))
	dropped := make([]int, 0, len(outliers))
	for _, r := range table.Records {
		if outliers[r.Row] {
			dropped = append(dropped, r.Row)
			continue
		}
		kept = append(kept, r)
	}

	logger.Info("velocity outliers dropped", zap.Any("bounds", bounds),
		zap.Int("dropped", len(dropped)), zap.Int("kept", len(kept)))
	return table.WithRecords(kept), bounds, dropped, nil
}
