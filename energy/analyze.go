package energy

import (
	"context"
	"fmt"

	"github.com/uyouii/splash-energy/dataset"
	"github.com/uyouii/splash-energy/model"
	"github.com/uyouii/splash-energy/utils"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

type Request struct {
	CameraPath      string
	StickyPaperPath string
	QuantumCount    int
	IncludeParts    bool
	Options         Options
}

// Analyze runs the pipeline on the files named in req. Any failure aborts the
// run; no partial analysis is returned.
func Analyze(ctx context.Context, req *Request, src rand.Source) (res *model.Analysis, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Analyze recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("analyze panic: %v", r)
		}
	}()

	splashes, err := dataset.LoadSplashes(ctx, req.CameraPath, req.StickyPaperPath)
	if err != nil {
		return nil, err
	}
	return AnalyzeSplashes(ctx, splashes, req, src)
}

// AnalyzeSplashes runs every stage after loading. The camera table in
// splashes is replaced by its filtered version.
func AnalyzeSplashes(ctx context.Context, splashes *dataset.Splashes, req *Request,
	src rand.Source) (*model.Analysis, error) {
	logger := utils.GetLogger(ctx)
	opts := req.Options

	cameraRows := len(splashes.Camera.Records)
	filtered, bounds, dropped, err := dataset.DropVelocityOutliers(ctx, splashes.Camera,
		opts.LowerQuantile, opts.UpperQuantile)
	if err != nil {
		return nil, err
	}
	splashes.Camera = filtered

	ratio, err := CardinalityRatio(ctx, splashes.Camera, splashes.StickyPaper, opts, src)
	if err != nil {
		logger.Error("CardinalityRatio failed", zap.Error(err))
		return nil, err
	}

	stats, err := Aggregate(splashes.Camera, opts.HSCSplashes)
	if err != nil {
		logger.Error("Aggregate failed", zap.Error(err))
		return nil, err
	}
	logger.Info("energy aggregated", zap.Float64("mean", stats.Mean), zap.Float64("std", stats.Std),
		zap.Float64("particle_min", stats.ParticleMin), zap.Float64("particle_max", stats.ParticleMax))

	quantized, err := Quantize(stats, ratio, req.QuantumCount)
	if err != nil {
		logger.Error("Quantize failed", zap.Error(err), zap.Int("n", req.QuantumCount))
		return nil, err
	}
	logger.Info("energy quantized", zap.Float64("quantum_size", quantized.QuantumSize),
		zap.Int("kmin", quantized.KMin), zap.Int("kmax", quantized.KMax))

	return &model.Analysis{
		CameraRows:  cameraRows,
		DroppedRows: dropped,
		Bounds:      *bounds,
		Ratio:       *ratio,
		Energy:      *stats,
		Quantized:   *quantized,
		Summary:     *model.NewSummary(quantized, req.IncludeParts),
	}, nil
}
