package energy

import (
	"fmt"
	"math"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/model"
)

// Quantize rescales the camera energy statistics by the sticky paper ratio
// and expresses them in quanta, a unit chosen so the scaled mean is exactly
// n quanta.
//
// The particle count bounds pair the smallest total with the largest quanta
// per particle and the largest total with the smallest quanta per particle.
func Quantize(stats *model.EnergyStats, ratio *model.CardinalityRatio, n int) (*model.QuantizedEnergy, error) {
	if n <= 0 {
		return nil, fmt.Errorf("quantum count %d: %w", n, common.ErrorInvalidValue)
	}

	res := &model.QuantizedEnergy{
		QuantumCount: n,
		ScalingMean:  ratio.Mean,
		ScalingStd:   ratio.Std,
		ScaledMean:   stats.Mean * ratio.Mean,
		ScaledStd:    stats.Std * ratio.Mean,
		ScaledMin:    stats.Min * ratio.Mean,
		ScaledMax:    stats.Max * ratio.Mean,
	}

	res.QuantumSize = res.ScaledMean / float64(n)
	if res.QuantumSize == 0 || math.IsNaN(res.QuantumSize) || math.IsInf(res.QuantumSize, 0) {
		return nil, fmt.Errorf("quantum size %v: %w", res.QuantumSize, common.ErrorDegenerateInput)
	}

	res.QuantizedMean = res.ScaledMean / res.QuantumSize
	res.QuantizedStd = res.ScaledStd / res.QuantumSize
	res.QuantizedMin = res.ScaledMin / res.QuantumSize
	res.QuantizedMax = res.ScaledMax / res.QuantumSize

	res.KMin = int(math.Floor(stats.ParticleMin / res.QuantumSize))
	res.KMax = int(math.Ceil(stats.ParticleMax / res.QuantumSize))
	if res.KMin <= 0 || res.KMax <= 0 {
		return nil, fmt.Errorf("quanta per particle kmin=%d kmax=%d: %w", res.KMin, res.KMax,
			common.ErrorDegenerateInput)
	}

	res.PartsMin = int(math.Ceil(res.QuantizedMin / float64(res.KMax)))
	res.PartsMax = int(math.Floor(res.QuantizedMax / float64(res.KMin)))
	return res, nil
}
