package energy

import (
	"fmt"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Aggregate sums particle energy per splash for indices 0..splashes-1 and
// describes those totals. ParticleMin/ParticleMax are taken over single
// particles, not over the totals.
func Aggregate(hsc *model.SplashTable, splashes int) (*model.EnergyStats, error) {
	if hsc.IsEmpty() {
		return nil, fmt.Errorf("%v has no rows: %w", hsc.Name, common.ErrorDegenerateInput)
	}
	if splashes <= 0 {
		return nil, fmt.Errorf("splash count %d: %w", splashes, common.ErrorInvalidValue)
	}

	sums := hsc.GroupEnergySums(splashes)
	mean, std := stat.PopMeanStdDev(sums, nil)
	energies := hsc.Energies()

	return &model.EnergyStats{
		PerSplashSum: sums,
		Mean:         mean,
		Std:          std,
		Min:          floats.Min(sums),
		Max:          floats.Max(sums),
		ParticleMin:  floats.Min(energies),
		ParticleMax:  floats.Max(energies),
	}, nil
}
