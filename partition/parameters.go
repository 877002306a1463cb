package partition

import (
	"fmt"
	"math"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/model"
	"go.uber.org/multierr"
)

// Parameters describe a splash in quanta: the total energy is roughly normal
// with mean EMean and std EStd truncated to [EMin, EMax], and every particle
// carries between PartSizeMin and PartSizeMax quanta.
type Parameters struct {
	EMean       int
	EStd        float64
	EMin        float64
	EMax        float64
	PartSizeMin int
	PartSizeMax int

	// integer totals considered
	MinNumber int
	MaxNumber int
	// particle counts reported
	NumPartsMin int
	NumPartsMax int
}

func NewParameters(eMean int, eStd, eMin, eMax float64, partSizeMin, partSizeMax int) (*Parameters, error) {
	var err error
	if eStd <= 0 || math.IsNaN(eStd) {
		err = multierr.Append(err, fmt.Errorf("std %v must be positive: %w", eStd, common.ErrorInvalidValue))
	}
	if !(eMin <= eMax) || eMin < 0 {
		err = multierr.Append(err, fmt.Errorf("energy range [%v, %v]: %w", eMin, eMax, common.ErrorInvalidValue))
	}
	if partSizeMin < 1 || partSizeMax < partSizeMin {
		err = multierr.Append(err, fmt.Errorf("part sizes [%d, %d]: %w", partSizeMin, partSizeMax, common.ErrorInvalidValue))
	}
	if err != nil {
		return nil, err
	}

	p := &Parameters{
		EMean:       eMean,
		EStd:        eStd,
		EMin:        eMin,
		EMax:        eMax,
		PartSizeMin: partSizeMin,
		PartSizeMax: partSizeMax,
		MinNumber:   int(math.Ceil(eMin)),
		MaxNumber:   int(math.Floor(eMax)),
		NumPartsMin: int(math.Ceil(eMin / float64(partSizeMax))),
		NumPartsMax: int(math.Floor(eMax / float64(partSizeMin))),
	}
	if p.MinNumber > p.MaxNumber {
		return nil, fmt.Errorf("no integer total in [%v, %v]: %w", eMin, eMax, common.ErrorDegenerateInput)
	}
	return p, nil
}

// ParametersFromSummary reads the analysis summary: N is the mean, the
// quantized std/min/max describe the total and kmin/kmax the particle sizes.
func ParametersFromSummary(s *model.Summary) (*Parameters, error) {
	return NewParameters(s.QuantumCount, s.QuantizedStd, s.QuantizedMin, s.QuantizedMax, s.KMin, s.KMax)
}
