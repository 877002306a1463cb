package energy

import (
	"fmt"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/dataset"
)

type Options struct {
	SampleCount   int
	HSCSplashes   int
	SPSplashes    int
	LowerQuantile float64
	UpperQuantile float64
}

func DefaultOptions() Options {
	return Options{
		SampleCount:   DefaultSampleCount,
		HSCSplashes:   HSCSplashes,
		SPSplashes:    SPSplashes,
		LowerQuantile: dataset.DefaultLowerQuantile,
		UpperQuantile: dataset.DefaultUpperQuantile,
	}
}

func (o Options) validateSplashes() error {
	if o.HSCSplashes <= 0 || o.SPSplashes <= 0 {
		return fmt.Errorf("splash counts %d/%d: %w", o.HSCSplashes, o.SPSplashes, common.ErrorInvalidValue)
	}
	return nil
}
