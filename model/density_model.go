package model

type DensityPoint struct {
	X     float64 `json:"x" yaml:"x"`
	Value float64 `json:"value" yaml:"value"`
}

type QuantileValue struct {
	Quantile float64 `json:"q" yaml:"q"`
	Value    float64 `json:"v" yaml:"v"`
}

// Interval is a pair of quantiles of a smoothed distribution.
type Interval struct {
	Lower QuantileValue `json:"lower" yaml:"lower"`
	Upper QuantileValue `json:"upper" yaml:"upper"`
}

func (i *Interval) Width() float64 {
	return i.Upper.Value - i.Lower.Value
}
