package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/uyouii/splash-energy/common"
)

// OutlierBounds is the velocity window kept by the outlier filter.
type OutlierBounds struct {
	Q1    float64 `json:"q1" yaml:"q1"`
	Q3    float64 `json:"q3" yaml:"q3"`
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

func (b *OutlierBounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

type CardinalityRatio struct {
	HSCTotal        int       `json:"hsc_total" yaml:"hsc_total"`
	SPCardinalities []int     `json:"sp_cardinalities" yaml:"sp_cardinalities"`
	Mean            float64   `json:"mean" yaml:"mean"`
	Std             float64   `json:"std" yaml:"std"`
	// smoothed spread of the samples, nil when they do not vary
	Band    *Interval `json:"band,omitempty" yaml:"band,omitempty"`
	Samples []float64 `json:"-" yaml:"-"`
}

// CoeffOfVariation is Std/Mean.
func (r *CardinalityRatio) CoeffOfVariation() float64 {
	return r.Std / r.Mean
}

// EnergyStats holds per-splash totals and, separately, per-particle extremes.
type EnergyStats struct {
	PerSplashSum []float64 `json:"per_splash_sum" yaml:"per_splash_sum"`
	Mean         float64   `json:"mean" yaml:"mean"`
	Std          float64   `json:"std" yaml:"std"`
	Min          float64   `json:"min" yaml:"min"`
	Max          float64   `json:"max" yaml:"max"`
	ParticleMin  float64   `json:"particle_min" yaml:"particle_min"`
	ParticleMax  float64   `json:"particle_max" yaml:"particle_max"`
}

type QuantizedEnergy struct {
	QuantumCount int     `json:"quantum_count" yaml:"quantum_count"`
	ScalingMean  float64 `json:"scaling_mean" yaml:"scaling_mean"`
	ScalingStd   float64 `json:"scaling_std" yaml:"scaling_std"`

	ScaledMean float64 `json:"scaled_mean" yaml:"scaled_mean"`
	ScaledStd  float64 `json:"scaled_std" yaml:"scaled_std"`
	ScaledMin  float64 `json:"scaled_min" yaml:"scaled_min"`
	ScaledMax  float64 `json:"scaled_max" yaml:"scaled_max"`

	QuantumSize float64 `json:"quantum_size" yaml:"quantum_size"`

	QuantizedMean float64 `json:"quantized_mean" yaml:"quantized_mean"`
	QuantizedStd  float64 `json:"quantized_std" yaml:"quantized_std"`
	QuantizedMin  float64 `json:"quantized_min" yaml:"quantized_min"`
	QuantizedMax  float64 `json:"quantized_max" yaml:"quantized_max"`

	KMin     int `json:"kmin" yaml:"kmin"`
	KMax     int `json:"kmax" yaml:"kmax"`
	PartsMin int `json:"parts_min" yaml:"parts_min"`
	PartsMax int `json:"parts_max" yaml:"parts_max"`
}

// Summary is the single machine readable line closing every report.
type Summary struct {
	QuantumCount int     `json:"n" yaml:"n"`
	QuantizedStd float64 `json:"quantized_std" yaml:"quantized_std"`
	QuantizedMin float64 `json:"quantized_min" yaml:"quantized_min"`
	QuantizedMax float64 `json:"quantized_max" yaml:"quantized_max"`
	KMin         int     `json:"kmin" yaml:"kmin"`
	KMax         int     `json:"kmax" yaml:"kmax"`
	PartsMin     int     `json:"parts_min,omitempty" yaml:"parts_min,omitempty"`
	PartsMax     int     `json:"parts_max,omitempty" yaml:"parts_max,omitempty"`
	IncludeParts bool    `json:"-" yaml:"-"`
}

func NewSummary(q *QuantizedEnergy, includeParts bool) *Summary {
	return &Summary{
		QuantumCount: q.QuantumCount,
		QuantizedStd: q.QuantizedStd,
		QuantizedMin: q.QuantizedMin,
		QuantizedMax: q.QuantizedMax,
		KMin:         q.KMin,
		KMax:         q.KMax,
		PartsMin:     q.PartsMin,
		PartsMax:     q.PartsMax,
		IncludeParts: includeParts,
	}
}

func (s *Summary) String() string {
	res := fmt.Sprintf("%d %.4f %.4f %.4f %d %d", s.QuantumCount, s.QuantizedStd,
		s.QuantizedMin, s.QuantizedMax, s.KMin, s.KMax)
	if s.IncludeParts {
		res += fmt.Sprintf(" %d %d", s.PartsMin, s.PartsMax)
	}
	return res
}

// ParseSummary reads a summary line with 6 fields, or 8 when parts are included.
func ParseSummary(line string) (*Summary, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 && len(fields) != 8 {
		return nil, fmt.Errorf("summary %q has %d fields: %w", line, len(fields), common.ErrorInvalidValue)
	}

	ints := map[int]*int{}
	floats := map[int]*float64{}
	res := &Summary{IncludeParts: len(fields) == 8}
	ints[0], floats[1], floats[2], floats[3] = &res.QuantumCount, &res.QuantizedStd, &res.QuantizedMin, &res.QuantizedMax
	ints[4], ints[5], ints[6], ints[7] = &res.KMin, &res.KMax, &res.PartsMin, &res.PartsMax

	for i, field := range fields {
		if dst, ok := floats[i]; ok {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("summary field %d %q: %w", i, field, common.ErrorInvalidValue)
			}
			*dst = v
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("summary field %d %q: %w", i, field, common.ErrorInvalidValue)
		}
		*ints[i] = v
	}
	return res, nil
}

// Analysis bundles every stage output of one run.
type Analysis struct {
	RunID       string           `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	CameraRows  int              `json:"camera_rows" yaml:"camera_rows"`
	DroppedRows []int            `json:"dropped_rows" yaml:"dropped_rows"`
	Bounds      OutlierBounds    `json:"velocity_bounds" yaml:"velocity_bounds"`
	Ratio       CardinalityRatio `json:"ratio" yaml:"ratio"`
	Energy      EnergyStats      `json:"energy" yaml:"energy"`
	Quantized   QuantizedEnergy  `json:"quantized" yaml:"quantized"`
	Summary     Summary          `json:"summary" yaml:"summary"`
}

// Probability is one row of the particle count distribution.
type Probability struct {
	No   int     `json:"no" yaml:"no"`
	Prob float64 `json:"prob" yaml:"prob"`
	Text string  `json:"-" yaml:"-"` // full precision rendering
}
