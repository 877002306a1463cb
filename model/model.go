package model

import (
	"fmt"
	"math"

	"github.com/uyouii/splash-energy/common"
)

// SplashRecord is one CSV row: a particle seen by the camera or a bead found
// on the sticky paper.
type SplashRecord struct {
	Row      int     `json:"row" yaml:"row"` // 0-based data row in the source file
	Splash   int     `json:"no" yaml:"no"`
	Velocity float64 `json:"v,omitempty" yaml:"v,omitempty"`
	Energy   float64 `json:"e" yaml:"e"`
}

type SplashTable struct {
	Name        string
	HasVelocity bool
	Records     []SplashRecord

	shifted bool
}

func NewSplashTable(name string, hasVelocity bool, records []SplashRecord) *SplashTable {
	return &SplashTable{
		Name:        name,
		HasVelocity: hasVelocity,
		Records:     records,
	}
}

func (t *SplashTable) DebugString() string {
	return fmt.Sprintf("name: %v, rows: %v, shifted: %v", t.Name, len(t.Records), t.shifted)
}

func (t *SplashTable) IsEmpty() bool {
	if t == nil {
		return true
	}
	return len(t.Records) == 0
}

func (t *SplashTable) Shifted() bool {
	return t.shifted
}

// Shift re-indexes splashes from 1-based to 0-based. It may run only once.
func (t *SplashTable) Shift() error {
	if t.shifted {
		return fmt.Errorf("%v: %w", t.Name, common.ErrorAlreadyShifted)
	}
	for i := range t.Records {
		t.Records[i].Splash--
	}
	t.shifted = true
	return nil
}

// WithRecords returns a table sharing t's metadata but holding records.
func (t *SplashTable) WithRecords(records []SplashRecord) *SplashTable {
	return &SplashTable{
		Name:        t.Name,
		HasVelocity: t.HasVelocity,
		Records:     records,
		shifted:     t.shifted,
	}
}

// MinSplash returns the smallest splash index, or false for an empty table.
func (t *SplashTable) MinSplash() (int, bool) {
	if t.IsEmpty() {
		return 0, false
	}
	res := math.MaxInt
	for _, r := range t.Records {
		if r.Splash < res {
			res = r.Splash
		}
	}
	return res, true
}

// GroupSizes counts rows for splash indices 0..n-1. Rows outside that range
// are not counted.
func (t *SplashTable) GroupSizes(n int) []int {
	res := make([]int, n)
	for _, r := range t.Records {
		if r.Splash >= 0 && r.Splash < n {
			res[r.Splash]++
		}
	}
	return res
}

// GroupEnergySums sums the energy of rows for splash indices 0..n-1.
func (t *SplashTable) GroupEnergySums(n int) []float64 {
	res := make([]float64, n)
	for _, r := range t.Records {
		if r.Splash >= 0 && r.Splash < n {
			res[r.Splash] += r.Energy
		}
	}
	return res
}

func (t *SplashTable) Energies() []float64 {
	res := make([]float64, len(t.Records))
	for i, r := range t.Records {
		res[i] = r.Energy
	}
	return res
}

func (t *SplashTable) Velocities() []float64 {
	res := make([]float64, len(t.Records))
	for i, r := range t.Records {
		res[i] = r.Velocity
	}
	return res
}
