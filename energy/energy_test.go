package energy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/dataset"
	"github.com/uyouii/splash-energy/model"
)

// splashTable builds a table with perSplash[i] records for splash i.
func splashTable(name string, perSplash []int, energy float64) *model.SplashTable {
	records := []model.SplashRecord{}
	for splash, n := range perSplash {
		for j := 0; j < n; j++ {
			records = append(records, model.SplashRecord{
				Row:      len(records),
				Splash:   splash,
				Velocity: 1,
				Energy:   energy,
			})
		}
	}
	return model.NewSplashTable(name, true, records)
}

func repeat(v, n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = v
	}
	return res
}

func TestCardinalityRatio_Constant(t *testing.T) {
	hsc := splashTable(dataset.CameraTableName, repeat(1, HSCSplashes), 10)
	sp := splashTable(dataset.StickyPaperTableName, repeat(2, SPSplashes), 1)

	ratio, err := CardinalityRatio(context.Background(), hsc, sp, DefaultOptions(), NewSource(1))
	require.NoError(t, err)
	assert.Equal(t, 16, ratio.HSCTotal)
	assert.Len(t, ratio.SPCardinalities, SPSplashes)
	assert.Equal(t, 2.0, ratio.Mean)
	assert.Equal(t, 0.0, ratio.Std)
	assert.Len(t, ratio.Samples, DefaultSampleCount)
	assert.Nil(t, ratio.Band)
}

func TestCardinalityRatio_SeededAndBounded(t *testing.T) {
	spSizes := make([]int, SPSplashes)
	for i := range spSizes {
		spSizes[i] = i%5 + 1
	}
	hsc := splashTable(dataset.CameraTableName, repeat(2, HSCSplashes), 1)
	sp := splashTable(dataset.StickyPaperTableName, spSizes, 1)
	opts := DefaultOptions()
	opts.SampleCount = 200

	first, err := CardinalityRatio(context.Background(), hsc, sp, opts, NewSource(42))
	require.NoError(t, err)
	second, err := CardinalityRatio(context.Background(), hsc, sp, opts, NewSource(42))
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed gave different results (-first +second):\n%s", diff)
	}

	// Each ratio lies between the 16 smallest and the 16 largest splashes over 32 particles.
	lowest, highest := 0.0, 0.0
	sorted := append([]int(nil), spSizes...)
	sort.Ints(sorted)
	for i := 0; i < HSCSplashes; i++ {
		lowest += float64(sorted[i])
		highest += float64(sorted[len(sorted)-1-i])
	}
	for _, s := range first.Samples {
		assert.GreaterOrEqual(t, s, lowest/32)
		assert.LessOrEqual(t, s, highest/32)
	}
	assert.Greater(t, first.Std, 0.0)

	require.NotNil(t, first.Band)
	assert.Less(t, first.Band.Lower.Value, first.Mean)
	assert.Greater(t, first.Band.Upper.Value, first.Mean)
}

func TestCardinalityRatio_Degenerate(t *testing.T) {
	hsc := splashTable(dataset.CameraTableName, repeat(1, HSCSplashes), 1)
	sp := splashTable(dataset.StickyPaperTableName, repeat(1, SPSplashes), 1)

	tests := []struct {
		name string
		hsc  *model.SplashTable
		opts func(*Options)
	}{
		{"zero samples", hsc, func(o *Options) { o.SampleCount = 0 }},
		{"negative samples", hsc, func(o *Options) { o.SampleCount = -3 }},
		{"more camera than sticky paper splashes", hsc, func(o *Options) { o.SPSplashes = 10 }},
		{"no camera particles", splashTable(dataset.CameraTableName, nil, 1), func(o *Options) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.opts(&opts)
			_, err := CardinalityRatio(context.Background(), tt.hsc, sp, opts, NewSource(1))
			assert.ErrorIs(t, err, common.ErrorDegenerateInput)
		})
	}
}

func TestAggregate_OneParticlePerSplash(t *testing.T) {
	stats, err := Aggregate(splashTable(dataset.CameraTableName, repeat(1, HSCSplashes), 1.0), HSCSplashes)
	require.NoError(t, err)

	want := &model.EnergyStats{
		PerSplashSum: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		Mean:         1,
		Std:          0,
		Min:          1,
		Max:          1,
		ParticleMin:  1,
		ParticleMax:  1,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_SplashVersusParticleLevel(t *testing.T) {
	table := model.NewSplashTable(dataset.CameraTableName, true, []model.SplashRecord{
		{Row: 0, Splash: 0, Energy: 1},
		{Row: 1, Splash: 0, Energy: 9},
		{Row: 2, Splash: 1, Energy: 4},
		{Row: 3, Splash: 20, Energy: 100}, // outside the 16 splashes
	})
	stats, err := Aggregate(table, HSCSplashes)
	require.NoError(t, err)

	assert.Equal(t, 10.0, stats.PerSplashSum[0])
	assert.Equal(t, 4.0, stats.PerSplashSum[1])
	assert.Equal(t, 0.0, stats.PerSplashSum[15], "empty splash sums to zero")
	assert.Equal(t, 0.0, stats.Min)
	assert.Equal(t, 10.0, stats.Max)
	assert.Equal(t, 1.0, stats.ParticleMin)
	assert.Equal(t, 100.0, stats.ParticleMax)
	assert.InDelta(t, 14.0/16, stats.Mean, 1e-12)

	_, err = Aggregate(model.NewSplashTable("empty", true, nil), HSCSplashes)
	assert.ErrorIs(t, err, common.ErrorDegenerateInput)
}

func TestQuantize(t *testing.T) {
	stats := &model.EnergyStats{Mean: 12.5, Std: 3, Min: 7, Max: 19, ParticleMin: 2.5, ParticleMax: 4.9}
	ratio := &model.CardinalityRatio{Mean: 1.7, Std: 0.1}

	for _, n := range []int{10, 17, 50, 100} {
		q, err := Quantize(stats, ratio, n)
		require.NoError(t, err)
		assert.InDelta(t, q.ScaledMean, q.QuantizedMean*q.QuantumSize, 1e-9, "n=%d", n)
		assert.InDelta(t, float64(n), q.QuantizedMean, 1e-9)
		assert.InDelta(t, stats.Max*ratio.Mean, q.ScaledMax, 1e-12)
		assert.InDelta(t, stats.Std*ratio.Mean, q.ScaledStd, 1e-12)
	}

	q, err := Quantize(stats, ratio, 10)
	require.NoError(t, err)
	// quantum = 12.5*1.7/10 = 2.125
	assert.InDelta(t, 2.125, q.QuantumSize, 1e-12)
	assert.InDelta(t, 5.6, q.QuantizedMin, 1e-9)
	assert.InDelta(t, 15.2, q.QuantizedMax, 1e-9)
	assert.Equal(t, 1, q.KMin)
	assert.Equal(t, 3, q.KMax)
	// smallest total over largest quanta per particle, and the reverse
	assert.Equal(t, 2, q.PartsMin)
	assert.Equal(t, 15, q.PartsMax)
}

func TestQuantize_Errors(t *testing.T) {
	stats := &model.EnergyStats{Mean: 10, Min: 10, Max: 10, ParticleMin: 10, ParticleMax: 10}
	ratio := &model.CardinalityRatio{Mean: 2}

	_, err := Quantize(stats, ratio, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	// quantum 20/100 = 0.2, particle min 0.1 -> kmin 0
	small := *stats
	small.ParticleMin = 0.1
	_, err = Quantize(&small, ratio, 100)
	assert.ErrorIs(t, err, common.ErrorDegenerateInput)

	zero := *stats
	zero.Mean = 0
	_, err = Quantize(&zero, ratio, 5)
	assert.ErrorIs(t, err, common.ErrorDegenerateInput)
}

func writeCSV(t *testing.T, name, header string, rows []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyze_EndToEnd(t *testing.T) {
	cameraRows := []string{}
	for no := 1; no <= 16; no++ {
		cameraRows = append(cameraRows, fmt.Sprintf("%d,3.5,10.0", no))
	}
	stickyRows := []string{}
	for no := 1; no <= 48; no++ {
		stickyRows = append(stickyRows, fmt.Sprintf("%d,1", no), fmt.Sprintf("%d,1", no))
	}

	req := &Request{
		CameraPath:      writeCSV(t, "hsc.csv", "no,v,e", cameraRows),
		StickyPaperPath: writeCSV(t, "sp.csv", "no,e", stickyRows),
		QuantumCount:    5,
		Options:         DefaultOptions(),
	}

	res, err := Analyze(context.Background(), req, NewSource(7))
	require.NoError(t, err)

	assert.Equal(t, 16, res.CameraRows)
	assert.Empty(t, res.DroppedRows)
	assert.Equal(t, 16, res.Ratio.HSCTotal)
	assert.Equal(t, 2.0, res.Ratio.Mean)

	want := model.QuantizedEnergy{
		QuantumCount:  5,
		ScalingMean:   2,
		ScaledMean:    20,
		ScaledMin:     20,
		ScaledMax:     20,
		QuantumSize:   4,
		QuantizedMean: 5,
		QuantizedMin:  5,
		QuantizedMax:  5,
		KMin:          2,
		KMax:          3,
		PartsMin:      2,
		PartsMax:      2,
	}
	if diff := cmp.Diff(want, res.Quantized, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("quantized mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "5 0.0000 5.0000 5.0000 2 3", res.Summary.String())

	req.IncludeParts = true
	res, err = Analyze(context.Background(), req, NewSource(7))
	require.NoError(t, err)
	assert.Equal(t, "5 0.0000 5.0000 5.0000 2 3 2 2", res.Summary.String())
}

func TestAnalyze_MissingFile(t *testing.T) {
	req := &Request{
		CameraPath:      filepath.Join(t.TempDir(), "missing.csv"),
		StickyPaperPath: filepath.Join(t.TempDir(), "missing.csv"),
		QuantumCount:    5,
		Options:         DefaultOptions(),
	}
	_, err := Analyze(context.Background(), req, NewSource(1))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
