package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/uyouii/splash-energy/kde"
	"github.com/uyouii/splash-energy/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	RatioPlotFile  = "cardinality_ratio.png"
	EnergyPlotFile = "splash_energy.png"

	ratioHistogramBins = 30
)

// WritePlots saves a histogram of the resampled ratios and a bar chart of the
// per-splash energy sums into dir. It returns the written paths.
func WritePlots(dir string, a *model.Analysis) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	written := []string{}
	if len(a.Ratio.Samples) > 0 {
		path := filepath.Join(dir, RatioPlotFile)
		if err := ratioPlot(path, a); err != nil {
			return written, fmt.Errorf("ratio plot: %w", err)
		}
		written = append(written, path)
	}

	path := filepath.Join(dir, EnergyPlotFile)
	if err := energyPlot(path, a); err != nil {
		return written, fmt.Errorf("energy plot: %w", err)
	}
	return append(written, path), nil
}

func ratioPlot(path string, a *model.Analysis) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("SP/HSC cardinality ratio (mean %.4f, std %.4f)", a.Ratio.Mean, a.Ratio.Std)
	p.X.Label.Text = "Ratio"
	p.Y.Label.Text = "Samples"

	hist, err := plotter.NewHist(plotter.Values(a.Ratio.Samples), ratioHistogramBins)
	if err != nil {
		return err
	}
	p.Add(hist)

	if a.Ratio.Band != nil {
		hist.Normalize(1)
		p.Y.Label.Text = "Density"
		p.Title.Text += fmt.Sprintf("\n%.0f%%-%.0f%% band [%.4f, %.4f]",
			a.Ratio.Band.Lower.Quantile*100, a.Ratio.Band.Upper.Quantile*100,
			a.Ratio.Band.Lower.Value, a.Ratio.Band.Upper.Value)
		if line, err := densityLine(a.Ratio.Samples); err == nil {
			p.Add(line)
		}
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

func densityLine(samples []float64) (*plotter.Line, error) {
	estimate, err := kde.NewKDEUnivariate(samples, 1, 0)
	if err != nil {
		return nil, err
	}
	density, _, err := estimate.Kdensity()
	if err != nil {
		return nil, err
	}
	xys := make(plotter.XYs, len(density))
	for i, d := range density {
		xys[i].X, xys[i].Y = d.X, d.Value
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{R: 200, A: 255}
	return line, nil
}

func energyPlot(path string, a *model.Analysis) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Energy per splash (mean %.4g)", a.Energy.Mean)
	p.X.Label.Text = "Splash"
	p.Y.Label.Text = "Energy"

	bars, err := plotter.NewBarChart(plotter.Values(a.Energy.PerSplashSum), vg.Points(12))
	if err != nil {
		return err
	}
	p.Add(bars)

	names := make([]string, len(a.Energy.PerSplashSum))
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	p.NominalX(names...)
	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}
