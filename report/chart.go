package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/uyouii/splash-energy/model"
)

// WritePartitionChart renders the particle count distribution as an HTML bar chart.
func WritePartitionChart(w io.Writer, title string, dist []model.Probability) error {
	x := make([]string, 0, len(dist))
	y := make([]opts.BarData, 0, len(dist))
	for _, p := range dist {
		x = append(x, strconv.Itoa(p.No))
		y = append(y, opts.BarData{Value: p.Prob})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Particles per splash", Width: "1000px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Particles per splash", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "particles", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "probability"}),
	)
	bar.SetXAxis(x).AddSeries("prob", y)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render partition chart: %w", err)
	}
	return nil
}
