package report

import (
	"fmt"
	"io"

	"github.com/uyouii/splash-energy/model"
)

// WriteText prints every intermediate statistic followed by the summary line.
func WriteText(w io.Writer, a *model.Analysis) error {
	e, r, q := a.Energy, a.Ratio, a.Quantized
	lines := []string{
		fmt.Sprintf("Velocity bounds = [%v, %v], dropped %d of %d rows", a.Bounds.Lower, a.Bounds.Upper,
			len(a.DroppedRows), a.CameraRows),
		fmt.Sprintf("Energy mean = %v, std = %v", e.Mean, e.Std),
		fmt.Sprintf("Energy min = %v, max = %v", e.Min, e.Max),
		fmt.Sprintf("Particle energy min = %v, max = %v", e.ParticleMin, e.ParticleMax),
		fmt.Sprintf("Scaling mean = %v, std = %v, coeff of var = %v", r.Mean, r.Std, r.CoeffOfVariation()),
		fmt.Sprintf("Scaled energy mean = %v, std = %v", q.ScaledMean, q.ScaledStd),
		fmt.Sprintf("Scaled energy min = %v, max = %v", q.ScaledMin, q.ScaledMax),
		fmt.Sprintf("Quant energy mean = %v, std = %v", q.QuantizedMean, q.QuantizedStd),
		fmt.Sprintf("Quant energy min = %v, max = %v", q.QuantizedMin, q.QuantizedMax),
		fmt.Sprintf("kmin = %v, kmax = %v", q.KMin, q.KMax),
		fmt.Sprintf("parts min = %v, max = %v", q.PartsMin, q.PartsMax),
		a.Summary.String(),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
