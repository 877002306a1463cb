package kde

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type BandWidth interface {
	BandWidth([]float64) float64
}

// NormalReferenceBandWidth is Silverman's rule of thumb.
type NormalReferenceBandWidth struct {
	kernel Kernel
}

func NewNormalReferenceBandWidth(kernel Kernel) *NormalReferenceBandWidth {
	if kernel == nil {
		kernel = NewGaussianKernel()
	}
	return &NormalReferenceBandWidth{
		kernel: kernel,
	}
}

func (bw *NormalReferenceBandWidth) BandWidth(x []float64) float64 {
	C := bw.kernel.NormalReferenceConstant()
	A := selectSigma(x)
	return C * A * math.Pow(float64(len(x)), -0.2)
}

// selectSigma is min(std, IQR/1.349), or std when the IQR is 0. x is sorted.
func selectSigma(x []float64) float64 {
	q75 := stat.Quantile(0.75, stat.Empirical, x, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, x, nil)
	iqr := (q75 - q25) / iqrNormalize

	stdDev := stat.StdDev(x, nil)

	if iqr > 0 && iqr < stdDev {
		return iqr
	}
	return stdDev
}
