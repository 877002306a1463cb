package kde

import "math"

type Kernel interface {
	NormalReferenceConstant() float64
}

// GaussianKernel is the standard normal kernel scaled by the bandwidth h.
type GaussianKernel struct {
	l2Norm                  float64
	kernelVar               float64
	order                   int
	normalReferenceConstant float64
	h                       float64
}

func NewGaussianKernel() *GaussianKernel {
	return &GaussianKernel{
		l2Norm:    1.0 / (2.0 * math.Sqrt(math.Pi)),
		kernelVar: 1.0,
		order:     2,
		h:         1.0,
	}
}

func (k *GaussianKernel) SetH(h float64) {
	k.h = h
}

func (k *GaussianKernel) Shape(x float64) float64 {
	return 0.3989422804014327 * math.Exp(-x*x/2.0)
}

// NormalReferenceConstant is about 1.059 for the gaussian kernel.
func (k *GaussianKernel) NormalReferenceConstant() float64 {
	nu := k.order
	if k.normalReferenceConstant == 0 {
		// nu! = Gamma(nu+1)
		numerator := math.Pow(math.Pi, 0.5) * math.Pow(math.Gamma(float64(nu+1)), 3) * k.l2Norm
		denom := 2.0 * float64(nu) * math.Gamma(float64(2*nu+1)) * math.Pow(k.moment(nu), 2)
		k.normalReferenceConstant = 2 * math.Pow(numerator/denom, 1.0/float64(2*nu+1))
	}
	return k.normalReferenceConstant
}

func (k *GaussianKernel) moment(n int) float64 {
	switch n {
	case 1:
		return 0
	case 2:
		return k.kernelVar
	}
	return 1.0
}

// Density evaluates the estimate built on xs at x.
func (k *GaussianKernel) Density(xs []float64, x float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, xi := range xs {
		sum += k.Shape((xi - x) / k.h)
	}
	return sum / (k.h * float64(len(xs)))
}
