package kde

const (
	DefaultGridSize = 200
	// grid reaches cut bandwidths past the extreme samples
	DefaultCut = 3.0

	// IQR of the standard normal
	iqrNormalize = 1.349

	cdfQuadNodes = 50
)
