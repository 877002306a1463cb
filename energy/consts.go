package energy

const (
	// HSCSplashes is the number of splashes recorded by the high-speed camera.
	HSCSplashes = 16
	// SPSplashes is the number of splashes collected on sticky paper.
	SPSplashes = 48

	DefaultSampleCount = 1000

	RatioBandLower = 0.05
	RatioBandUpper = 0.95
)
