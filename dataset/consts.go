package dataset

const (
	ColumnSplash   = "no"
	ColumnVelocity = "v"
	ColumnEnergy   = "e"

	CameraTableName      = "high_speed_camera"
	StickyPaperTableName = "sticky_paper"

	// The filter fences sit at 1.5 IQR beyond the 20th and 80th percentiles.
	DefaultLowerQuantile = 0.20
	DefaultUpperQuantile = 0.80
	IqrFenceFactor       = 1.5
)
