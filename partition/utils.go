package partition

import "math"

func ceilInt(v float64) int {
	return int(math.Ceil(v))
}

func floorInt(v float64) int {
	return int(math.Floor(v))
}
