package partition

const (
	// floatPrec is the big.Float mantissa size, about 100 decimal digits.
	floatPrec = 333

	OutputDigits = 10
)
