package common

import "errors"

var (
	ErrorInvalidValue    = errors.New("invalid value")
	ErrorInvalidArgs     = errors.New("invalid arguments")
	ErrorMissingColumn   = errors.New("missing column")
	ErrorDegenerateInput = errors.New("degenerate input")
	ErrorAlreadyShifted  = errors.New("splash numbers already shifted")
)
