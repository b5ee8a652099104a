package sim

import "errors"

var (
	ErrNoSuchPanel  = errors.New("sim: no such panel")
	ErrInvalidSteps = errors.New("sim: steps must be positive")
)
