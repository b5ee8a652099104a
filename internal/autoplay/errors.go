package autoplay

import "errors"

// ErrInvalidInterval indicates a zero or negative autoplay period.
var ErrInvalidInterval = errors.New("autoplay: interval must be positive")
