package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned before planning starts when bounds,
	// parameters or endpoints cannot produce a meaningful search.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrSamplerExhausted is returned by a sampler that gave up drawing an
	// acceptable point.
	ErrSamplerExhausted = errors.New("sampler exhausted")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
