package fl

import "errors"

var (
	ErrInvalidPayload        = errors.New("invalid update payload")
	ErrShapeMismatch         = errors.New("update shape does not match model shape")
	ErrInvalidSampleSize     = errors.New("sample size must be positive")
	ErrDegenerateAggregation = errors.New("total sample count is zero")
	ErrNoUpdates             = errors.New("no updates provided for aggregation")
	ErrNonFiniteResult       = errors.New("aggregated model contains non-finite values")
	ErrAggregationFailed     = errors.New("aggregation failed")
	ErrUnknownInitStrategy   = errors.New("unknown model init strategy")
)

// Kind returns the wire name of the error class err belongs to.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDegenerateAggregation):
		return "DegenerateAggregation"
	case errors.Is(err, ErrAggregationFailed):
		return "Internal"
	case errors.Is(err, ErrInvalidPayload):
		return "InvalidPayload"
	case errors.Is(err, ErrShapeMismatch):
		return "ShapeMismatch"
	case errors.Is(err, ErrInvalidSampleSize):
		return "InvalidSampleSize"
	default:
		return "Internal"
	}
}

// IsClientError reports whether err was caused by the submitted update itself.
func IsClientError(err error) bool {
	if errors.Is(err, ErrAggregationFailed) {
		return false
	}

	return errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrInvalidSampleSize)
}
