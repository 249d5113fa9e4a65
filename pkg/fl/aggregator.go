package fl

import (
	"fmt"
	"math"
)

type FedAvgAggregator struct{}

func NewFedAvgAggregator() Aggregator {
	return &FedAvgAggregator{}
}

// Aggregate returns the sample-size weighted average of the updates:
// sum of u.Weights * WeightFactors[i]. Every partial sum stays within the
// largest input magnitude, so finite inputs give a finite result.
func (f *FedAvgAggregator) Aggregate(updates []Update, shape Shape) (Result, error) {
	if len(updates) == 0 {
		return Result{}, ErrNoUpdates
	}

	for i, u := range updates {
		if err := CheckShape(u.Weights, u.Bias, shape); err != nil {
			return Result{}, fmt.Errorf("update %d: %w", i, err)
		}
	}

	total, err := TotalSamples(updates)
	if err != nil {
		return Result{}, err
	}

	factors, err := WeightFactors(updates)
	if err != nil {
		return Result{}, err
	}

	weights := NewMatrix(shape)
	bias := NewVector(shape)
	for i, u := range updates {
		if factors[i] == 0 {
			continue
		}
		for r := range weights {
			axpy(weights[r], u.Weights[r], factors[i])
		}
		axpy(bias, u.Bias, factors[i])
	}

	if !weights.Finite() || !bias.Finite() {
		return Result{}, ErrNonFiniteResult
	}

	return Result{
		Weights:      weights,
		Bias:         bias,
		TotalSamples: total,
		NumUpdates:   len(updates),
	}, nil
}

// TotalSamples sums the sample sizes of a batch.
func TotalSamples(updates []Update) (int64, error) {
	var total int64
	for _, u := range updates {
		if u.SampleSize < 0 {
			return 0, fmt.Errorf("%w: negative sample size %d", ErrDegenerateAggregation, u.SampleSize)
		}
		if total > math.MaxInt64-int64(u.SampleSize) {
			return 0, fmt.Errorf("%w: sample count overflow", ErrDegenerateAggregation)
		}
		total += int64(u.SampleSize)
	}
	if total == 0 {
		return 0, ErrDegenerateAggregation
	}

	return total, nil
}

// WeightFactors returns SampleSize/total for every update, in order.
func WeightFactors(updates []Update) ([]float64, error) {
	total, err := TotalSamples(updates)
	if err != nil {
		return nil, err
	}

	factors := make([]float64, len(updates))
	for i, u := range updates {
		factors[i] = float64(u.SampleSize) / float64(total)
	}

	return factors, nil
}
