package fl

import "time"

// Matrix is a dense row-major matrix of shape Features x Categories.
type Matrix [][]float64

// Vector holds one value per category.
type Vector []float64

type Shape struct {
	Features   int `json:"features"`
	Categories int `json:"categories"`
}

// Update is a validated client submission waiting in the buffer.
type Update struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id,omitempty"`
	Weights    Matrix    `json:"weights"`
	Bias       Vector    `json:"bias"`
	SampleSize int       `json:"sample_size"`
	ReceivedAt time.Time `json:"received_at"`
}

// Model is a versioned snapshot of the global model.
type Model struct {
	Weights Matrix `json:"weights"`
	Bias    Vector `json:"bias"`
	Version uint64 `json:"version"`
}

// Round describes one completed aggregation cycle.
type Round struct {
	ID           string    `json:"id"`
	Version      uint64    `json:"version"`
	NumUpdates   int       `json:"num_updates"`
	TotalSamples int64     `json:"total_samples"`
	ClientIDs    []string  `json:"client_ids,omitempty"`
	AggregatedAt time.Time `json:"aggregated_at"`
}

// Result is the output of one aggregation over a batch of updates.
type Result struct {
	Weights      Matrix
	Bias         Vector
	TotalSamples int64
	NumUpdates   int
}

type Aggregator interface {
	Aggregate(updates []Update, shape Shape) (Result, error)
}
