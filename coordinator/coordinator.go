package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/absmach/fedcoord/pkg/fl"
)

const (
	StatusQueued     = "queued"
	StatusAggregated = "aggregated"

	DefMinUpdates  = 3
	DefFeatures    = 10
	DefCategories  = 5
	DefSampleSize  = 1
	DefInitScale   = 0.01
	DefInitMethod  = fl.InitRandom
	roundKeyFormat = "%020d"
)

var ErrInvalidConfig = errors.New("invalid coordinator configuration")

type Service interface {
	// SubmitUpdate validates an update, buffers it and aggregates the buffer
	// once it holds MinUpdates updates. The aggregation runs synchronously and
	// its new version is returned to the caller whose update completed the batch.
	SubmitUpdate(ctx context.Context, req UpdateRequest) (SubmitResult, error)

	// FetchModel returns a consistent copy of the current global model.
	FetchModel(ctx context.Context) (fl.Model, error)

	Status(ctx context.Context) (Status, error)

	ListRounds(ctx context.Context, offset, limit uint64) (RoundPage, error)
	GetRound(ctx context.Context, version uint64) (fl.Round, error)
}

// UpdateRequest is a decoded but not yet validated client submission.
// Weights and Bias are nil when absent from the payload.
type UpdateRequest struct {
	ClientID   string    `json:"client_id,omitempty"`
	Weights    fl.Matrix `json:"weights"`
	Bias       fl.Vector `json:"bias"`
	SampleSize *int      `json:"sample_size,omitempty"`
}

type SubmitResult struct {
	Status   string `json:"status"`
	Buffered int    `json:"buffered,omitempty"`
	Version  uint64 `json:"version,omitempty"`
}

type Status struct {
	Version    uint64   `json:"version"`
	Buffered   int      `json:"buffered"`
	MinUpdates int      `json:"min_updates"`
	Shape      fl.Shape `json:"shape"`
}

type RoundPage struct {
	Offset uint64     `json:"offset"`
	Limit  uint64     `json:"limit"`
	Total  uint64     `json:"total"`
	Rounds []fl.Round `json:"rounds"`
}

type Config struct {
	MinUpdates        int
	Shape             fl.Shape
	Init              fl.InitConfig
	DefaultSampleSize int
	DomainID          string
	ChannelID         string
}

func DefaultConfig() Config {
	return Config{
		MinUpdates:        DefMinUpdates,
		Shape:             fl.Shape{Features: DefFeatures, Categories: DefCategories},
		Init:              fl.InitConfig{Strategy: DefInitMethod, Scale: DefInitScale},
		DefaultSampleSize: DefSampleSize,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MinUpdates < 1:
		return fmt.Errorf("%w: min updates must be at least 1, got %d", ErrInvalidConfig, c.MinUpdates)
	case c.Shape.Features < 1 || c.Shape.Categories < 1:
		return fmt.Errorf("%w: model shape %dx%d", ErrInvalidConfig, c.Shape.Features, c.Shape.Categories)
	case c.DefaultSampleSize < 1:
		return fmt.Errorf("%w: default sample size must be positive, got %d", ErrInvalidConfig, c.DefaultSampleSize)
	}

	return nil
}

func roundKey(version uint64) string {
	return fmt.Sprintf(roundKeyFormat, version)
}
