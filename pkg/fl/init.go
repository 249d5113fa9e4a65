package fl

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	InitRandom = "random"
	InitZeros  = "zeros"
)

type InitConfig struct {
	Strategy string
	// Scale is the standard deviation of random weights.
	Scale float64
	// Seed makes random initialization reproducible; zero seeds from the clock.
	Seed uint64
}

// NewModel builds the version 1 global model. Bias always starts at zero.
func NewModel(shape Shape, cfg InitConfig) (Model, error) {
	if shape.Features < 1 || shape.Categories < 1 {
		return Model{}, fmt.Errorf("%w: invalid model shape %dx%d", ErrShapeMismatch, shape.Features, shape.Categories)
	}

	weights := NewMatrix(shape)
	switch cfg.Strategy {
	case InitZeros:
	case InitRandom, "":
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng := rand.New(rand.NewPCG(seed, seed>>1|1))
		for _, row := range weights {
			for j := range row {
				row[j] = rng.NormFloat64() * cfg.Scale
			}
		}
	default:
		return Model{}, fmt.Errorf("%w: %q", ErrUnknownInitStrategy, cfg.Strategy)
	}

	return Model{
		Weights: weights,
		Bias:    NewVector(shape),
		Version: 1,
	}, nil
}
