package fl

import (
	"fmt"
	"math"
)

func NewMatrix(shape Shape) Matrix {
	m := make(Matrix, shape.Features)
	for i := range m {
		m[i] = make([]float64, shape.Categories)
	}

	return m
}

func NewVector(shape Shape) Vector {
	return make(Vector, shape.Categories)
}

func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = append([]float64(nil), row...)
	}

	return c
}

func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}

	return append(Vector(nil), v...)
}

// Finite reports whether every element is neither NaN nor infinite.
func (m Matrix) Finite() bool {
	for _, row := range m {
		if !Vector(row).Finite() {
			return false
		}
	}

	return true
}

func (v Vector) Finite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

// CheckShape verifies that weights is exactly Features x Categories (no ragged rows)
// and bias has Categories elements.
func CheckShape(weights Matrix, bias Vector, shape Shape) error {
	if len(weights) != shape.Features {
		return fmt.Errorf("%w: weights have %d rows, expected %d", ErrShapeMismatch, len(weights), shape.Features)
	}
	for i, row := range weights {
		if len(row) != shape.Categories {
			return fmt.Errorf("%w: weights row %d has %d columns, expected %d", ErrShapeMismatch, i, len(row), shape.Categories)
		}
	}
	if len(bias) != shape.Categories {
		return fmt.Errorf("%w: bias has %d elements, expected %d", ErrShapeMismatch, len(bias), shape.Categories)
	}

	return nil
}

// axpy adds x scaled by a to dst in place.
func axpy(dst, x []float64, a float64) {
	for i := range dst {
		dst[i] += x[i] * a
	}
}
