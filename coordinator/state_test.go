package coordinator

import (
	"testing"

	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/stretchr/testify/assert"
)

func TestUpdateBuffer(t *testing.T) {
	t.Parallel()

	var b updateBuffer
	assert.Equal(t, 1, b.append(fl.Update{ID: "a"}))
	assert.Equal(t, 2, b.append(fl.Update{ID: "b"}))

	b.dropLast()
	assert.Equal(t, 1, b.len())
	assert.Equal(t, "a", b.pending()[0].ID)

	assert.Equal(t, 2, b.append(fl.Update{ID: "c"}))
	drained := b.drainAll()
	assert.Len(t, drained, 2)
	assert.Equal(t, "c", drained[1].ID)
	assert.Zero(t, b.len())

	b.dropLast()
	assert.Zero(t, b.len())
}

func TestModelStateSnapshot(t *testing.T) {
	t.Parallel()

	m := newModelState(fl.Model{
		Weights: fl.Matrix{{1, 2}},
		Bias:    fl.Vector{3, 4},
		Version: 1,
	})

	snap := m.snapshot()
	snap.Weights[0][0] = 9
	snap.Bias[1] = 9
	assert.Equal(t, fl.Matrix{{1, 2}}, m.weights)
	assert.Equal(t, fl.Vector{3, 4}, m.bias)

	assert.Equal(t, uint64(2), m.install(fl.Matrix{{5, 6}}, fl.Vector{7, 8}))
	assert.Equal(t, fl.Model{Weights: fl.Matrix{{5, 6}}, Bias: fl.Vector{7, 8}, Version: 2}, m.snapshot())
}

func TestRoundKeyOrdering(t *testing.T) {
	t.Parallel()

	assert.Less(t, roundKey(9), roundKey(10))
	assert.Less(t, roundKey(99), roundKey(1000))
	assert.Len(t, roundKey(1), 20)
}
