package coordinator

import "github.com/absmach/fedcoord/pkg/fl"

// modelState and updateBuffer are not safe for concurrent use; service.mu guards both.
type modelState struct {
	weights fl.Matrix
	bias    fl.Vector
	version uint64
}

func newModelState(m fl.Model) modelState {
	return modelState{
		weights: m.Weights.Clone(),
		bias:    m.Bias.Clone(),
		version: m.Version,
	}
}

func (m *modelState) snapshot() fl.Model {
	return fl.Model{
		Weights: m.weights.Clone(),
		Bias:    m.bias.Clone(),
		Version: m.version,
	}
}

func (m *modelState) install(weights fl.Matrix, bias fl.Vector) uint64 {
	m.weights = weights
	m.bias = bias
	m.version++

	return m.version
}

type updateBuffer struct {
	updates []fl.Update
}

func (b *updateBuffer) append(u fl.Update) int {
	b.updates = append(b.updates, u)

	return len(b.updates)
}

// pending exposes the buffered batch without removing it.
func (b *updateBuffer) pending() []fl.Update {
	return b.updates
}

func (b *updateBuffer) dropLast() {
	if n := len(b.updates); n > 0 {
		b.updates[n-1] = fl.Update{}
		b.updates = b.updates[:n-1]
	}
}

func (b *updateBuffer) drainAll() []fl.Update {
	drained := b.updates
	b.updates = nil

	return drained
}

func (b *updateBuffer) len() int {
	return len(b.updates)
}
