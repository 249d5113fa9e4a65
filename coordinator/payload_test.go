package coordinator_test

import (
	"testing"

	"github.com/absmach/fedcoord/coordinator"
	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUpdateJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		body    string
		err     error
		samples *int
		rows    int
	}{
		{
			name:    "full update",
			body:    `{"client_id":"c1","weights":[[1,2],[3,4]],"bias":[0.5,0.5],"sample_size":7}`,
			samples: intPtr(7),
			rows:    2,
		},
		{
			name: "sample size absent",
			body: `{"weights":[[1]],"bias":[1]}`,
			rows: 1,
		},
		{
			name: "unknown field",
			body: `{"weights":[[1]],"bias":[1],"learning_rate":0.1}`,
			err:  fl.ErrInvalidPayload,
		},
		{
			name: "weights wrong type",
			body: `{"weights":"abc","bias":[1]}`,
			err:  fl.ErrInvalidPayload,
		},
		{
			name: "fractional sample size",
			body: `{"weights":[[1]],"bias":[1],"sample_size":1.5}`,
			err:  fl.ErrInvalidPayload,
		},
		{
			name: "trailing data",
			body: `{"weights":[[1]],"bias":[1]} {}`,
			err:  fl.ErrInvalidPayload,
		},
		{
			name: "malformed",
			body: `{"weights":[[1]`,
			err:  fl.ErrInvalidPayload,
		},
		{
			name: "not an object",
			body: `[1,2,3]`,
			err:  fl.ErrInvalidPayload,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req, err := coordinator.DecodeUpdate([]byte(tc.body), coordinator.ContentTypeJSON)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Len(t, req.Weights, tc.rows)
			assert.Equal(t, tc.samples, req.SampleSize)
		})
	}
}

func TestDecodeUpdateNullIsMissing(t *testing.T) {
	t.Parallel()

	req, err := coordinator.DecodeUpdate([]byte(`{"weights":null,"bias":[]}`), coordinator.ContentTypeJSON)
	require.NoError(t, err)
	assert.Nil(t, req.Weights)
	assert.NotNil(t, req.Bias)
	assert.Empty(t, req.Bias)
}

func TestDecodeUpdateCBOR(t *testing.T) {
	t.Parallel()

	valid, err := cbor.Marshal(map[string]any{
		"client_id":   "edge-1",
		"weights":     [][]float64{{1, 2}, {3, 4}},
		"bias":        []float64{0.1, 0.2},
		"sample_size": 3,
	})
	require.NoError(t, err)

	req, err := coordinator.DecodeUpdate(valid, coordinator.ContentTypeCBOR)
	require.NoError(t, err)
	assert.Equal(t, "edge-1", req.ClientID)
	assert.Equal(t, fl.Matrix{{1, 2}, {3, 4}}, req.Weights)
	assert.Equal(t, fl.Vector{0.1, 0.2}, req.Bias)
	require.NotNil(t, req.SampleSize)
	assert.Equal(t, 3, *req.SampleSize)

	unknown, err := cbor.Marshal(map[string]any{
		"weights": [][]float64{{1}},
		"bias":    []float64{1},
		"epochs":  4,
	})
	require.NoError(t, err)
	_, err = coordinator.DecodeUpdate(unknown, coordinator.ContentTypeCBOR)
	assert.ErrorIs(t, err, fl.ErrInvalidPayload)

	_, err = coordinator.DecodeUpdate([]byte{0xff, 0x00}, coordinator.ContentTypeCBOR)
	assert.ErrorIs(t, err, fl.ErrInvalidPayload)
}
