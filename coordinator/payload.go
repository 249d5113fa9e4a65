package coordinator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/fxamacker/cbor/v2"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCBOR = "application/cbor"
)

var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}

	return dm
}()

// DecodeUpdate parses a raw update payload. Unknown fields, trailing data and
// type mismatches are rejected with fl.ErrInvalidPayload.
func DecodeUpdate(data []byte, contentType string) (UpdateRequest, error) {
	var req UpdateRequest

	if strings.HasPrefix(contentType, ContentTypeCBOR) {
		if err := cborDecMode.Unmarshal(data, &req); err != nil {
			return UpdateRequest{}, fmt.Errorf("%w: %w", fl.ErrInvalidPayload, err)
		}

		return req, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return UpdateRequest{}, fmt.Errorf("%w: %w", fl.ErrInvalidPayload, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return UpdateRequest{}, fmt.Errorf("%w: unexpected data after update object", fl.ErrInvalidPayload)
	}

	return req, nil
}
