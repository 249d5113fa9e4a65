package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/absmach/fedcoord/pkg/errors"
	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/absmach/supermq"
	apiutil "github.com/absmach/supermq/api/http/util"
)

const (
	OffsetKey = "offset"
	LimitKey  = "limit"
	DefOffset = 0
	DefLimit  = 100

	ContentType = "application/json"

	MaxLimitSize = 100
)

// ErrorRes is the body of every failed request.
type ErrorRes struct {
	Err  string `json:"error"`
	Kind string `json:"kind"`
}

// EncodeResponse marshals the body before writing any header, so an
// unencodable response surfaces as an error instead of a truncated 200.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		return err
	}

	if ar, ok := response.(supermq.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	_, err = w.Write(append(body, '\n'))

	return err
}

func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)

	kind := fl.Kind(err)
	switch {
	case errors.Is(err, fl.ErrAggregationFailed):
		w.WriteHeader(http.StatusInternalServerError)
	case errors.Is(err, apiutil.ErrUnsupportedContentType):
		kind = "UnsupportedContentType"
		w.WriteHeader(http.StatusUnsupportedMediaType)
	case fl.IsClientError(err):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, pkgerrors.ErrNotFound):
		kind = "NotFound"
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, apiutil.ErrValidation),
		errors.Is(err, pkgerrors.ErrEmptyKey),
		errors.Is(err, pkgerrors.ErrInvalidVersion):
		kind = "InvalidRequest"
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if err := json.NewEncoder(w).Encode(ErrorRes{Err: err.Error(), Kind: kind}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
