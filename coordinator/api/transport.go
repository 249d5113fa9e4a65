package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/absmach/fedcoord/coordinator"
	"github.com/absmach/fedcoord/pkg/api"
	pkgerrors "github.com/absmach/fedcoord/pkg/errors"
	"github.com/absmach/supermq"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	svcName = "coordinator"

	maxUpdateSize = 1024 * 1024 * 32
	versionKey    = "version"
)

func MakeHandler(svc coordinator.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Get("/model", otelhttp.NewHandler(kithttp.NewServer(
		fetchModelEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "fetch-model").ServeHTTP)

	mux.Post("/train", otelhttp.NewHandler(kithttp.NewServer(
		submitUpdateEndpoint(svc),
		decodeSubmitUpdateReq(coordinator.ContentTypeJSON),
		api.EncodeResponse,
		opts...,
	), "submit-update").ServeHTTP)

	mux.Post("/train_cbor", otelhttp.NewHandler(kithttp.NewServer(
		submitUpdateEndpoint(svc),
		decodeSubmitUpdateReq(coordinator.ContentTypeCBOR),
		api.EncodeResponse,
		opts...,
	), "submit-update-cbor").ServeHTTP)

	mux.Get("/status", otelhttp.NewHandler(kithttp.NewServer(
		statusEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "status").ServeHTTP)

	mux.Route("/rounds", func(r chi.Router) {
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listRoundsEndpoint(svc),
			decodeListRoundsReq,
			api.EncodeResponse,
			opts...,
		), "list-rounds").ServeHTTP)
		r.Get("/{version}", otelhttp.NewHandler(kithttp.NewServer(
			getRoundEndpoint(svc),
			decodeRoundReq,
			api.EncodeResponse,
			opts...,
		), "get-round").ServeHTTP)
	})

	mux.Get("/health", supermq.Health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeEmptyReq(_ context.Context, _ *http.Request) (any, error) {
	return nil, nil
}

func decodeSubmitUpdateReq(contentType string) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (any, error) {
		if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
			return nil, errors.Join(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
		}

		data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxUpdateSize))
		if err != nil {
			return nil, errors.Join(apiutil.ErrValidation, err)
		}

		req, err := coordinator.DecodeUpdate(data, contentType)
		if err != nil {
			return nil, errors.Join(apiutil.ErrValidation, err)
		}

		return submitUpdateReq{UpdateRequest: req}, nil
	}
}

func decodeRoundReq(_ context.Context, r *http.Request) (any, error) {
	version, err := strconv.ParseUint(chi.URLParam(r, versionKey), 10, 64)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidVersion)
	}

	return roundReq{version: version}, nil
}

func decodeListRoundsReq(_ context.Context, r *http.Request) (any, error) {
	o, err := apiutil.ReadNumQuery[uint64](r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	l, err := apiutil.ReadNumQuery[uint64](r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	return listRoundsReq{
		offset: o,
		limit:  l,
	}, nil
}
