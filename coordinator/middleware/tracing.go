package middleware

import (
	"context"

	"github.com/absmach/fedcoord/coordinator"
	"github.com/absmach/fedcoord/pkg/fl"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ coordinator.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    coordinator.Service
}

func Tracing(tracer trace.Tracer, svc coordinator.Service) coordinator.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) SubmitUpdate(ctx context.Context, req coordinator.UpdateRequest) (resp coordinator.SubmitResult, err error) {
	ctx, span := tm.tracer.Start(ctx, "submit-update", trace.WithAttributes(
		attribute.String("client_id", req.ClientID),
	))
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, fl.Kind(err))
			span.RecordError(err)
		} else {
			span.SetAttributes(
				attribute.String("status", resp.Status),
				attribute.Int64("version", int64(resp.Version)),
			)
		}
		span.End()
	}()

	return tm.svc.SubmitUpdate(ctx, req)
}

func (tm *tracing) FetchModel(ctx context.Context) (resp fl.Model, err error) {
	ctx, span := tm.tracer.Start(ctx, "fetch-model")
	defer span.End()

	return tm.svc.FetchModel(ctx)
}

func (tm *tracing) Status(ctx context.Context) (resp coordinator.Status, err error) {
	ctx, span := tm.tracer.Start(ctx, "status")
	defer span.End()

	return tm.svc.Status(ctx)
}

func (tm *tracing) ListRounds(ctx context.Context, offset, limit uint64) (resp coordinator.RoundPage, err error) {
	ctx, span := tm.tracer.Start(ctx, "list-rounds", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListRounds(ctx, offset, limit)
}

func (tm *tracing) GetRound(ctx context.Context, version uint64) (resp fl.Round, err error) {
	ctx, span := tm.tracer.Start(ctx, "get-round", trace.WithAttributes(
		attribute.Int64("version", int64(version)),
	))
	defer span.End()

	return tm.svc.GetRound(ctx, version)
}
