package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pkgerrors "github.com/absmach/fedcoord/pkg/errors"
	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/absmach/fedcoord/pkg/mqtt"
	"github.com/absmach/fedcoord/pkg/storage"
	"github.com/google/uuid"
)

type service struct {
	// mu guards model and buffer together: aggregation reads both and writes both.
	mu     sync.RWMutex
	model  modelState
	buffer updateBuffer

	cfg        Config
	aggregator fl.Aggregator
	roundsDB   storage.Storage
	pubsub     mqtt.PubSub
	baseTopic  string
	logger     *slog.Logger
}

// NewService builds the coordinator with a freshly initialized version 1 model.
// pubsub may be nil, in which case model notifications are disabled.
func NewService(cfg Config, aggregator fl.Aggregator, roundsDB storage.Storage, pubsub mqtt.PubSub, logger *slog.Logger) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := fl.NewModel(cfg.Shape, cfg.Init)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		model:      newModelState(model),
		cfg:        cfg,
		aggregator: aggregator,
		roundsDB:   roundsDB,
		pubsub:     pubsub,
		baseTopic:  fmt.Sprintf(baseTopicTemplate, cfg.DomainID, cfg.ChannelID),
		logger:     logger,
	}, nil
}

func (svc *service) SubmitUpdate(ctx context.Context, req UpdateRequest) (SubmitResult, error) {
	update, err := svc.newUpdate(req)
	if err != nil {
		return SubmitResult{}, err
	}

	svc.mu.Lock()
	res, round, err := svc.submit(update)
	svc.mu.Unlock()

	if err != nil {
		svc.logger.ErrorContext(ctx, "Aggregation failed, buffer left unchanged",
			slog.String("update_id", update.ID),
			slog.Int("min_updates", svc.cfg.MinUpdates),
			slog.Any("error", err))

		return SubmitResult{}, err
	}

	if round != nil {
		svc.logger.InfoContext(ctx, "Aggregated new global model",
			slog.Uint64("version", round.Version),
			slog.Int("num_updates", round.NumUpdates),
			slog.Int64("total_samples", round.TotalSamples))
		svc.recordRound(ctx, *round)
		svc.notifyRound(ctx, *round)
	}

	return res, nil
}

// submit is the append-check-aggregate critical section. svc.mu must be held.
func (svc *service) submit(update fl.Update) (SubmitResult, *fl.Round, error) {
	n := svc.buffer.append(update)
	if n < svc.cfg.MinUpdates {
		return SubmitResult{Status: StatusQueued, Buffered: n}, nil, nil
	}

	res, err := svc.aggregator.Aggregate(svc.buffer.pending(), svc.cfg.Shape)
	if err == nil {
		err = checkResult(res, svc.cfg.Shape)
	}
	if err != nil {
		svc.buffer.dropLast()

		return SubmitResult{}, nil, fmt.Errorf("%w: %w", fl.ErrAggregationFailed, err)
	}

	batch := svc.buffer.drainAll()
	version := svc.model.install(res.Weights, res.Bias)

	round := fl.Round{
		ID:           uuid.NewString(),
		Version:      version,
		NumUpdates:   len(batch),
		TotalSamples: res.TotalSamples,
		AggregatedAt: time.Now().UTC(),
	}
	for _, u := range batch {
		if u.ClientID != "" {
			round.ClientIDs = append(round.ClientIDs, u.ClientID)
		}
	}

	return SubmitResult{Status: StatusAggregated, Version: version}, &round, nil
}

// checkResult keeps a malformed aggregate from ever becoming the served model.
func checkResult(res fl.Result, shape fl.Shape) error {
	if err := fl.CheckShape(res.Weights, res.Bias, shape); err != nil {
		return err
	}
	if !res.Weights.Finite() || !res.Bias.Finite() {
		return fl.ErrNonFiniteResult
	}

	return nil
}

// newUpdate validates req in the order: presence, shape, sample size, values.
// The model shape never changes, so this runs before taking the lock.
func (svc *service) newUpdate(req UpdateRequest) (fl.Update, error) {
	switch {
	case req.Weights == nil && req.Bias == nil:
		return fl.Update{}, fmt.Errorf("%w: weights and bias are required", fl.ErrInvalidPayload)
	case req.Weights == nil:
		return fl.Update{}, fmt.Errorf("%w: weights are required", fl.ErrInvalidPayload)
	case req.Bias == nil:
		return fl.Update{}, fmt.Errorf("%w: bias is required", fl.ErrInvalidPayload)
	}

	if err := fl.CheckShape(req.Weights, req.Bias, svc.cfg.Shape); err != nil {
		return fl.Update{}, err
	}

	sampleSize := svc.cfg.DefaultSampleSize
	if req.SampleSize != nil {
		sampleSize = *req.SampleSize
	}
	if sampleSize <= 0 {
		return fl.Update{}, fmt.Errorf("%w: got %d", fl.ErrInvalidSampleSize, sampleSize)
	}

	if !req.Weights.Finite() || !req.Bias.Finite() {
		return fl.Update{}, fmt.Errorf("%w: weights and bias must be finite", fl.ErrInvalidPayload)
	}

	return fl.Update{
		ID:         uuid.NewString(),
		ClientID:   req.ClientID,
		Weights:    req.Weights.Clone(),
		Bias:       req.Bias.Clone(),
		SampleSize: sampleSize,
		ReceivedAt: time.Now().UTC(),
	}, nil
}

func (svc *service) FetchModel(_ context.Context) (fl.Model, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.model.snapshot(), nil
}

func (svc *service) Status(_ context.Context) (Status, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return Status{
		Version:    svc.model.version,
		Buffered:   svc.buffer.len(),
		MinUpdates: svc.cfg.MinUpdates,
		Shape:      svc.cfg.Shape,
	}, nil
}

func (svc *service) ListRounds(ctx context.Context, offset, limit uint64) (RoundPage, error) {
	data, total, err := svc.roundsDB.List(ctx, offset, limit)
	if err != nil {
		return RoundPage{}, err
	}

	rounds := make([]fl.Round, 0, len(data))
	for i := range data {
		r, ok := data[i].(fl.Round)
		if !ok {
			return RoundPage{}, pkgerrors.ErrInvalidData
		}
		rounds = append(rounds, r)
	}

	return RoundPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Rounds: rounds,
	}, nil
}

func (svc *service) GetRound(ctx context.Context, version uint64) (fl.Round, error) {
	data, err := svc.roundsDB.Get(ctx, roundKey(version))
	if err != nil {
		return fl.Round{}, err
	}

	r, ok := data.(fl.Round)
	if !ok {
		return fl.Round{}, pkgerrors.ErrInvalidData
	}

	return r, nil
}

func (svc *service) recordRound(ctx context.Context, r fl.Round) {
	if err := svc.roundsDB.Create(ctx, roundKey(r.Version), r); err != nil && !errors.Is(err, pkgerrors.ErrEntityExists) {
		svc.logger.WarnContext(ctx, "Failed to record aggregation round",
			slog.Uint64("version", r.Version),
			slog.Any("error", err))
	}
}
