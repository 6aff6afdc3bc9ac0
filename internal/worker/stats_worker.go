package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"fleetstats/internal/amqp"
	"fleetstats/internal/core"
	"fleetstats/internal/services"
	"fleetstats/internal/stats"
)

// ResultPublisher is the slice of the AMQP client the worker needs.
type ResultPublisher interface {
	PublishStatsResult(ctx context.Context, msg *amqp.StatsResultMessage) error
}

// StatsWorker turns request messages into computed reports. Each request
// yields exactly one result message: either the serialized report or the
// error that stopped the computation.
type StatsWorker struct {
	service   *services.StatsService
	publisher ResultPublisher
}

func NewStatsWorker(service *services.StatsService, publisher ResultPublisher) *StatsWorker {
	return &StatsWorker{
		service:   service,
		publisher: publisher,
	}
}

// HandleStatsRequest processes a single request message. Computation errors
// caused by the request content (unknown car, bad unit) are reported back as
// error results and do not fail the delivery; only publish failures propagate
// so the broker can requeue.
func (w *StatsWorker) HandleStatsRequest(ctx context.Context, msg *amqp.StatsRequestMessage) error {
	slog.InfoContext(ctx, "Processing stats request",
		"requestId", msg.RequestID,
		"carId", msg.CarID,
		"unit", msg.Unit)

	opts, err := w.resolveOptions(msg)
	if err != nil {
		return w.publishError(ctx, msg, err)
	}

	report, err := w.compute(ctx, msg, opts)
	if err != nil {
		if errors.Is(err, services.ErrUnknownCar) {
			return w.publishError(ctx, msg, err)
		}
		return fmt.Errorf("compute report: %w", err)
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	result := amqp.NewStatsResultMessage(msg.RequestID, msg.CarID, body)
	if err := w.publisher.PublishStatsResult(ctx, result); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}

	slog.InfoContext(ctx, "Stats request completed",
		"requestId", msg.RequestID,
		"carId", msg.CarID)
	return nil
}

func (w *StatsWorker) compute(ctx context.Context, msg *amqp.StatsRequestMessage, opts stats.Options) (any, error) {
	if msg.CarID != "" {
		return w.service.CarReport(ctx, core.RecordID(msg.CarID), opts)
	}
	return w.service.FleetReport(ctx, opts)
}

func (w *StatsWorker) resolveOptions(msg *amqp.StatsRequestMessage) (stats.Options, error) {
	opts := w.service.Options()
	if msg.Unit != "" {
		unit := core.ConsumptionUnit(msg.Unit)
		if !unit.Valid() {
			return opts, fmt.Errorf("unknown consumption unit %q", msg.Unit)
		}
		opts.Unit = unit
	}
	if msg.BaseCurrency != "" {
		opts.BaseCurrency = msg.BaseCurrency
	}
	return opts, nil
}

func (w *StatsWorker) publishError(ctx context.Context, msg *amqp.StatsRequestMessage, cause error) error {
	slog.WarnContext(ctx, "Stats request rejected",
		"requestId", msg.RequestID,
		"carId", msg.CarID,
		"error", cause)

	result := amqp.NewStatsErrorMessage(msg.RequestID, msg.CarID, cause.Error())
	if err := w.publisher.PublishStatsResult(ctx, result); err != nil {
		return fmt.Errorf("publish error result: %w", err)
	}
	return nil
}
