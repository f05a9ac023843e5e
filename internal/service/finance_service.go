// Package service provides the business logic layer (use cases).
// FinanceService handles transaction record CRUD; StatsService computes the
// aggregated statistics views.
package service

import (
	"context"
	"time"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/observability"
	"github.com/Mihad360/finance-equalizer-server/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/finance")

// FinanceService exposes CRUD operations over the record store.
type FinanceService struct {
	store   port.FinanceStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewFinanceService creates a new finance service.
func NewFinanceService(store port.FinanceStore, metrics *observability.Metrics, logger *zap.Logger) *FinanceService {
	return &FinanceService{store: store, metrics: metrics, logger: logger}
}

// validateID rejects ids that do not match the store's uuid identifier
// format, before any store round-trip.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.ErrInvalidID{ID: id}
	}
	return nil
}

// Create stores a new record and returns an acknowledgment carrying the
// generated id. Fields are stored as supplied; absent fields persist as their
// zero values.
func (s *FinanceService) Create(ctx context.Context, rec *domain.Record) (*domain.CreateAck, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Create")
	defer span.End()
	span.SetAttributes(attribute.Float64("record.amount", rec.Amount), attribute.String("record.type", rec.Type))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("create", time.Since(start)) }()

	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		s.metrics.IncrStoreError("insert")
		return nil, err
	}

	s.metrics.IncrRecordWrite("create")
	s.logger.Info("record created",
		zap.String("record_id", id),
		zap.String("type", rec.Type),
		zap.String("category", rec.Category),
	)
	return &domain.CreateAck{Acknowledged: true, InsertedID: id}, nil
}

// ListAll returns every record in store order.
func (s *FinanceService) ListAll(ctx context.Context) ([]domain.Record, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.ListAll")
	defer span.End()

	records, err := s.store.List(ctx)
	if err != nil {
		s.metrics.IncrStoreError("list")
		return nil, err
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// GetByID looks up one record. A malformed id fails with ErrInvalidID before
// the store is consulted; an unknown id yields ErrNotFound.
func (s *FinanceService) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("record.id", id))

	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// DeleteByID removes one record permanently. Deleting an absent id succeeds
// with a zero deleted count.
func (s *FinanceService) DeleteByID(ctx context.Context, id string) (*domain.DeleteAck, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.DeleteByID")
	defer span.End()
	span.SetAttributes(attribute.String("record.id", id))

	if err := validateID(id); err != nil {
		return nil, err
	}

	count, err := s.store.Delete(ctx, id)
	if err != nil {
		s.metrics.IncrStoreError("delete")
		return nil, err
	}

	s.metrics.IncrRecordWrite("delete")
	s.logger.Info("record deleted", zap.String("record_id", id), zap.Int64("deleted_count", count))
	return &domain.DeleteAck{Acknowledged: true, DeletedCount: count}, nil
}

// UpdateByID replaces the six mutable fields with the values from patch.
// This is a full-field replace, not a merge: a field omitted from the request
// body is written back as its zero value. Callers relying on partial updates
// must always send the complete record.
func (s *FinanceService) UpdateByID(ctx context.Context, id string, patch *domain.RecordPatch) (*domain.UpdateAck, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.UpdateByID")
	defer span.End()
	span.SetAttributes(attribute.String("record.id", id))

	if err := validateID(id); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"title":       patch.Title,
		"amount":      patch.Amount,
		"description": patch.Description,
		"date":        patch.Date,
		"category":    patch.Category,
		"type":        patch.Type,
	}

	matched, modified, err := s.store.Update(ctx, id, fields)
	if err != nil {
		s.metrics.IncrStoreError("update")
		return nil, err
	}

	s.metrics.IncrRecordWrite("update")
	s.logger.Info("record updated",
		zap.String("record_id", id),
		zap.Int64("matched", matched),
		zap.Int64("modified", modified),
	)
	return &domain.UpdateAck{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}, nil
}

// Ping reports store reachability for the health probe.
func (s *FinanceService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
