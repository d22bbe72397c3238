package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/core/extraction"
	"github.com/example/finsight/internal/ports/secondary"
)

// ExtractionStage normalizes heterogeneous sources into canonical transactions.
type ExtractionStage struct {
	txRepo secondary.TransactionRepository
	logger hclog.Logger
	clock  Clock
}

// NewExtractionStage creates a new ExtractionStage with injected dependencies.
func NewExtractionStage(txRepo secondary.TransactionRepository, logger hclog.Logger, clock Clock) *ExtractionStage {
	return &ExtractionStage{
		txRepo: txRepo,
		logger: logger,
		clock:  clock,
	}
}

// Execute normalizes every source in inputs["data_sources"] and persists the
// result source by source. A malformed source fails the stage; sources
// persisted before it stay persisted.
func (s *ExtractionStage) Execute(ctx context.Context, tenantID string, inputs map[string]any) (map[string]any, error) {
	logger := runLogger(ctx, s.logger)

	sources, err := extraction.ParseSources(inputs[InputDataSources])
	if err != nil {
		return nil, fmt.Errorf("invalid extraction input: %w", err)
	}

	now := s.clock.now()
	total := 0
	for _, src := range sources {
		txs, recognized, err := extraction.Normalize(src, now)
		if !recognized {
			logger.Warn("skipping unrecognized source", "kind", src.Kind)
			continue
		}
		if err != nil {
			return nil, apperrors.NewExtractionError(src.Kind, err)
		}

		records, err := s.toRecords(tenantID, txs, now)
		if err != nil {
			return nil, apperrors.NewExtractionError(src.Kind, err)
		}
		if err := s.txRepo.CreateBatch(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to persist %s transactions: %w", src.Kind, err)
		}

		logger.Debug("source extracted", "kind", src.Kind, "transactions", len(records))
		total += len(records)
	}

	logger.Info("extraction complete", "transactions", total)

	return map[string]any{
		"status":                 StatusSuccess,
		"transactions_extracted": total,
		"tenant_id":              tenantID,
	}, nil
}

func (s *ExtractionStage) toRecords(tenantID string, txs []extraction.Transaction, now time.Time) ([]*secondary.TransactionRecord, error) {
	records := make([]*secondary.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		raw, err := toJSON(tx.Raw)
		if err != nil {
			return nil, fmt.Errorf("failed to encode raw payload: %w", err)
		}
		records = append(records, &secondary.TransactionRecord{
			ID:          uuid.NewString(),
			TenantID:    tenantID,
			Date:        tx.Date,
			Amount:      tx.Amount,
			Kind:        string(tx.Kind),
			Category:    tx.Category,
			Description: tx.Description,
			Source:      string(tx.Source),
			RawData:     raw,
			CreatedAt:   now,
		})
	}
	return records, nil
}
