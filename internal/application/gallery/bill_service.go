package gallery

import (
	"context"
	"fmt"

	"github.com/aishop/storefront/internal/domain/gallery"
	"github.com/aishop/storefront/internal/infrastructure/cache"
	"github.com/aishop/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var billMutationKeys = []string{cache.KeyBills, cache.KeyStorefront}

// BillService manages the proof-of-transaction gallery
type BillService struct {
	billRepo gallery.BillRepository
	listing  cache.ListingCache
	logger   *zap.Logger
}

// NewBillService creates a new BillService
func NewBillService(billRepo gallery.BillRepository, listing cache.ListingCache, logger *zap.Logger) *BillService {
	if listing == nil {
		listing = cache.NopListingCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillService{
		billRepo: billRepo,
		listing:  listing,
		logger:   logger,
	}
}

// List returns every bill, oldest first
func (s *BillService) List(ctx context.Context) ([]BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bill", "list")
	defer span.End()

	bills, hit, err := cache.ReadThrough(ctx, s.listing, cache.KeyBills, s.logger,
		func(ctx context.Context) ([]BillResponse, error) {
			bills, err := s.billRepo.FindAll(ctx)
			if err != nil {
				return nil, fmt.Errorf("list bills: %w", err)
			}
			return ToBillResponses(bills), nil
		})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, hit, telemetry.SpanAttrCount, len(bills))
	return bills, nil
}

// Add stores a new bill
func (s *BillService) Add(ctx context.Context, req AddBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bill", "add")
	defer span.End()

	bill, err := gallery.NewBill(req.ImageURL, req.Description)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrBillID, bill.ID)

	if err := s.billRepo.Create(ctx, bill); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("add bill: %w", err)
	}
	s.invalidate(ctx)

	s.logger.Info("bill added", zap.String("bill_id", bill.ID))

	response := ToBillResponse(bill)
	return &response, nil
}

// Delete removes a bill. Deleting a missing bill succeeds.
func (s *BillService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "bill", "delete", telemetry.SpanAttrBillID, id)
	defer span.End()

	if err := s.billRepo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("delete bill: %w", err)
	}
	s.invalidate(ctx)

	s.logger.Info("bill deleted", zap.String("bill_id", id))
	return nil
}

func (s *BillService) invalidate(ctx context.Context) {
	cache.InvalidateQuietly(ctx, s.listing, s.logger, billMutationKeys...)
}
