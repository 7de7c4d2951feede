package sale

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/sale"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
	"github.com/sparkhq/spark-backend-go/internal/repository/postgresql"
)

type SaleServiceImpl struct {
	db           *database.DB
	saleRepo     sale.SaleRepository
	allocRepo    allocation.AllocationRepository
	overrideRepo allocation.OverrideRepository
}

func NewSaleService(db *database.DB, saleRepo sale.SaleRepository, allocRepo allocation.AllocationRepository, overrideRepo allocation.OverrideRepository) sale.SaleService {
	return &SaleServiceImpl{
		db:           db,
		saleRepo:     saleRepo,
		allocRepo:    allocRepo,
		overrideRepo: overrideRepo,
	}
}

// GetSale implements sale.SaleService.
func (s *SaleServiceImpl) GetSale(ctx context.Context, id int64) (sale.SaleResponse, error) {
	sl, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.SaleResponse{}, err
	}

	return mapToSaleResponse(sl), nil
}

// ListSales implements sale.SaleService.
func (s *SaleServiceImpl) ListSales(ctx context.Context, filter sale.SaleFilter) (sale.ListSaleResponse, error) {
	normalizeFilter(&filter)

	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return sale.ListSaleResponse{}, err
	}

	return mapToListResponse(sales, total, filter), nil
}

// ListSalesForUsers implements sale.SaleService.
func (s *SaleServiceImpl) ListSalesForUsers(ctx context.Context, userIDs []int64, filter sale.SaleFilter) (sale.ListSaleResponse, error) {
	normalizeFilter(&filter)

	sales, total, err := s.saleRepo.ListForUsers(ctx, userIDs, filter)
	if err != nil {
		return sale.ListSaleResponse{}, err
	}

	return mapToListResponse(sales, total, filter), nil
}

// CancelSale implements sale.SaleService.
//
// Cancellation raises clawbacks for rows already paid; unpaid, unbatched rows
// are simply removed by the next allocation run.
func (s *SaleServiceImpl) CancelSale(ctx context.Context, req sale.CancelSaleRequest, actorID int64) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := database.WithTx(ctx, tx)

		if err := postgresql.AcquireSaleLock(txCtx, tx, req.ID); err != nil {
			return err
		}

		sl, err := s.saleRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if err := s.saleRepo.Cancel(txCtx, req.ID, req.Reason, actorID); err != nil {
			return err
		}

		allocations, err := s.allocRepo.ListForSale(txCtx, req.ID)
		if err != nil {
			return err
		}
		for _, a := range allocations {
			if a.IsPaid {
				if err := insertClawback(txCtx, tx, sl.Industry.String(), a.SaleID, a.UserID, a.AllocatedAmount, req.Reason); err != nil {
					return err
				}
				continue
			}
			if a.PayrollBatchID == nil {
				if err := s.allocRepo.DeleteByKey(txCtx, a.Industry, a.SaleID, a.UserID, a.MilestoneNumber); err != nil {
					return err
				}
			}
		}

		overrides, err := s.overrideRepo.ListForSale(txCtx, req.ID)
		if err != nil {
			return err
		}
		for _, o := range overrides {
			if o.IsPaid {
				if err := insertClawback(txCtx, tx, sl.Industry.String(), o.SaleID, o.UserID, o.AllocatedAmount, req.Reason); err != nil {
					return err
				}
				continue
			}
			if o.PayrollBatchID == nil {
				if err := s.overrideRepo.DeleteByKey(txCtx, o.SaleID, o.UserID, o.OverrideLevel); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

func insertClawback(ctx context.Context, tx pgx.Tx, ind string, saleID, userID int64, amount decimal.Decimal, reason string) error {
	query := `
		INSERT INTO ` + ind + `_clawbacks (sale_id, user_id, amount, reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, saleID, userID, amount, reason); err != nil {
		return fmt.Errorf("failed to insert clawback: %w", err)
	}
	return nil
}

func normalizeFilter(filter *sale.SaleFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
}

func mapToListResponse(sales []sale.Sale, total int64, filter sale.SaleFilter) sale.ListSaleResponse {
	resp := sale.ListSaleResponse{
		Data:       make([]sale.SaleResponse, 0, len(sales)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, sl := range sales {
		resp.Data = append(resp.Data, mapToSaleResponse(sl))
	}
	return resp
}

func mapToSaleResponse(sl sale.Sale) sale.SaleResponse {
	resp := sale.SaleResponse{
		ID:             sl.ID,
		Industry:       string(sl.Industry),
		CustomerName:   sl.CustomerName,
		Status:         string(sl.Status),
		SaleDate:       sl.SaleDate.Format("2006-01-02"),
		ContractAmount: sl.ContractAmount,
		IsActive:       sl.IsActive,
		CancelReason:   sl.CancelReason,
	}

	for _, p := range sl.Participants {
		resp.Participants = append(resp.Participants, sale.ParticipantResponse{
			UserID:       p.UserID,
			RoleID:       p.RoleID,
			SplitPercent: p.SplitPercent,
			IsPrimary:    p.IsPrimary,
		})
	}

	switch {
	case sl.Solar != nil:
		resp.Detail = sl.Solar
	case sl.Pest != nil:
		resp.Detail = sl.Pest
	case sl.Roofing != nil:
		resp.Detail = sl.Roofing
	case sl.Fiber != nil:
		resp.Detail = sl.Fiber
	}

	return resp
}
