package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/rate"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type RateServiceImpl struct {
	db       *database.DB
	rateRepo rate.RateRepository
}

func NewRateService(db *database.DB, rateRepo rate.RateRepository) rate.RateService {
	return &RateServiceImpl{
		db:       db,
		rateRepo: rateRepo,
	}
}

// CreateRate implements rate.RateService.
func (s *RateServiceImpl) CreateRate(ctx context.Context, req rate.CreateRateRequest, actorID int64) (rate.RateResponse, error) {
	if err := req.Validate(); err != nil {
		return rate.RateResponse{}, err
	}

	effectiveStart, err := time.Parse("2006-01-02", req.EffectiveStart)
	if err != nil {
		return rate.RateResponse{}, fmt.Errorf("failed to parse effective_start: %w", err)
	}

	cr := rate.CommissionRate{
		Industry:       industry.Industry(req.Industry),
		UserID:         req.UserID,
		RoleID:         req.RoleID,
		InstallerID:    req.InstallerID,
		StateCode:      req.StateCode,
		PercentMp1:     req.PercentMp1,
		FlatMp1:        req.FlatMp1,
		PercentMp2:     req.PercentMp2,
		FlatMp2:        req.FlatMp2,
		IsActive:       true,
		EffectiveStart: effectiveStart,
		CreatedBy:      &actorID,
	}
	if req.EffectiveEnd != nil {
		effectiveEnd, err := time.Parse("2006-01-02", *req.EffectiveEnd)
		if err != nil {
			return rate.RateResponse{}, fmt.Errorf("failed to parse effective_end: %w", err)
		}
		cr.EffectiveEnd = &effectiveEnd
	}

	created, err := s.rateRepo.Create(ctx, cr)
	if err != nil {
		return rate.RateResponse{}, err
	}

	return mapToRateResponse(created), nil
}

// GetRate implements rate.RateService.
func (s *RateServiceImpl) GetRate(ctx context.Context, ind industry.Industry, id int64) (rate.RateResponse, error) {
	cr, err := s.rateRepo.GetByID(ctx, ind, id)
	if err != nil {
		return rate.RateResponse{}, err
	}

	return mapToRateResponse(cr), nil
}

// ListRates implements rate.RateService.
func (s *RateServiceImpl) ListRates(ctx context.Context, ind industry.Industry, filter rate.RateFilter) (rate.ListRateResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	rates, total, err := s.rateRepo.List(ctx, ind, filter)
	if err != nil {
		return rate.ListRateResponse{}, err
	}

	resp := rate.ListRateResponse{
		Data:       make([]rate.RateResponse, 0, len(rates)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, cr := range rates {
		resp.Data = append(resp.Data, mapToRateResponse(cr))
	}

	return resp, nil
}

// UpdateRate implements rate.RateService.
func (s *RateServiceImpl) UpdateRate(ctx context.Context, req rate.UpdateRateRequest, actorID int64) (rate.RateResponse, error) {
	if err := req.Validate(); err != nil {
		return rate.RateResponse{}, err
	}

	ind := industry.Industry(req.Industry)
	if err := s.rateRepo.Update(ctx, ind, req, actorID); err != nil {
		return rate.RateResponse{}, err
	}

	updated, err := s.rateRepo.GetByID(ctx, ind, req.ID)
	if err != nil {
		return rate.RateResponse{}, err
	}

	return mapToRateResponse(updated), nil
}

// DeactivateRate implements rate.RateService.
func (s *RateServiceImpl) DeactivateRate(ctx context.Context, ind industry.Industry, id int64, actorID int64) error {
	return s.rateRepo.Deactivate(ctx, ind, id, actorID)
}

// Resolve implements rate.RateService.
func (s *RateServiceImpl) Resolve(ctx context.Context, ind industry.Industry, userID int64, q rate.Query) (rate.CommissionRate, bool, error) {
	candidates, err := s.rateRepo.ActiveForUser(ctx, ind, userID, q.OnDate)
	if err != nil {
		return rate.CommissionRate{}, false, err
	}

	best, found := rate.BestMatch(candidates, q)
	return best, found, nil
}

func mapToRateResponse(cr rate.CommissionRate) rate.RateResponse {
	resp := rate.RateResponse{
		ID:             cr.ID,
		Industry:       string(cr.Industry),
		UserID:         cr.UserID,
		RoleID:         cr.RoleID,
		InstallerID:    cr.InstallerID,
		StateCode:      cr.StateCode,
		PercentMp1:     cr.PercentMp1,
		FlatMp1:        cr.FlatMp1,
		PercentMp2:     cr.PercentMp2,
		FlatMp2:        cr.FlatMp2,
		IsActive:       cr.IsActive,
		EffectiveStart: cr.EffectiveStart.Format("2006-01-02"),
	}
	if cr.EffectiveEnd != nil {
		end := cr.EffectiveEnd.Format("2006-01-02")
		resp.EffectiveEnd = &end
	}
	return resp
}
