package rate

import (
	"context"

	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
)

// RateService defines business logic for commission-rate administration and
// resolution.
type RateService interface {
	CreateRate(ctx context.Context, req CreateRateRequest, actorID int64) (RateResponse, error)
	GetRate(ctx context.Context, ind industry.Industry, id int64) (RateResponse, error)
	ListRates(ctx context.Context, ind industry.Industry, filter RateFilter) (ListRateResponse, error)
	UpdateRate(ctx context.Context, req UpdateRateRequest, actorID int64) (RateResponse, error)

	// DeactivateRate soft-deactivates a rate. Rates are never hard-deleted.
	DeactivateRate(ctx context.Context, ind industry.Industry, id int64, actorID int64) error

	// Resolve selects the best-matching active rate for a user in an
	// industry. A false second return means no rate applies, which callers
	// treat as zero commission owed.
	Resolve(ctx context.Context, ind industry.Industry, userID int64, q Query) (CommissionRate, bool, error)
}
