package commission

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/sale"
)

// CommissionService is the resolution and allocation engine: milestone base
// amounts, override walking, and the idempotent allocation upsert.
type CommissionService interface {
	// CommissionableAmount derives the dollar base a milestone commissions
	// against, per industry rules. Pure, never mutates the sale.
	CommissionableAmount(s sale.Sale, milestone int) (decimal.Decimal, error)

	// WalkOverrides walks the reporting chain upward from the sales rep,
	// emitting one entry per manager level with a nonzero amount. Capped at
	// five levels, and a chain cycling back to the rep stops the walk.
	WalkOverrides(ctx context.Context, ind industry.Industry, salesRepUserID int64, base decimal.Decimal, milestone int, onDate time.Time) ([]OverrideResult, error)

	// SaveMilestoneAllocations resolves a rate and upserts one allocation
	// per participant, then walks each participant's chain and upserts the
	// overrides, keyed by (sale, user, milestone) and (sale, user, level).
	// Zero amounts are not persisted. Safe to call repeatedly;
	// re-invocation converges.
	SaveMilestoneAllocations(ctx context.Context, saleID int64, milestone int, actorID int64) (SaveResult, error)
}
