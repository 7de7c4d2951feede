package commission

import (
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
)

// OverrideResult - one emitted manager level from an override walk.
type OverrideResult struct {
	ManagerUserID int64           `json:"manager_user_id"`
	Level         int             `json:"level"`
	Amount        decimal.Decimal `json:"amount"`
}

// ParticipantWarning records a participant skipped during an upsert, with the
// reason. Warnings ride alongside successful rows, they never fail the call.
type ParticipantWarning struct {
	UserID int64  `json:"user_id"`
	Reason string `json:"reason"`
}

// SaveResult - everything a milestone upsert wrote, plus skipped
// participants.
type SaveResult struct {
	SaleID      int64                           `json:"sale_id"`
	Milestone   int                             `json:"milestone"`
	Allocations []allocation.Allocation         `json:"allocations"`
	Overrides   []allocation.OverrideAllocation `json:"overrides"`
	Warnings    []ParticipantWarning            `json:"warnings,omitempty"`
}
