package allocation

import (
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

// UnifiedAllocationResponse carries the common allocation fields plus the
// industry discriminator, so callers never see the four physical tables.
type UnifiedAllocationResponse struct {
	ID              int64           `json:"id"`
	Industry        string          `json:"industry"`
	SaleID          int64           `json:"sale_id"`
	UserID          int64           `json:"user_id"`
	MilestoneNumber int             `json:"milestone_number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	IsApproved      bool            `json:"is_approved"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	ApprovedBy      *int64          `json:"approved_by,omitempty"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *string         `json:"paid_at,omitempty"`
	PayrollBatchID  *int64          `json:"payroll_batch_id,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

type OverrideResponse struct {
	ID              int64           `json:"id"`
	SaleID          int64           `json:"sale_id"`
	UserID          int64           `json:"user_id"`
	SourceUserID    int64           `json:"source_user_id"`
	OverrideLevel   int             `json:"override_level"`
	MilestoneNumber int             `json:"milestone_number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	IsApproved      bool            `json:"is_approved"`
	IsPaid          bool            `json:"is_paid"`
	PayrollBatchID  *int64          `json:"payroll_batch_id,omitempty"`
}

type AllocationFilter struct {
	Industry   *industry.Industry
	SaleID     *int64
	UserID     *int64
	UserIDs    []int64
	IsApproved *bool
	IsPaid     *bool
	BatchID    *int64
	Unbatched  bool
	Page       int
	Limit      int
}

type ListAllocationResponse struct {
	Data       []UnifiedAllocationResponse `json:"data"`
	TotalCount int64                       `json:"total_count"`
	Page       int                         `json:"page"`
	Limit      int                         `json:"limit"`
}

// BatchApproveItem names one allocation inside a batch-approve request.
type BatchApproveItem struct {
	Industry     string `json:"industry"`
	AllocationID int64  `json:"allocation_id"`
	IsOverride   bool   `json:"is_override"`
}

type BatchApproveRequest struct {
	Items []BatchApproveItem `json:"items"`
}

func (r *BatchApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{Field: "items", Message: "at least one item is required"})
	}
	for _, item := range r.Items {
		if !item.IsOverride && !industry.Industry(item.Industry).Valid() {
			errs = append(errs, validator.ValidationError{Field: "items", Message: "each non-override item needs a valid industry"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BatchApproveResult lists per-item outcomes. One bad item never aborts the
// rest.
type BatchApproveResult struct {
	Approved int      `json:"approved"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors,omitempty"`
}

type ClawbackResponse struct {
	ID          int64           `json:"id"`
	Industry    string          `json:"industry"`
	SaleID      int64           `json:"sale_id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      *string         `json:"reason,omitempty"`
	IsProcessed bool            `json:"is_processed"`
	ProcessedAt *string         `json:"processed_at,omitempty"`
}

// PaystubResponse groups a user's paid commissions by payroll batch.
type PaystubResponse struct {
	UserID      int64                       `json:"user_id"`
	TotalPaid   decimal.Decimal             `json:"total_paid"`
	Allocations []UnifiedAllocationResponse `json:"allocations"`
	Overrides   []OverrideResponse          `json:"overrides"`
}

type ClawbackFilter struct {
	UserID    *int64
	SaleID    *int64
	Processed *bool
	Page      int
	Limit     int
}
