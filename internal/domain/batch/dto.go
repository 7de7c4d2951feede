package batch

import (
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

type CreateBatchRequest struct {
	Name        string  `json:"name"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *CreateBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a YYYY-MM-DD date"})
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a YYYY-MM-DD date"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateBatchRequest struct {
	ID          int64
	Name        *string `json:"name,omitempty"`
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *UpdateBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.PeriodStart != nil {
		if _, ok := validator.IsValidDate(*r.PeriodStart); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a YYYY-MM-DD date"})
		}
	}
	if r.PeriodEnd != nil {
		if _, ok := validator.IsValidDate(*r.PeriodEnd); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a YYYY-MM-DD date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AddAllocationItem names one allocation or override to tag with the batch.
type AddAllocationItem struct {
	Industry     string `json:"industry,omitempty"`
	AllocationID int64  `json:"allocation_id"`
	IsOverride   bool   `json:"is_override"`
}

type AddAllocationsRequest struct {
	BatchID int64
	Items   []AddAllocationItem `json:"items"`
}

func (r *AddAllocationsRequest) Validate() error {
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

// AddAllocationsResult reports per-item outcomes; ineligible rows are listed
// in Errors without failing the rest.
type AddAllocationsResult struct {
	Added       int             `json:"added"`
	Total       int             `json:"total"`
	Errors      []string        `json:"errors,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RecordCount int             `json:"record_count"`
}

type BatchResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Status      string          `json:"status"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RecordCount int             `json:"record_count"`
	Notes       *string         `json:"notes,omitempty"`
	SubmittedAt *string         `json:"submitted_at,omitempty"`
	ApprovedAt  *string         `json:"approved_at,omitempty"`
	ExportedAt  *string         `json:"exported_at,omitempty"`
	PaidAt      *string         `json:"paid_at,omitempty"`
	CancelledAt *string         `json:"cancelled_at,omitempty"`
	ExportPath  *string         `json:"export_path,omitempty"`
}

type BatchDetailResponse struct {
	BatchResponse
	Allocations []allocation.UnifiedAllocationResponse `json:"allocations"`
	Overrides   []allocation.OverrideResponse          `json:"overrides"`
}

type BatchFilter struct {
	Status     *string
	PeriodFrom *string
	PeriodTo   *string
	Page       int
	Limit      int
}

type ListBatchResponse struct {
	Data       []BatchResponse `json:"data"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
