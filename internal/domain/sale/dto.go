package sale

import (
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

type SaleFilter struct {
	UserID    *int64
	Status    *string
	DateFrom  *string
	DateTo    *string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type ParticipantResponse struct {
	UserID       int64           `json:"user_id"`
	RoleID       *int64          `json:"role_id,omitempty"`
	SplitPercent decimal.Decimal `json:"split_percent"`
	IsPrimary    bool            `json:"is_primary"`
}

type SaleResponse struct {
	ID             int64                 `json:"id"`
	Industry       string                `json:"industry"`
	CustomerName   *string               `json:"customer_name,omitempty"`
	Status         string                `json:"status"`
	SaleDate       string                `json:"sale_date"`
	ContractAmount decimal.Decimal       `json:"contract_amount"`
	IsActive       bool                  `json:"is_active"`
	CancelReason   *string               `json:"cancel_reason,omitempty"`
	Participants   []ParticipantResponse `json:"participants,omitempty"`
	Detail         interface{}           `json:"detail,omitempty"`
}

type ListSaleResponse struct {
	Data       []SaleResponse `json:"data"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

type CancelSaleRequest struct {
	ID     int64
	Reason string `json:"reason"`
}

func (r *CancelSaleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
