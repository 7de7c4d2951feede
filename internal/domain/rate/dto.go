package rate

import (
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

type CreateRateRequest struct {
	Industry       string           `json:"-"`
	UserID         int64            `json:"user_id"`
	RoleID         *int64           `json:"role_id,omitempty"`
	InstallerID    *int64           `json:"installer_id,omitempty"`
	StateCode      *string          `json:"state_code,omitempty"`
	PercentMp1     *decimal.Decimal `json:"percent_mp1,omitempty"`
	FlatMp1        *decimal.Decimal `json:"flat_mp1,omitempty"`
	PercentMp2     *decimal.Decimal `json:"percent_mp2,omitempty"`
	FlatMp2        *decimal.Decimal `json:"flat_mp2,omitempty"`
	EffectiveStart string           `json:"effective_start"`
	EffectiveEnd   *string          `json:"effective_end,omitempty"`
}

func (r *CreateRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !industry.Industry(r.Industry).Valid() {
		errs = append(errs, validator.ValidationError{Field: "industry", Message: "must be one of solar, pest, roofing, fiber"})
	}
	if r.UserID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "is required"})
	}
	if r.EffectiveStart == "" {
		errs = append(errs, validator.ValidationError{Field: "effective_start", Message: "is required"})
	} else if _, ok := validator.IsValidDate(r.EffectiveStart); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_start", Message: "must be a YYYY-MM-DD date"})
	}
	if r.EffectiveEnd != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveEnd); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_end", Message: "must be a YYYY-MM-DD date"})
		}
	}
	if r.StateCode != nil && !validator.IsValidStateCode(*r.StateCode) {
		errs = append(errs, validator.ValidationError{Field: "state_code", Message: "must be a two-letter state code"})
	}
	for field, v := range map[string]*decimal.Decimal{
		"percent_mp1": r.PercentMp1,
		"flat_mp1":    r.FlatMp1,
		"percent_mp2": r.PercentMp2,
		"flat_mp2":    r.FlatMp2,
	} {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRateRequest struct {
	ID             int64
	Industry       string           `json:"-"`
	RoleID         *int64           `json:"role_id,omitempty"`
	InstallerID    *int64           `json:"installer_id,omitempty"`
	StateCode      *string          `json:"state_code,omitempty"`
	PercentMp1     *decimal.Decimal `json:"percent_mp1,omitempty"`
	FlatMp1        *decimal.Decimal `json:"flat_mp1,omitempty"`
	PercentMp2     *decimal.Decimal `json:"percent_mp2,omitempty"`
	FlatMp2        *decimal.Decimal `json:"flat_mp2,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
	EffectiveStart *string          `json:"effective_start,omitempty"`
	EffectiveEnd   *string          `json:"effective_end,omitempty"`
}

func (r *UpdateRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !industry.Industry(r.Industry).Valid() {
		errs = append(errs, validator.ValidationError{Field: "industry", Message: "must be one of solar, pest, roofing, fiber"})
	}
	if r.EffectiveStart != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveStart); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_start", Message: "must be a YYYY-MM-DD date"})
		}
	}
	if r.EffectiveEnd != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveEnd); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_end", Message: "must be a YYYY-MM-DD date"})
		}
	}
	if r.StateCode != nil && !validator.IsValidStateCode(*r.StateCode) {
		errs = append(errs, validator.ValidationError{Field: "state_code", Message: "must be a two-letter state code"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RateResponse struct {
	ID             int64            `json:"id"`
	Industry       string           `json:"industry"`
	UserID         int64            `json:"user_id"`
	RoleID         *int64           `json:"role_id,omitempty"`
	InstallerID    *int64           `json:"installer_id,omitempty"`
	StateCode      *string          `json:"state_code,omitempty"`
	PercentMp1     *decimal.Decimal `json:"percent_mp1,omitempty"`
	FlatMp1        *decimal.Decimal `json:"flat_mp1,omitempty"`
	PercentMp2     *decimal.Decimal `json:"percent_mp2,omitempty"`
	FlatMp2        *decimal.Decimal `json:"flat_mp2,omitempty"`
	IsActive       bool             `json:"is_active"`
	EffectiveStart string           `json:"effective_start"`
	EffectiveEnd   *string          `json:"effective_end,omitempty"`
}

type RateFilter struct {
	UserID      *int64
	RoleID      *int64
	InstallerID *int64
	StateCode   *string
	ActiveOnly  bool
	Page        int
	Limit       int
}

type ListRateResponse struct {
	Data       []RateResponse `json:"data"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}
