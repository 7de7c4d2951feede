package sale

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
)

// SaleStatus enum
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusApproved  SaleStatus = "APPROVED"
	SaleStatusInstalled SaleStatus = "INSTALLED"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
	SaleStatusOnHold    SaleStatus = "ON_HOLD"
)

func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusApproved, SaleStatusInstalled,
		SaleStatusCompleted, SaleStatusCancelled, SaleStatusOnHold:
		return true
	}
	return false
}

// Sale - an industry-tagged transaction. Exactly one industry detail is
// attached, matching the Industry tag.
type Sale struct {
	ID             int64
	Industry       industry.Industry
	CustomerID     *int64
	CustomerName   *string
	Status         SaleStatus
	SaleDate       time.Time
	ContractAmount decimal.Decimal
	IsActive       bool
	CancelledAt    *time.Time
	CancelledBy    *int64
	CancelReason   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Participants   []Participant
	Solar          *SolarDetail
	Pest           *PestDetail
	Roofing        *RoofingDetail
	Fiber          *FiberDetail
}

// Participant - a user attached to the sale with a split share of the
// commissionable base.
type Participant struct {
	ID           int64
	SaleID       int64
	UserID       int64
	RoleID       *int64
	SplitPercent decimal.Decimal
	IsPrimary    bool
}

type SolarDetail struct {
	SaleID          int64
	SystemSoldValue *decimal.Decimal
	InstallerID     *int64
	StateCode       *string
}

type PestDetail struct {
	SaleID              int64
	InitialServicePrice *decimal.Decimal
	ContractTotalValue  *decimal.Decimal
	StateCode           *string
}

type RoofingDetail struct {
	SaleID                 int64
	FrontendReceivedAmount *decimal.Decimal
	BackendReceivedAmount  *decimal.Decimal
	InstallerID            *int64
	StateCode              *string
}

type FiberDetail struct {
	SaleID      int64
	InstallerID *int64
	StateCode   *string
}

// InstallerID returns the installer attached to the industry detail, if any.
func (s Sale) InstallerID() *int64 {
	switch {
	case s.Solar != nil:
		return s.Solar.InstallerID
	case s.Roofing != nil:
		return s.Roofing.InstallerID
	case s.Fiber != nil:
		return s.Fiber.InstallerID
	}
	return nil
}

// StateCode returns the state attached to the industry detail, if any.
func (s Sale) StateCode() *string {
	switch {
	case s.Solar != nil:
		return s.Solar.StateCode
	case s.Pest != nil:
		return s.Pest.StateCode
	case s.Roofing != nil:
		return s.Roofing.StateCode
	case s.Fiber != nil:
		return s.Fiber.StateCode
	}
	return nil
}
