package response

import (
	"errors"
	"net/http"

	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/auth"
	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/rate"
	"github.com/sparkhq/spark-backend-go/internal/domain/sale"
	"github.com/sparkhq/spark-backend-go/internal/domain/user"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var transitionErr *batch.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		Conflict(w, transitionErr.Error())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, user.ErrInsufficientAuthority),
		errors.Is(err, user.ErrRateReadAccessRequired),
		errors.Is(err, user.ErrRateWriteAccessRequired),
		errors.Is(err, user.ErrBatchManageAccessRequired):
		Forbidden(w, err.Error())

	// Rate domain errors
	case errors.Is(err, rate.ErrRateNotFound):
		NotFound(w, "Commission rate not found")
	case errors.Is(err, rate.ErrRateInactive):
		Conflict(w, "Commission rate is inactive")
	case errors.Is(err, rate.ErrInvalidIndustry), errors.Is(err, industry.ErrUnknownIndustry):
		BadRequest(w, "Invalid industry", nil)
	case errors.Is(err, rate.ErrInvalidMilestone):
		BadRequest(w, "Milestone number must be 1 or 2", nil)

	// Sale domain errors
	case errors.Is(err, sale.ErrSaleNotFound):
		NotFound(w, "Sale not found")
	case errors.Is(err, sale.ErrSaleAlreadyCancelled):
		Conflict(w, "Sale already cancelled")
	case errors.Is(err, sale.ErrSaleHasNoDetail):
		Conflict(w, "Sale has no industry detail record")

	// Allocation domain errors
	case errors.Is(err, allocation.ErrAllocationNotFound):
		NotFound(w, "Allocation not found")
	case errors.Is(err, allocation.ErrOverrideNotFound):
		NotFound(w, "Override allocation not found")
	case errors.Is(err, allocation.ErrClawbackNotFound):
		NotFound(w, "Clawback not found")
	case errors.Is(err, allocation.ErrAllocationAlreadyPaid):
		Conflict(w, "Allocation already paid")
	case errors.Is(err, allocation.ErrAllocationNotApproved):
		Conflict(w, "Allocation is not approved")
	case errors.Is(err, allocation.ErrAllocationInOtherBatch):
		Conflict(w, "Allocation already attached to another batch")

	// Payroll batch domain errors
	case errors.Is(err, batch.ErrBatchNotFound):
		NotFound(w, "Payroll batch not found")
	case errors.Is(err, batch.ErrBatchNotDraft):
		Conflict(w, "Payroll batch is not in draft")
	case errors.Is(err, batch.ErrConcurrencyConflict):
		Conflict(w, "Payroll batch was modified concurrently, retry")
	case errors.Is(err, batch.ErrInvalidStatus):
		BadRequest(w, "Invalid payroll batch status", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
