package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/user"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/middleware"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/response"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

type AllocationHandler interface {
	ListForSale(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	PendingApprovals(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	ApproveOverride(w http.ResponseWriter, r *http.Request)
	BatchApprove(w http.ResponseWriter, r *http.Request)
	Paystub(w http.ResponseWriter, r *http.Request)
	ListClawbacks(w http.ResponseWriter, r *http.Request)
}

type AllocationHandlerImpl struct {
	allocationService allocation.AllocationService
	teamService       employee.TeamService
}

func NewAllocationHandler(allocationService allocation.AllocationService, teamService employee.TeamService) AllocationHandler {
	return &AllocationHandlerImpl{
		allocationService: allocationService,
		teamService:       teamService,
	}
}

func allocationFilterFromQuery(r *http.Request) allocation.AllocationFilter {
	filter := allocation.AllocationFilter{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if ind, err := industry.Parse(r.URL.Query().Get("industry")); err == nil {
		filter.Industry = &ind
	}
	if saleID, ok := validator.ParseID(r.URL.Query().Get("sale_id")); ok {
		filter.SaleID = &saleID
	}
	if approved := r.URL.Query().Get("is_approved"); approved != "" {
		v := approved == "true"
		filter.IsApproved = &v
	}
	if paid := r.URL.Query().Get("is_paid"); paid != "" {
		v := paid == "true"
		filter.IsPaid = &v
	}
	if r.URL.Query().Get("unbatched") == "true" {
		filter.Unbatched = true
	}
	return filter
}

// ListForSale implements AllocationHandler.
func (h *AllocationHandlerImpl) ListForSale(w http.ResponseWriter, r *http.Request) {
	saleID, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid sale id", nil)
		return
	}

	allocations, overrides, err := h.allocationService.AllocationsForSale(r.Context(), saleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"allocations": allocations,
		"overrides":   overrides,
	})
}

// List implements AllocationHandler.
//
// Readers below director level only see allocations inside their own
// hierarchy.
func (h *AllocationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := allocationFilterFromQuery(r)

	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if middleware.AuthorityFromClaims(claims) < user.AuthorityDirector {
		userIDs, err := h.teamService.AccessibleUserIDs(r.Context(), middleware.UserIDFromClaims(claims))
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.UserIDs = userIDs
	} else if userID, ok := validator.ParseID(r.URL.Query().Get("user_id")); ok {
		filter.UserID = &userID
	}

	allocations, err := h.allocationService.AllAllocations(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, allocations.Data, &response.Meta{
		Page:       allocations.Page,
		Limit:      allocations.Limit,
		TotalItems: allocations.TotalCount,
	})
}

// PendingApprovals implements AllocationHandler.
func (h *AllocationHandlerImpl) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	filter := allocationFilterFromQuery(r)

	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var userIDs []int64
	if middleware.AuthorityFromClaims(claims) < user.AuthorityDirector {
		userIDs, err = h.teamService.AccessibleUserIDs(r.Context(), middleware.UserIDFromClaims(claims))
		if err != nil {
			response.HandleError(w, err)
			return
		}
	}

	pending, err := h.allocationService.PendingApprovals(r.Context(), userIDs, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, pending.Data, &response.Meta{
		Page:       pending.Page,
		Limit:      pending.Limit,
		TotalItems: pending.TotalCount,
	})
}

// Approve implements AllocationHandler.
func (h *AllocationHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	ind, err := industryFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid allocation id", nil)
		return
	}

	if err := h.allocationService.ApproveAllocation(r.Context(), ind, id, actorIDFromRequest(r)); err != nil {
		slog.Error("Approve service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Allocation approved", nil)
}

// ApproveOverride implements AllocationHandler.
func (h *AllocationHandlerImpl) ApproveOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid override id", nil)
		return
	}

	if err := h.allocationService.ApproveOverride(r.Context(), id, actorIDFromRequest(r)); err != nil {
		slog.Error("ApproveOverride service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Override allocation approved", nil)
}

// BatchApprove implements AllocationHandler.
func (h *AllocationHandlerImpl) BatchApprove(w http.ResponseWriter, r *http.Request) {
	var req allocation.BatchApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("BatchApprove decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.allocationService.BatchApprove(r.Context(), req, actorIDFromRequest(r))
	if err != nil {
		slog.Error("BatchApprove service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Batch approval processed", result)
}

// Paystub implements AllocationHandler.
func (h *AllocationHandlerImpl) Paystub(w http.ResponseWriter, r *http.Request) {
	userID := actorIDFromRequest(r)

	paystub, err := h.allocationService.Paystub(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, paystub)
}

// ListClawbacks implements AllocationHandler.
func (h *AllocationHandlerImpl) ListClawbacks(w http.ResponseWriter, r *http.Request) {
	filter := allocation.ClawbackFilter{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if userID, ok := validator.ParseID(r.URL.Query().Get("user_id")); ok {
		filter.UserID = &userID
	}
	if saleID, ok := validator.ParseID(r.URL.Query().Get("sale_id")); ok {
		filter.SaleID = &saleID
	}
	if processed := r.URL.Query().Get("processed"); processed != "" {
		v := processed == "true"
		filter.Processed = &v
	}

	clawbacks, total, err := h.allocationService.ListClawbacks(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, clawbacks, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
	})
}
