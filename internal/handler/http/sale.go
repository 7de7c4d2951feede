package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/commission"
	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
	"github.com/sparkhq/spark-backend-go/internal/domain/sale"
	"github.com/sparkhq/spark-backend-go/internal/domain/user"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/middleware"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/response"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

type SaleHandler interface {
	GetSale(w http.ResponseWriter, r *http.Request)
	ListSales(w http.ResponseWriter, r *http.Request)
	CancelSale(w http.ResponseWriter, r *http.Request)
	RunMilestone(w http.ResponseWriter, r *http.Request)
}

type SaleHandlerImpl struct {
	saleService       sale.SaleService
	commissionService commission.CommissionService
	teamService       employee.TeamService
}

func NewSaleHandler(saleService sale.SaleService, commissionService commission.CommissionService, teamService employee.TeamService) SaleHandler {
	return &SaleHandlerImpl{
		saleService:       saleService,
		commissionService: commissionService,
		teamService:       teamService,
	}
}

// GetSale implements SaleHandler.
func (h *SaleHandlerImpl) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid sale id", nil)
		return
	}

	found, err := h.saleService.GetSale(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// ListSales implements SaleHandler.
//
// Readers below director level only see sales inside their own hierarchy.
func (h *SaleHandlerImpl) ListSales(w http.ResponseWriter, r *http.Request) {
	filter := sale.SaleFilter{
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if from := r.URL.Query().Get("date_from"); from != "" {
		filter.DateFrom = &from
	}
	if to := r.URL.Query().Get("date_to"); to != "" {
		filter.DateTo = &to
	}

	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var sales sale.ListSaleResponse
	if middleware.AuthorityFromClaims(claims) < user.AuthorityDirector {
		userIDs, err := h.teamService.AccessibleUserIDs(r.Context(), middleware.UserIDFromClaims(claims))
		if err != nil {
			response.HandleError(w, err)
			return
		}
		sales, err = h.saleService.ListSalesForUsers(r.Context(), userIDs, filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
	} else {
		sales, err = h.saleService.ListSales(r.Context(), filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
	}

	response.SuccessWithMeta(w, sales.Data, &response.Meta{
		Page:       sales.Page,
		Limit:      sales.Limit,
		TotalItems: sales.TotalCount,
	})
}

// CancelSale implements SaleHandler.
func (h *SaleHandlerImpl) CancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid sale id", nil)
		return
	}

	var req sale.CancelSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CancelSale decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := h.saleService.CancelSale(r.Context(), req, actorIDFromRequest(r)); err != nil {
		slog.Error("CancelSale service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sale cancelled", nil)
}

// RunMilestone implements SaleHandler.
func (h *SaleHandlerImpl) RunMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid sale id", nil)
		return
	}

	milestone, err := strconv.Atoi(chi.URLParam(r, "milestone"))
	if err != nil {
		response.BadRequest(w, "Invalid milestone number", nil)
		return
	}

	result, err := h.commissionService.SaveMilestoneAllocations(r.Context(), id, milestone, actorIDFromRequest(r))
	if err != nil {
		slog.Error("RunMilestone service error", "error", err, "sale_id", id, "milestone", milestone)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Milestone allocations saved", result)
}
