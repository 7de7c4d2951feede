package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/rate"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/middleware"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/response"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

type RateHandler interface {
	CreateRate(w http.ResponseWriter, r *http.Request)
	GetRate(w http.ResponseWriter, r *http.Request)
	ListRates(w http.ResponseWriter, r *http.Request)
	UpdateRate(w http.ResponseWriter, r *http.Request)
	DeactivateRate(w http.ResponseWriter, r *http.Request)
}

type RateHandlerImpl struct {
	rateService rate.RateService
}

func NewRateHandler(rateService rate.RateService) RateHandler {
	return &RateHandlerImpl{rateService: rateService}
}

func industryFromURL(r *http.Request) (industry.Industry, error) {
	return industry.Parse(chi.URLParam(r, "industry"))
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func actorIDFromRequest(r *http.Request) int64 {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0
	}
	return middleware.UserIDFromClaims(claims)
}

// CreateRate implements RateHandler.
func (h *RateHandlerImpl) CreateRate(w http.ResponseWriter, r *http.Request) {
	ind, err := industryFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req rate.CreateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Industry = string(ind)

	created, err := h.rateService.CreateRate(r.Context(), req, actorIDFromRequest(r))
	if err != nil {
		slog.Error("CreateRate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Commission rate created", created)
}

// GetRate implements RateHandler.
func (h *RateHandlerImpl) GetRate(w http.ResponseWriter, r *http.Request) {
	ind, err := industryFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid rate id", nil)
		return
	}

	found, err := h.rateService.GetRate(r.Context(), ind, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// ListRates implements RateHandler.
func (h *RateHandlerImpl) ListRates(w http.ResponseWriter, r *http.Request) {
	ind, err := industryFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := rate.RateFilter{
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
		ActiveOnly: r.URL.Query().Get("active_only") == "true",
	}
	if userID, ok := validator.ParseID(r.URL.Query().Get("user_id")); ok {
		filter.UserID = &userID
	}
	if roleID, ok := validator.ParseID(r.URL.Query().Get("role_id")); ok {
		filter.RoleID = &roleID
	}
	if installerID, ok := validator.ParseID(r.URL.Query().Get("installer_id")); ok {
		filter.InstallerID = &installerID
	}
	if state := r.URL.Query().Get("state_code"); state != "" {
		filter.StateCode = &state
	}

	rates, err := h.rateService.ListRates(r.Context(), ind, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, rates.Data, &response.Meta{
		Page:       rates.Page,
		Limit:      rates.Limit,
		TotalItems: rates.TotalCount,
	})
}

// UpdateRate implements RateHandler.
func (h *RateHandlerImpl) UpdateRate(w http.ResponseWriter, r *http.Request) {
	ind, err := industryFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid rate id", nil)
		return
	}

	var req rate.UpdateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id
	req.Industry = string(ind)

	updated, err := h.rateService.UpdateRate(r.Context(), req, actorIDFromRequest(r))
	if err != nil {
		slog.Error("UpdateRate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission rate updated", updated)
}

// DeactivateRate implements RateHandler.
func (h *RateHandlerImpl) DeactivateRate(w http.ResponseWriter, r *http.Request) {
	ind, err := industryFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid rate id", nil)
		return
	}

	if err := h.rateService.DeactivateRate(r.Context(), ind, id, actorIDFromRequest(r)); err != nil {
		slog.Error("DeactivateRate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission rate deactivated", nil)
}
