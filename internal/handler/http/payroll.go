package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/response"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

type PayrollBatchHandler interface {
	CreateBatch(w http.ResponseWriter, r *http.Request)
	GetBatch(w http.ResponseWriter, r *http.Request)
	ListBatches(w http.ResponseWriter, r *http.Request)
	UpdateBatch(w http.ResponseWriter, r *http.Request)
	AddAllocations(w http.ResponseWriter, r *http.Request)
	SubmitBatch(w http.ResponseWriter, r *http.Request)
	ApproveBatch(w http.ResponseWriter, r *http.Request)
	ExportBatch(w http.ResponseWriter, r *http.Request)
	MarkBatchPaid(w http.ResponseWriter, r *http.Request)
	CancelBatch(w http.ResponseWriter, r *http.Request)
	RecalculateTotals(w http.ResponseWriter, r *http.Request)
}

type PayrollBatchHandlerImpl struct {
	batchService batch.BatchService
}

func NewPayrollBatchHandler(batchService batch.BatchService) PayrollBatchHandler {
	return &PayrollBatchHandlerImpl{batchService: batchService}
}

func batchIDFromURL(r *http.Request) (int64, bool) {
	return validator.ParseID(chi.URLParam(r, "id"))
}

// CreateBatch implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req batch.CreateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateBatch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.batchService.CreateBatch(r.Context(), req, actorIDFromRequest(r))
	if err != nil {
		slog.Error("CreateBatch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll batch created", created)
}

// GetBatch implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := batchIDFromURL(r)
	if !ok {
		response.BadRequest(w, "Invalid batch id", nil)
		return
	}

	found, err := h.batchService.GetBatch(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// ListBatches implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) ListBatches(w http.ResponseWriter, r *http.Request) {
	filter := batch.BatchFilter{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if from := r.URL.Query().Get("period_from"); from != "" {
		filter.PeriodFrom = &from
	}
	if to := r.URL.Query().Get("period_to"); to != "" {
		filter.PeriodTo = &to
	}

	batches, err := h.batchService.ListBatches(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, batches.Data, &response.Meta{
		Page:       batches.Page,
		Limit:      batches.Limit,
		TotalItems: batches.TotalCount,
	})
}

// UpdateBatch implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := batchIDFromURL(r)
	if !ok {
		response.BadRequest(w, "Invalid batch id", nil)
		return
	}

	var req batch.UpdateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateBatch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	updated, err := h.batchService.UpdateBatch(r.Context(), req)
	if err != nil {
		slog.Error("UpdateBatch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll batch updated", updated)
}

// AddAllocations implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) AddAllocations(w http.ResponseWriter, r *http.Request) {
	id, ok := batchIDFromURL(r)
	if !ok {
		response.BadRequest(w, "Invalid batch id", nil)
		return
	}

	var req batch.AddAllocationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddAllocations decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.BatchID = id

	result, err := h.batchService.AddAllocations(r.Context(), req, actorIDFromRequest(r))
	if err != nil {
		slog.Error("AddAllocations service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Allocations added to batch", result)
}

func (h *PayrollBatchHandlerImpl) transition(w http.ResponseWriter, r *http.Request, message string, fn func(id int64, actorID int64) (batch.BatchResponse, error)) {
	id, ok := batchIDFromURL(r)
	if !ok {
		response.BadRequest(w, "Invalid batch id", nil)
		return
	}

	updated, err := fn(id, actorIDFromRequest(r))
	if err != nil {
		slog.Error("Batch transition error", "error", err, "batch_id", id)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, updated)
}

// SubmitBatch implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll batch submitted", func(id, actorID int64) (batch.BatchResponse, error) {
		return h.batchService.SubmitBatch(r.Context(), id, actorID)
	})
}

// ApproveBatch implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) ApproveBatch(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll batch approved", func(id, actorID int64) (batch.BatchResponse, error) {
		return h.batchService.ApproveBatch(r.Context(), id, actorID)
	})
}

// ExportBatch implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) ExportBatch(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll batch exported", func(id, actorID int64) (batch.BatchResponse, error) {
		return h.batchService.ExportBatch(r.Context(), id, actorID)
	})
}

// MarkBatchPaid implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) MarkBatchPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll batch marked paid", func(id, actorID int64) (batch.BatchResponse, error) {
		return h.batchService.MarkBatchPaid(r.Context(), id, actorID)
	})
}

// CancelBatch implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) CancelBatch(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Payroll batch cancelled", func(id, actorID int64) (batch.BatchResponse, error) {
		return h.batchService.CancelBatch(r.Context(), id, actorID)
	})
}

// RecalculateTotals implements PayrollBatchHandler.
func (h *PayrollBatchHandlerImpl) RecalculateTotals(w http.ResponseWriter, r *http.Request) {
	id, ok := batchIDFromURL(r)
	if !ok {
		response.BadRequest(w, "Invalid batch id", nil)
		return
	}

	total, count, err := h.batchService.RecalculateTotals(r.Context(), id)
	if err != nil {
		slog.Error("RecalculateTotals service error", "error", err, "batch_id", id)
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"total_amount": total,
		"record_count": count,
	})
}
