package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/response"
	"github.com/sparkhq/spark-backend-go/internal/pkg/validator"
)

type TeamHandler interface {
	GetMyTeam(w http.ResponseWriter, r *http.Request)
	GetTeam(w http.ResponseWriter, r *http.Request)
}

type TeamHandlerImpl struct {
	teamService employee.TeamService
}

func NewTeamHandler(teamService employee.TeamService) TeamHandler {
	return &TeamHandlerImpl{teamService: teamService}
}

// GetMyTeam implements TeamHandler.
func (h *TeamHandlerImpl) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetTeam(r.Context(), actorIDFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, team)
}

// GetTeam implements TeamHandler.
func (h *TeamHandlerImpl) GetTeam(w http.ResponseWriter, r *http.Request) {
	managerUserID, ok := validator.ParseID(chi.URLParam(r, "userId"))
	if !ok {
		response.BadRequest(w, "Invalid user id", nil)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), managerUserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, team)
}
