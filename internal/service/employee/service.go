package employee

import (
	"context"
	"fmt"

	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
)

type TeamServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewTeamService(employeeRepo employee.EmployeeRepository) employee.TeamService {
	return &TeamServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// GetTeam implements employee.TeamService.
func (s *TeamServiceImpl) GetTeam(ctx context.Context, managerUserID int64) (employee.TeamResponse, error) {
	if _, err := s.employeeRepo.GetByUserID(ctx, managerUserID); err != nil {
		return employee.TeamResponse{}, err
	}

	reports, err := s.employeeRepo.DirectReports(ctx, managerUserID)
	if err != nil {
		return employee.TeamResponse{}, fmt.Errorf("failed to list direct reports: %w", err)
	}

	resp := employee.TeamResponse{
		ManagerUserID: managerUserID,
		Members:       make([]employee.TeamMemberResponse, 0, len(reports)),
	}
	for _, r := range reports {
		resp.Members = append(resp.Members, employee.TeamMemberResponse{
			UserID:   r.UserID,
			FullName: r.FullName,
			RoleID:   r.RoleID,
			IsActive: r.IsActive,
		})
	}

	return resp, nil
}

// AccessibleUserIDs implements employee.TeamService.
func (s *TeamServiceImpl) AccessibleUserIDs(ctx context.Context, managerUserID int64) ([]int64, error) {
	return s.employeeRepo.SubordinateUserIDs(ctx, managerUserID)
}
