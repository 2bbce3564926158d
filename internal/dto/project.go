package dto

import (
	"time"

	"github.com/yukikurage/org-management-api/internal/models"
)

// CreateProjectRequest is the body of POST /core/orgs/project-create/
type CreateProjectRequest struct {
	Name            string               `json:"name" binding:"required,max=255"`
	Description     *string              `json:"description"`
	Status          models.ProjectStatus `json:"status" binding:"omitempty,project_status"`
	AppointedPerson *uint64              `json:"appointed_person"`
}

// UpdateProjectRequest is the body of PATCH /core/orgs/project-update/:id/
type UpdateProjectRequest struct {
	Name        *string               `json:"name" binding:"omitempty,max=255"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status" binding:"omitempty,project_status"`
	IsDeleted   *bool                 `json:"is_deleted"`
}

// AppointedPersonDTO is the user a project is appointed to
type AppointedPersonDTO struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID              uint64               `json:"id"`
	Name            string               `json:"name"`
	Description     *string              `json:"description"`
	Status          models.ProjectStatus `json:"status"`
	AppointedPerson *AppointedPersonDTO  `json:"appointed_person"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ToProjectDTO converts a project. The appointed person is reported only when
// it has been loaded.
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if person := project.AppointedPerson; person != nil {
		dto.AppointedPerson = &AppointedPersonDTO{
			ID:        person.ID,
			FirstName: person.FirstName,
			LastName:  person.LastName,
			Email:     person.Email,
		}
	}
	return dto
}

// ToProjectDTOs converts a page of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}
