package dto

import (
	"time"

	"github.com/yukikurage/org-management-api/internal/models"
)

// CreateOrganizationRequest is the body of POST /core/orgs/
type CreateOrganizationRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Slug     string `json:"slug" binding:"omitempty,max=50"`
	Plan     string `json:"plan" binding:"omitempty,max=100"`
	MaxUsers *int   `json:"max_users" binding:"omitempty,gte=1"`
}

// UpdateOrganizationRequest is the body of PATCH /core/orgs/me/update/.
// Absent fields are left unchanged.
type UpdateOrganizationRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=255"`
	Slug      *string `json:"slug" binding:"omitempty,max=50"`
	Plan      *string `json:"plan" binding:"omitempty,max=100"`
	MaxUsers  *int    `json:"max_users" binding:"omitempty,gte=1"`
	IsActive  *bool   `json:"is_active"`
	IsDeleted *bool   `json:"is_deleted"`
}

// OrganizationDTO is the organization returned on creation
type OrganizationDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Plan     string `json:"plan"`
	MaxUsers int    `json:"max_users"`
}

// OrganizationDetailDTO is the full organization representation
type OrganizationDetailDTO struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	OwnerEmail *string   `json:"owner_email"`
	Plan       string    `json:"plan"`
	MaxUsers   int       `json:"max_users"`
	IsActive   bool      `json:"is_active"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:       org.ID,
		Name:     org.Name,
		Slug:     org.Slug,
		Plan:     org.Plan,
		MaxUsers: org.MaxUsers,
	}
}

// ToOrganizationDetailDTO converts an Organization model to OrganizationDetailDTO
func ToOrganizationDetailDTO(org models.Organization) OrganizationDetailDTO {
	return OrganizationDetailDTO{
		ID:         org.ID,
		Name:       org.Name,
		Slug:       org.Slug,
		OwnerEmail: org.OwnerEmail,
		Plan:       org.Plan,
		MaxUsers:   org.MaxUsers,
		IsActive:   org.IsActive,
		IsDeleted:  org.IsDeleted,
		CreatedAt:  org.CreatedAt,
		UpdatedAt:  org.UpdatedAt,
	}
}
