package dto

import (
	"time"

	"github.com/yukikurage/org-management-api/internal/models"
)

// CreateInvitationRequest is the body of POST /core/orgs/invitations-create/
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// InvitationCreatedDTO is returned after an invitation is issued. The link is
// always included so it can be shared manually when email delivery failed.
type InvitationCreatedDTO struct {
	Email         string `json:"email"`
	Token         string `json:"token"`
	InviteLink    string `json:"invite_link"`
	EmailDelivery string `json:"email_delivery"`
}

// InvitationDTO is one row of the invitation list
type InvitationDTO struct {
	ID                uint64     `json:"id"`
	Email             string     `json:"email"`
	Token             string     `json:"token"`
	IsUsed            bool       `json:"is_used"`
	CancelledAt       *time.Time `json:"cancelled_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	CreatedAt         time.Time  `json:"created_at"`
	InvitedByUsername *string    `json:"invited_by_username"`
	OrganizationName  string     `json:"organization_name"`
}

func ToInvitationDTO(invitation models.Invitation) InvitationDTO {
	dto := InvitationDTO{
		ID:               invitation.ID,
		Email:            invitation.Email,
		Token:            invitation.Token,
		IsUsed:           invitation.IsUsed,
		CancelledAt:      invitation.CancelledAt,
		ExpiresAt:        invitation.ExpiresAt,
		CreatedAt:        invitation.CreatedAt,
		OrganizationName: invitation.Organization.Name,
	}
	if invitation.InvitedBy != nil {
		username := invitation.InvitedBy.Username
		dto.InvitedByUsername = &username
	}
	return dto
}

// ToInvitationDTOs converts a page of invitations
func ToInvitationDTOs(invitations []models.Invitation) []InvitationDTO {
	dtos := make([]InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		dtos[i] = ToInvitationDTO(invitation)
	}
	return dtos
}
