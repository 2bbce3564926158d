package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/org-management-api/internal/dto"
	apierrors "github.com/yukikurage/org-management-api/internal/errors"
	"github.com/yukikurage/org-management-api/internal/services"
	"github.com/yukikurage/org-management-api/internal/utils"
)

const (
	invitationSentMessage   = "Invitation sent."
	invitationUnsentMessage = "Invitation created; email could not be sent. Copy and share the invitation link."
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// CreateInvitation issues an invitation and tries to email the link. The link
// is returned either way.
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	result, err := h.invitationService.Create(c.Request.Context(), actor, req.Email)
	if err != nil {
		if errors.Is(err, services.ErrNoOrganization) {
			apierrors.BadRequest(c, "Create an organization first.")
			return
		}
		internalError(c, err, "failed to create invitation")
		return
	}

	message := invitationSentMessage
	if !result.Delivery.Sent() {
		message = invitationUnsentMessage
	}

	apierrors.Respond(c, http.StatusCreated, message, dto.InvitationCreatedDTO{
		Email:         result.Invitation.Email,
		Token:         result.Invitation.Token,
		InviteLink:    result.Link,
		EmailDelivery: string(result.Delivery.Status),
	})
}

// AcceptInvitation redeems an invitation token and completes registration
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	var req dto.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	user, err := h.invitationService.Redeem(c.Request.Context(), services.RedeemInput{
		Token:    req.Token,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondRedeemError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, "Invitation accepted, registration complete.", dto.AcceptedUserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func respondRedeemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.FieldError(c, "token", "Invalid invitation token.")
	case errors.Is(err, services.ErrInvitationUsed):
		apierrors.FieldError(c, "token", "This invitation has already been used.")
	case errors.Is(err, services.ErrInvitationExpired):
		apierrors.FieldError(c, "token", "This invitation has expired.")
	case errors.Is(err, services.ErrEmailMismatch):
		apierrors.FieldError(c, "email", "This invitation was not issued for this email.")
	case errors.Is(err, services.ErrCrossOrganization):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "User belongs to another organization.")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.FieldError(c, "username", "This username is already in use.")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.FieldError(c, "email", "This email is already in use.")
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.FieldError(c, "username", "This field may not be blank.")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.FieldError(c, "password", "Ensure this field has at least 8 characters.")
	default:
		internalError(c, err, "failed to redeem invitation")
	}
}

// ListInvitations returns a page of the organization's invitations filtered
// by ?status=pending|used|all
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	invitations, total, err := h.invitationService.List(c.Request.Context(), actor, c.Query("status"), params)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrganizationNotFound):
			apierrors.NotFound(c, "Organization not found.")
		case errors.Is(err, services.ErrInvalidFilter):
			apierrors.BadRequest(c, "Invalid status parameter. Expected pending, used or all.")
		default:
			internalError(c, err, "failed to list invitations")
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewPage(c, params, total, dto.ToInvitationDTOs(invitations)))
}

// CancelInvitation withdraws an unused invitation
func (h *InvitationHandler) CancelInvitation(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	id, ok := idParam(c, "Invalid invitation ID.")
	if !ok {
		return
	}

	if err := h.invitationService.Cancel(c.Request.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationNotFound):
			apierrors.NotFound(c, "Invitation not found.")
		case errors.Is(err, services.ErrCrossOrganization):
			apierrors.FieldError(c, apierrors.NonFieldErrors, "This invitation belongs to another organization.")
		case errors.Is(err, services.ErrInvitationUsed):
			apierrors.FieldError(c, apierrors.NonFieldErrors, "This invitation has already been used or cancelled.")
		default:
			internalError(c, err, "failed to cancel invitation")
		}
		return
	}

	apierrors.RespondMessage(c, http.StatusOK, "Invitation cancelled.")
}
