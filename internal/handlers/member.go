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

type MemberHandler struct {
	membershipService *services.MembershipService
}

func NewMemberHandler(membershipService *services.MembershipService) *MemberHandler {
	return &MemberHandler{membershipService: membershipService}
}

// ListMembers returns a page of the organization's non-deleted members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	members, total, err := h.membershipService.ListMembers(c.Request.Context(), actor, params)
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.Respond(c, http.StatusOK, "Organization not found.", []dto.MemberDTO{})
			return
		}
		internalError(c, err, "failed to list members")
		return
	}

	c.JSON(http.StatusOK, utils.NewPage(c, params, total, dto.ToMemberDTOs(members)))
}

// ListActiveUsers returns a page of the organization's active users
func (h *MemberHandler) ListActiveUsers(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.membershipService.ListActiveUsers(c.Request.Context(), actor, params)
	if err != nil {
		if errors.Is(err, services.ErrNoOrganization) {
			apierrors.BadRequest(c, "No organization is linked to this user.")
			return
		}
		internalError(c, err, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, utils.NewPage(c, params, total, dto.ToActiveUserDTOs(users)))
}

// UpdateMember promotes a member to admin or removes them from the organization
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	targetID, ok := idParam(c, "Invalid user ID.")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	_, change, err := h.membershipService.UpdateMember(c.Request.Context(), actor, targetID, services.UpdateMemberInput{
		Role:   req.UserType,
		Delete: req.IsDeleted,
	})
	if err != nil {
		respondMemberError(c, err)
		return
	}

	message := "Updated."
	switch change {
	case services.MemberRemoved:
		message = "Member removed."
	case services.MemberPromoted:
		message = "Member promoted to admin."
	}
	apierrors.RespondMessage(c, http.StatusOK, message)
}

func respondMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "User not found.")
	case errors.Is(err, services.ErrCrossOrganization):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "This user does not belong to your organization.")
	case errors.Is(err, services.ErrSelfModification):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "You cannot change your own role through this endpoint.")
	case errors.Is(err, services.ErrEmptyMemberUpdate):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "No fields to update.")
	case errors.Is(err, services.ErrAdminDeletionDenied):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "Admin users cannot be deleted through this endpoint.")
	case errors.Is(err, services.ErrAdminDemotionDenied):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "Admin users cannot be demoted to member.")
	case errors.Is(err, services.ErrIllegalTransition):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "This role change is not allowed.")
	default:
		internalError(c, err, "failed to update member")
	}
}
