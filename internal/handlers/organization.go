package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/org-management-api/internal/dto"
	apierrors "github.com/yukikurage/org-management-api/internal/errors"
	"github.com/yukikurage/org-management-api/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganization creates an organization owned by the current admin
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	org, err := h.orgService.Create(c.Request.Context(), actor, services.CreateOrganizationInput{
		Name:     req.Name,
		Slug:     req.Slug,
		Plan:     req.Plan,
		MaxUsers: req.MaxUsers,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, "Organization created.", dto.ToOrganizationDTO(*org))
}

// GetMyOrganization returns the current user's organization, or null data
// when there is none
func (h *OrganizationHandler) GetMyOrganization(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	org, err := h.orgService.GetMine(c.Request.Context(), actor)
	if err != nil {
		internalError(c, err, "failed to load organization")
		return
	}

	switch {
	case org == nil:
		apierrors.Respond(c, http.StatusOK, "User is not affiliated with an organization yet.", nil)
	case !org.IsActive:
		apierrors.Respond(c, http.StatusOK, "Organization is inactive.", dto.ToOrganizationDetailDTO(*org))
	default:
		apierrors.Respond(c, http.StatusOK, "", dto.ToOrganizationDetailDTO(*org))
	}
}

// UpdateMyOrganization applies a partial update to the current admin's organization
func (h *OrganizationHandler) UpdateMyOrganization(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	org, err := h.orgService.UpdateMine(c.Request.Context(), actor, services.UpdateOrganizationInput{
		Name:      req.Name,
		Slug:      req.Slug,
		Plan:      req.Plan,
		MaxUsers:  req.MaxUsers,
		IsActive:  req.IsActive,
		IsDeleted: req.IsDeleted,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}
	if org == nil {
		apierrors.Respond(c, http.StatusOK, "User is not affiliated with an organization.", nil)
		return
	}

	apierrors.Respond(c, http.StatusOK, "Organization updated.", dto.ToOrganizationDetailDTO(*org))
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidOrganizationName):
		apierrors.FieldError(c, "name", "This field may not be blank.")
	case errors.Is(err, services.ErrInvalidSlug):
		apierrors.FieldError(c, "slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	case errors.Is(err, services.ErrSlugTaken):
		apierrors.FieldError(c, "slug", "This slug is already in use.")
	case errors.Is(err, services.ErrInvalidMaxUsers):
		apierrors.FieldError(c, "max_users", "Ensure this value is greater than or equal to 1.")
	default:
		internalError(c, err, "organization operation failed")
	}
}
