package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/org-management-api/internal/constants"
	"github.com/yukikurage/org-management-api/internal/dto"
	apierrors "github.com/yukikurage/org-management-api/internal/errors"
	"github.com/yukikurage/org-management-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		PasswordConfirm: req.Password2,
	})
	if err != nil {
		respondAuthError(c, err, "password2")
		return
	}

	apierrors.Respond(c, http.StatusCreated, "Registration successful.", dto.ToRegisteredUserDTO(*user))
}

// Login authenticates a user, initializes the session and returns bearer tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		internalError(c, err, "failed to save session")
		return
	}

	apierrors.Respond(c, http.StatusOK, "Login successful.", dto.TokenDTO{
		Access:     tokens.Access,
		Refresh:    tokens.Refresh,
		ExpireTime: int(tokens.AccessTTL.Minutes()),
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		internalError(c, err, "failed to clear session")
		return
	}

	apierrors.RespondMessage(c, http.StatusOK, "Logged out.")
}

// Me returns the authenticated user with an organization summary.
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), actor)
	if err != nil {
		respondAuthError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeDTO(*user))
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	_, err := h.authService.UpdateProfile(c.Request.Context(), actor, services.UpdateProfileInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Username:           req.Username,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPassword2,
	})
	if err != nil {
		respondAuthError(c, err, "new_password2")
		return
	}

	apierrors.RespondMessage(c, http.StatusOK, "Profile updated.")
}

// respondAuthError maps account errors to field errors. confirmField names
// the confirmation field of the calling endpoint.
func respondAuthError(c *gin.Context, err error, confirmField string) {
	switch {
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.FieldError(c, "username", "This field may not be blank.")
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.FieldError(c, "email", "This field may not be blank.")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.FieldError(c, "username", "This username is already in use.")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.FieldError(c, "email", "This email is already in use.")
	case errors.Is(err, services.ErrPasswordTooShort):
		field := "password"
		if confirmField == "new_password2" {
			field = "new_password"
		}
		apierrors.FieldError(c, field, fmt.Sprintf("Ensure this field has at least %d characters.", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordMismatch):
		apierrors.FieldError(c, confirmField, "Passwords do not match.")
	case errors.Is(err, services.ErrCurrentPasswordRequired):
		apierrors.FieldError(c, "current_password", "Current password is required to change the password.")
	case errors.Is(err, services.ErrCurrentPasswordIncorrect):
		apierrors.FieldError(c, "current_password", "Current password is incorrect.")
	case errors.Is(err, services.ErrNewPasswordRequired):
		apierrors.FieldError(c, "new_password", "New password and its confirmation are required.")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "Invalid username or password.")
	case errors.Is(err, services.ErrInactiveAccount):
		apierrors.FieldError(c, apierrors.NonFieldErrors, "This account is inactive.")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, "User not found.")
	default:
		internalError(c, err, "account operation failed")
	}
}
