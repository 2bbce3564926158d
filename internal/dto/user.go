package dto

import (
	"time"

	"github.com/yukikurage/org-management-api/internal/models"
)

// RegisterRequest is the body of POST /users/register/
type RegisterRequest struct {
	Username  string  `json:"username" binding:"required,max=150"`
	Email     string  `json:"email" binding:"required,email,max=254"`
	FirstName string  `json:"first_name" binding:"max=150"`
	LastName  string  `json:"last_name" binding:"max=150"`
	Password  string  `json:"password" binding:"required,min=8"`
	Password2 *string `json:"password2" binding:"omitempty,min=8"`
}

// LoginRequest is the body of POST /users/login/
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the body of PATCH /users/update-profile/. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name" binding:"omitempty,max=150"`
	LastName        *string `json:"last_name" binding:"omitempty,max=150"`
	Email           *string `json:"email" binding:"omitempty,email,max=254"`
	Username        *string `json:"username" binding:"omitempty,max=150"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password" binding:"omitempty,min=8"`
	NewPassword2    *string `json:"new_password2" binding:"omitempty,min=8"`
}

// RegisteredUserDTO is returned after registration
type RegisteredUserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TokenDTO is the login payload. ExpireTime is the access token lifetime in minutes.
type TokenDTO struct {
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
	ExpireTime int    `json:"expire_time"`
}

// OrganizationSummaryDTO is the organization embedded in the current user payload
type OrganizationSummaryDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Plan     string `json:"plan"`
	MaxUsers int    `json:"max_users"`
	IsActive bool   `json:"is_active"`
}

// MeDTO is the current user payload
type MeDTO struct {
	ID           uint64                  `json:"id"`
	Username     string                  `json:"username"`
	Email        string                  `json:"email"`
	FirstName    string                  `json:"first_name"`
	LastName     string                  `json:"last_name"`
	UserType     models.Role             `json:"user_type"`
	IsActive     bool                    `json:"is_active"`
	DateJoined   time.Time               `json:"date_joined"`
	Organization *OrganizationSummaryDTO `json:"organization"`
}

// MemberDTO is one row of the organization member list
type MemberDTO struct {
	ID         uint64      `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	UserType   models.Role `json:"user_type"`
	IsActive   bool        `json:"is_active"`
	DateJoined time.Time   `json:"date_joined"`
}

// ActiveUserDTO is one row of the active organization user list
type ActiveUserDTO struct {
	ID         uint64      `json:"id"`
	Username   string      `json:"username"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	UserType   models.Role `json:"user_type"`
	DateJoined time.Time   `json:"date_joined"`
}

// UpdateMemberRequest is the body of PATCH /core/orgs/members/:id/role/
type UpdateMemberRequest struct {
	UserType  *models.Role `json:"user_type" binding:"omitempty,assignable_role"`
	IsDeleted *bool        `json:"is_deleted"`
}

// AcceptInvitationRequest is the body of POST /core/orgs/accept/invite/
type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required,uuid"`
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// AcceptedUserDTO is returned after an invitation is accepted
type AcceptedUserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func ToRegisteredUserDTO(user models.User) RegisteredUserDTO {
	return RegisteredUserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToMeDTO converts a user with its organization preloaded. A missing or
// deleted organization is reported as null.
func ToMeDTO(user models.User) MeDTO {
	me := MeDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		UserType:   user.Role,
		IsActive:   user.IsActive,
		DateJoined: user.DateJoined,
	}
	if org := user.Organization; org.Usable() {
		me.Organization = &OrganizationSummaryDTO{
			ID:       org.ID,
			Name:     org.Name,
			Slug:     org.Slug,
			Plan:     org.Plan,
			MaxUsers: org.MaxUsers,
			IsActive: org.IsActive,
		}
	}
	return me
}

func ToMemberDTO(user models.User) MemberDTO {
	return MemberDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		UserType:   user.Role,
		IsActive:   user.IsActive,
		DateJoined: user.DateJoined,
	}
}

// ToMemberDTOs converts a page of users
func ToMemberDTOs(users []models.User) []MemberDTO {
	dtos := make([]MemberDTO, len(users))
	for i, user := range users {
		dtos[i] = ToMemberDTO(user)
	}
	return dtos
}

// ToActiveUserDTOs converts a page of active users
func ToActiveUserDTOs(users []models.User) []ActiveUserDTO {
	dtos := make([]ActiveUserDTO, len(users))
	for i, user := range users {
		dtos[i] = ActiveUserDTO{
			ID:         user.ID,
			Username:   user.Username,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Email:      user.Email,
			UserType:   user.Role,
			DateJoined: user.DateJoined,
		}
	}
	return dtos
}
