package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yukikurage/org-management-api/internal/auth"
	"github.com/yukikurage/org-management-api/internal/constants"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken            = errors.New("username is already in use")
	ErrEmailTaken               = errors.New("email is already in use")
	ErrUsernameRequired         = errors.New("username cannot be empty")
	ErrEmailRequired            = errors.New("email cannot be empty")
	ErrInvalidCredentials       = errors.New("invalid username or password")
	ErrInactiveAccount          = errors.New("this account is inactive")
	ErrPasswordTooShort         = errors.New("password too short")
	ErrPasswordMismatch         = errors.New("passwords do not match")
	ErrCurrentPasswordRequired  = errors.New("current password is required")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrNewPasswordRequired      = errors.New("new password and its confirmation are required")
	ErrUserNotFound             = errors.New("user not found")
	ErrFailedToHashPassword     = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm *string
}

// Register creates a new unaffiliated member account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if err := s.checkIdentityFree(ctx, username, email, 0); err != nil {
		return nil, err
	}

	if input.PasswordConfirm != nil && *input.PasswordConfirm != input.Password {
		return nil, ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: string(hashedPassword),
		Role:         models.RoleMember,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, identityConflict(ctx, s.userRepo, user.Email, 0)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	zerolog.Ctx(ctx).Info().Uint64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// checkIdentityFree verifies that username and email, when non-empty, are
// not used by any user other than excludeID.
func (s *AuthService) checkIdentityFree(ctx context.Context, username, email string, excludeID uint64) error {
	if username != "" {
		taken, err := s.userRepo.UsernameTaken(ctx, username, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return ErrUsernameTaken
		}
	}
	if email != "" {
		taken, err := s.userRepo.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}
	}
	return nil
}

// identityConflict names the identity a unique-key violation collided on. A
// user other than excludeID holding the email means the email index fired;
// otherwise it was the username.
func identityConflict(ctx context.Context, userRepo repository.UserRepository, email string, excludeID uint64) error {
	taken, err := userRepo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and issues bearer tokens for the user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, *auth.TokenPair, error) {
	user, err := s.userRepo.FindByUsernameFold(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Lifecycle() != models.LifecycleActive {
		return nil, nil, ErrInactiveAccount
	}

	tokens, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return user, tokens, nil
}

// Authenticate loads the user behind a session or token. Deleted and
// suspended accounts are rejected.
func (s *AuthService) Authenticate(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	switch user.Lifecycle() {
	case models.LifecycleDeleted:
		return nil, ErrUserNotFound
	case models.LifecycleSuspended:
		return nil, ErrInactiveAccount
	}
	return user, nil
}

// Me reloads the actor with its organization.
func (s *AuthService) Me(ctx context.Context, actor *models.User) (*models.User, error) {
	return s.Authenticate(ctx, actor.ID)
}

// ParseAccessToken returns the user ID of a valid access token.
func (s *AuthService) ParseAccessToken(token string) (uint64, error) {
	return s.tokens.Parse(token, auth.AccessToken)
}

// UpdateProfileInput holds the fields of a partial profile update.
type UpdateProfileInput struct {
	FirstName          *string
	LastName           *string
	Email              *string
	Username           *string
	CurrentPassword    *string
	NewPassword        *string
	NewPasswordConfirm *string
}

func (in UpdateProfileInput) wantsPasswordChange() bool {
	return in.CurrentPassword != nil || in.NewPassword != nil || in.NewPasswordConfirm != nil
}

// UpdateProfile applies a partial update to the actor's own account. A
// password change requires the current password and a matching confirmation.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *models.User, input UpdateProfileInput) (*models.User, error) {
	var username, email string
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, ErrUsernameRequired
		}
	}
	if input.Email != nil {
		email = strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
	}
	if err := s.checkIdentityFree(ctx, username, email, actor.ID); err != nil {
		return nil, err
	}

	var newHash string
	if input.wantsPasswordChange() {
		current := deref(input.CurrentPassword)
		next := deref(input.NewPassword)
		confirm := deref(input.NewPasswordConfirm)

		switch {
		case current == "":
			return nil, ErrCurrentPasswordRequired
		case next == "" || confirm == "":
			return nil, ErrNewPasswordRequired
		case next != confirm:
			return nil, ErrPasswordMismatch
		case len(next) < constants.MinPasswordLength:
			return nil, ErrPasswordTooShort
		}

		if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(current)); err != nil {
			return nil, ErrCurrentPasswordIncorrect
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		newHash = string(hashed)
	}

	if input.FirstName != nil {
		actor.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		actor.LastName = *input.LastName
	}
	if username != "" {
		actor.Username = username
	}
	if email != "" {
		actor.Email = email
	}
	if newHash != "" {
		actor.PasswordHash = newHash
	}

	if err := s.userRepo.Save(ctx, actor); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, identityConflict(ctx, s.userRepo, actor.Email, actor.ID)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return actor, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
