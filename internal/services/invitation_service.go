package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/org-management-api/internal/constants"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/repository"
	"github.com/yukikurage/org-management-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken       = errors.New("invalid invitation token")
	ErrInvitationUsed     = errors.New("invitation has already been used or cancelled")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrEmailMismatch      = errors.New("invitation was not issued for this email")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvalidFilter      = errors.New("invalid status filter, expected pending, used or all")
)

// InvitationFilter selects invitations by use-state.
type InvitationFilter string

const (
	InvitationFilterPending InvitationFilter = "pending"
	InvitationFilterUsed    InvitationFilter = "used"
	InvitationFilterAll     InvitationFilter = "all"
)

// ParseInvitationFilter parses a status query value, ignoring case and
// surrounding whitespace. An empty value selects pending invitations.
func ParseInvitationFilter(raw string) (InvitationFilter, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return InvitationFilterPending, nil
	}
	switch f := InvitationFilter(value); f {
	case InvitationFilterPending, InvitationFilterUsed, InvitationFilterAll:
		return f, nil
	}
	return "", ErrInvalidFilter
}

func (f InvitationFilter) used() *bool {
	var used bool
	switch f {
	case InvitationFilterPending:
		used = false
	case InvitationFilterUsed:
		used = true
	default:
		return nil
	}
	return &used
}

// InvitationService issues, redeems and cancels organization invitations.
type InvitationService struct {
	invitationRepo  repository.InvitationRepository
	userRepo        repository.UserRepository
	orgRepo         repository.OrganizationRepository
	notifier        Notifier
	frontendBaseURL string
	now             func() time.Time
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	notifier Notifier,
	frontendBaseURL string,
) *InvitationService {
	return &InvitationService{
		invitationRepo:  invitationRepo,
		userRepo:        userRepo,
		orgRepo:         orgRepo,
		notifier:        notifier,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		now:             time.Now,
	}
}

// InvitationResult is a created invitation with its shareable link and the
// outcome of the email delivery attempt.
type InvitationResult struct {
	Invitation *models.Invitation
	Link       string
	Delivery   DeliveryResult
}

// RedeemInput holds the account details submitted with an invitation token.
type RedeemInput struct {
	Token    string
	Username string
	Email    string
	Password string
}

// Create issues an invitation for email in the actor's organization and
// attempts to email the link. Delivery failure is reported in the result and
// never undoes the invitation.
func (s *InvitationService) Create(ctx context.Context, actor *models.User, email string) (*InvitationResult, error) {
	org, err := actorOrganization(ctx, s.orgRepo, actor)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNoOrganization
	}

	token, err := utils.GenerateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	inviterID := actor.ID
	invitation := &models.Invitation{
		OrganizationID: org.ID,
		Email:          strings.TrimSpace(email),
		Token:          token,
		InvitedByID:    &inviterID,
		ExpiresAt:      s.now().Add(constants.InvitationValidity),
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	link := s.frontendBaseURL + "/accept-invite?token=" + invitation.Token

	logger := zerolog.Ctx(ctx)
	logger.Info().
		Uint64("invitation_id", invitation.ID).
		Uint64("organization_id", org.ID).
		Str("email", invitation.Email).
		Msg("invitation created")

	delivery := s.notifier.SendInvitation(ctx, InvitationMessage{
		To:               invitation.Email,
		OrganizationName: org.Name,
		Link:             link,
	})
	if !delivery.Sent() {
		logger.Warn().
			Err(delivery.Err).
			Uint64("invitation_id", invitation.ID).
			Msg("invitation email delivery failed")
	}

	invitation.Organization = *org
	return &InvitationResult{
		Invitation: invitation,
		Link:       link,
		Delivery:   delivery,
	}, nil
}

// Redeem accepts an invitation. A new account is created for an unknown
// email; a known account is reactivated and reattached unless it belongs to
// another organization. The invitation is consumed with a conditional update
// in the same transaction as the account write, so a token redeems at most once.
func (s *InvitationService) Redeem(ctx context.Context, input RedeemInput) (*models.User, error) {
	token, ok := utils.NormalizeInvitationToken(strings.TrimSpace(input.Token))
	if !ok {
		return nil, ErrInvalidToken
	}

	invitation, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	now := s.now()
	if err := invitationStateError(invitation, now); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	if !strings.EqualFold(email, invitation.Email) {
		return nil, ErrEmailMismatch
	}

	user, err := s.userRepo.FindByEmailFold(ctx, email)
	switch {
	case err == nil:
		if user.OrganizationID != nil && *user.OrganizationID != invitation.OrganizationID {
			return nil, ErrCrossOrganization
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.newInvitedUser(ctx, input.Username, email)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	orgID := invitation.OrganizationID
	user.OrganizationID = &orgID
	user.Organization = nil
	user.Role = models.RoleMember
	user.IsActive = true
	user.IsDeleted = false
	user.PasswordHash = string(hashedPassword)

	userID := user.ID
	if err := s.invitationRepo.Redeem(ctx, invitation, user, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvitationConsumed):
			return nil, s.consumedError(ctx, invitation.ID, now)
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, identityConflict(ctx, s.userRepo, email, userID)
		default:
			return nil, fmt.Errorf("failed to redeem invitation: %w", err)
		}
	}

	zerolog.Ctx(ctx).Info().
		Uint64("invitation_id", invitation.ID).
		Uint64("organization_id", orgID).
		Uint64("user_id", user.ID).
		Msg("invitation redeemed")

	return user, nil
}

func (s *InvitationService) newInvitedUser(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	taken, err := s.userRepo.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	return &models.User{
		Username: username,
		Email:    email,
	}, nil
}

// consumedError explains why a conditional update matched nothing by
// re-reading the invitation.
func (s *InvitationService) consumedError(ctx context.Context, id uint64, now time.Time) error {
	current, err := s.invitationRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to reload invitation: %w", err)
	}
	if stateErr := invitationStateError(current, now); stateErr != nil {
		return stateErr
	}
	return ErrInvitationUsed
}

func invitationStateError(invitation *models.Invitation, now time.Time) error {
	switch invitation.State(now) {
	case models.InvitationUsed:
		return ErrInvitationUsed
	case models.InvitationExpired:
		return ErrInvitationExpired
	}
	return nil
}

// Cancel withdraws an unused invitation of the actor's organization.
// Cancelling consumes the invitation just as acceptance does.
func (s *InvitationService) Cancel(ctx context.Context, actor *models.User, id uint64) error {
	invitation, err := s.invitationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to find invitation: %w", err)
	}

	if !actor.BelongsTo(invitation.OrganizationID) {
		return ErrCrossOrganization
	}
	if invitation.IsUsed {
		return ErrInvitationUsed
	}

	if err := s.invitationRepo.Cancel(ctx, invitation.ID, s.now()); err != nil {
		if errors.Is(err, repository.ErrInvitationConsumed) {
			return ErrInvitationUsed
		}
		return fmt.Errorf("failed to cancel invitation: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Uint64("invitation_id", invitation.ID).
		Uint64("cancelled_by", actor.ID).
		Msg("invitation cancelled")

	return nil
}

// List returns a page of the actor's organization invitations, latest expiry
// first, filtered by use-state.
func (s *InvitationService) List(ctx context.Context, actor *models.User, filter string, params utils.PaginationParams) ([]models.Invitation, int64, error) {
	org, err := actorOrganization(ctx, s.orgRepo, actor)
	if err != nil {
		return nil, 0, err
	}
	if org == nil {
		return nil, 0, ErrOrganizationNotFound
	}

	parsed, err := ParseInvitationFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	invitations, total, err := s.invitationRepo.List(ctx, repository.InvitationFilter{
		OrganizationID: org.ID,
		Used:           parsed.used(),
		Pagination:     params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, total, nil
}
