package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/org-management-api/internal/auth"
	"github.com/yukikurage/org-management-api/internal/config"
	"github.com/yukikurage/org-management-api/internal/database"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []InvitationMessage
	result   DeliveryResult
}

func (n *recordingNotifier) SendInvitation(ctx context.Context, msg InvitationMessage) DeliveryResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return n.result
}

type serviceTestEnv struct {
	db             *gorm.DB
	notifier       *recordingNotifier
	orgs           *OrganizationService
	invitations    *InvitationService
	members        *MembershipService
	projects       *ProjectService
	auth           *AuthService
	invitationRepo repository.InvitationRepository
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	notifier := &recordingNotifier{result: delivered()}
	tokens := auth.NewTokenIssuer(config.AuthConfig{
		JWTSecret:  "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})

	return serviceTestEnv{
		db:             db,
		notifier:       notifier,
		orgs:           NewOrganizationService(orgRepo),
		invitations:    NewInvitationService(invitationRepo, userRepo, orgRepo, notifier, "http://frontend.test/"),
		members:        NewMembershipService(userRepo, orgRepo),
		projects:       NewProjectService(projectRepo, userRepo, orgRepo),
		auth:           NewAuthService(userRepo, tokens),
		invitationRepo: invitationRepo,
	}
}

func (env serviceTestEnv) createOrganization(t *testing.T, name, slug string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		Name:     name,
		Slug:     slug,
		Plan:     "free",
		MaxUsers: 10,
		IsActive: true,
	}
	require.NoError(t, env.db.Create(org).Error)
	return org
}

func (env serviceTestEnv) createUser(t *testing.T, username string, role models.Role, org *models.Organization) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("StrongPass123!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if org != nil {
		user.OrganizationID = &org.ID
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env serviceTestEnv) reloadUser(t *testing.T, id uint64) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, env.db.First(&user, id).Error)
	return &user
}
