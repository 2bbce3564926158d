package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/org-management-api/internal/middleware"
	"github.com/yukikurage/org-management-api/internal/services"
)

// Services are the dependencies of the HTTP layer.
type Services struct {
	Auth          *services.AuthService
	Organizations *services.OrganizationService
	Invitations   *services.InvitationService
	Members       *services.MembershipService
	Projects      *services.ProjectService
}

// RegisterRoutes mounts the health check and the /api routes. Session
// middleware must already be installed on r.
func RegisterRoutes(r *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	orgHandler := NewOrganizationHandler(svc.Organizations)
	invitationHandler := NewInvitationHandler(svc.Invitations)
	memberHandler := NewMemberHandler(svc.Members)
	projectHandler := NewProjectHandler(svc.Projects)

	requireAuth := middleware.RequireAuth(svc.Auth)
	requireAdmin := middleware.RequireAdmin()
	projectAccess := middleware.RequireProjectAccess(svc.Projects)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Organization Management API is running",
		})
	})

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register/", authHandler.Register)
			users.POST("/login/", authHandler.Login)
			users.POST("/logout/", requireAuth, authHandler.Logout)
			users.GET("/me/", requireAuth, authHandler.Me)
			users.PATCH("/update-profile/", requireAuth, authHandler.UpdateProfile)
		}

		// Invitation acceptance is the only public organization route
		api.POST("/core/orgs/accept/invite/", invitationHandler.AcceptInvitation)

		orgs := api.Group("/core/orgs")
		orgs.Use(requireAuth)
		{
			orgs.GET("/me/", orgHandler.GetMyOrganization)
			orgs.GET("/my-project-list/", projectHandler.ListMyProjects)
			orgs.GET("/project-detail/:id/", projectAccess, projectHandler.GetProject)
			orgs.PATCH("/project-update/:id/", projectAccess, projectHandler.UpdateProject)

			admin := orgs.Group("")
			admin.Use(requireAdmin)
			{
				admin.POST("/", orgHandler.CreateOrganization)
				admin.PATCH("/me/update/", orgHandler.UpdateMyOrganization)

				admin.POST("/invitations-create/", invitationHandler.CreateInvitation)
				admin.GET("/invitations/", invitationHandler.ListInvitations)
				admin.PATCH("/invitations/:id/cancel/", invitationHandler.CancelInvitation)

				admin.GET("/members/", memberHandler.ListMembers)
				admin.PATCH("/members/:id/role/", memberHandler.UpdateMember)
				admin.GET("/users/", memberHandler.ListActiveUsers)

				admin.POST("/project-create/", projectHandler.CreateProject)
				admin.GET("/project-list/", projectHandler.ListProjects)
			}
		}
	}
}
