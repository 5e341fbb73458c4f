package http

import (
	"github.com/gin-gonic/gin"

	"github.com/flashnodes/flashnodes/service"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth       *service.AuthService
	Projects   *service.ProjectService
	Currencies *service.CurrencyService
	Analytics  *service.AnalyticsService
	Admins     *service.AdminService
}

// SetupRouter sets up the Gin router
func SetupRouter(s Services) *gin.Engine {
	router := gin.Default()

	authHandlers := NewAuthHandlers(s.Auth)
	projectHandlers := NewProjectHandlers(s.Projects)
	currencyHandlers := NewCurrencyHandlers(s.Currencies)
	analyticsHandlers := NewAnalyticsHandlers(s.Analytics)
	adminHandlers := NewAdminHandlers(s.Projects, s.Admins)

	// Unauthenticated challenge-response endpoints
	auth := router.Group("/auth")
	{
		auth.GET("/nonce/:address", authHandlers.Challenge)
		auth.POST("/login", authHandlers.Login)
		auth.POST("/logout", AuthMiddleware(s.Auth), authHandlers.Logout)
	}

	// Owner-scoped API
	api := router.Group("/api")
	api.Use(AuthMiddleware(s.Auth))
	{
		api.GET("/me", authHandlers.Me)

		api.GET("/currencies", currencyHandlers.List)

		api.POST("/projects", projectHandlers.Create)
		api.GET("/projects", projectHandlers.List)
		api.GET("/projects/:node_id", projectHandlers.Get)
		api.DELETE("/projects/:node_id", projectHandlers.Delete)

		api.GET("/analytics/total", analyticsHandlers.Total)
		api.GET("/analytics/:node_id", analyticsHandlers.Project)
	}

	// Administrative surface
	admin := router.Group("/admin")
	admin.Use(AuthMiddleware(s.Auth), AdminMiddleware())
	{
		admin.GET("/projects", adminHandlers.ListProjects)
		admin.GET("/projects/address/:address", adminHandlers.ProjectsByAddress)
		admin.POST("/projects/request/:address", adminHandlers.CreateProject)
		admin.POST("/projects/manage/:node_id", adminHandlers.ManageProject)
		admin.DELETE("/projects/:node_id", adminHandlers.DeleteProject)

		admin.GET("/currencies", currencyHandlers.List)
		admin.POST("/currencies", currencyHandlers.Create)
		admin.PUT("/currencies/:id", currencyHandlers.Update)
		admin.DELETE("/currencies/:id", currencyHandlers.Delete)

		admin.GET("/superusers", adminHandlers.ListAdmins)
		admin.POST("/superusers/:address", adminHandlers.Promote)
		admin.DELETE("/superusers/:address", adminHandlers.Demote)
	}

	return router
}
