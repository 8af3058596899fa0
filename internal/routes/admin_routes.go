package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janakural/internal/auth"
	"github.com/janakural/internal/models"
)

// SetupAdminRoutes 设置管理端路由，全部需要 JWT 认证
func SetupAdminRoutes(router *gin.RouterGroup, deps Dependencies) {
	issues := deps.Handlers.AdminIssues
	users := deps.Handlers.AdminUsers

	admin := router.Group("/admin")
	admin.Use(deps.Tokens.Middleware())
	{
		admin.GET("/stats", issues.Stats)
		admin.GET("/issues", issues.ListIssues)
		admin.PATCH("/issues/:id/status", issues.UpdateStatus)
		admin.PATCH("/issues/:id/assignment", issues.AssignIssue)
		admin.POST("/issues/:id/after-photos", issues.AddAfterPhotos)
		admin.GET("/issues/:id/history", issues.History)

		admin.PUT("/me/device-token", users.SaveMyDeviceToken)

		// 管理员账号管理仅限 super_admin 和 state_admin
		userGroup := admin.Group("/users")
		userGroup.Use(auth.RequireRoles(models.RoleSuperAdmin, models.RoleStateAdmin))
		{
			userGroup.GET("", users.ListAdministrators)
			userGroup.POST("", users.CreateAdministrator)
			userGroup.GET("/:id", users.GetAdministrator)
			userGroup.PATCH("/:id", users.UpdateAdministrator)
			userGroup.DELETE("/:id", users.DeleteAdministrator)
		}
	}
}
