package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes 设置认证相关路由
func SetupAuthRoutes(router *gin.RouterGroup, deps Dependencies) {
	h := deps.Handlers.Auth

	// 公共认证路由组 (登录)
	publicAuthGroup := router.Group("/auth")
	{
		// POST /api/v1/auth/login
		publicAuthGroup.POST("/login", h.Login)
	}

	// 受保护的认证路由组 (登出)
	protectedAuthGroup := router.Group("/auth")
	protectedAuthGroup.Use(deps.Tokens.Middleware())
	{
		// POST /api/v1/auth/logout
		protectedAuthGroup.POST("/logout", h.Logout)
	}
}
