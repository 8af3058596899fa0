package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janakural/internal/middleware"
)

// SetupIssueRoutes 设置公众访问的问题路由，无需认证
func SetupIssueRoutes(router *gin.RouterGroup, deps Dependencies) {
	h := deps.Handlers.Issues

	// 提交和追加照片共用同一个按 IP 的限流桶
	var limited []gin.HandlerFunc
	if deps.SubmitLimiter != nil {
		limited = append(limited, middleware.RateLimit(deps.SubmitLimiter, deps.Logger))
	}

	issues := router.Group("/issues")
	{
		issues.POST("", append(limited, h.SubmitIssue)...)
		issues.GET("/:id", h.GetIssue)
		issues.POST("/:id/photos", append(limited, h.AttachPhotos)...)
	}

	router.GET("/my-issues", h.ListMyIssues)
	router.GET("/showcase", h.Showcase)
}
