package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/janakural/docs" // swagger 文档注册
	"github.com/janakural/internal/auth"
	"github.com/janakural/internal/handlers"
	"github.com/janakural/internal/middleware"
)

// Handlers 汇总了所有路由需要的处理器
type Handlers struct {
	Auth        *handlers.AuthHandler
	Issues      *handlers.IssueHandler
	AdminIssues *handlers.AdminIssueHandler
	AdminUsers  *handlers.AdminUserHandler
}

// Dependencies 路由层依赖
type Dependencies struct {
	Handlers      Handlers
	Tokens        *auth.Manager
	SubmitLimiter *middleware.IPRateLimiter
	Logger        *zap.Logger
}

// NewRouter 创建 gin 引擎并注册全部路由
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	SetupRoutes(router, deps)
	return router
}

// SetupRoutes 初始化所有 /api/v1 路由
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	apiV1 := router.Group("/api/v1")
	SetupAuthRoutes(apiV1, deps)
	SetupIssueRoutes(apiV1, deps)
	SetupAdminRoutes(apiV1, deps)
}
