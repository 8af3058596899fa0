package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janakural/internal/auth"
	"github.com/janakural/internal/models"
	"github.com/janakural/internal/services"
	"github.com/janakural/pkg/utils"
)

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	User      models.Administrator `json:"user"`
}

// AuthHandler 处理管理员登录和登出
type AuthHandler struct {
	admins services.AdminService
	tokens *auth.Manager
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(admins services.AdminService, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{admins: admins, tokens: tokens}
}

// Login godoc
// @Summary 管理员登录
// @Description 验证管理员凭证并返回 JWT
// @Tags auth
// @Accept  json
// @Produce  json
// @Param credentials body LoginRequest true "登录凭证"
// @Success 200 {object} utils.SuccessResponse{data=LoginResponse} "登录成功，返回 Token 和用户信息"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 401 {object} utils.APIErrorResponse "无效的手机号或密码"
// @Failure 500 {object} utils.APIErrorResponse "无法生成Token"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	admin, err := h.admins.Authenticate(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondUnauthorizedError(c, err.Error())
			return
		}
		utils.RespondInternalServerError(c, "Login failed", err.Error())
		return
	}

	token, expiresAt, err := h.tokens.Issue(admin)
	if err != nil {
		utils.RespondInternalServerError(c, "Could not issue token", err.Error())
		return
	}

	utils.RespondSuccess(c, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *admin,
	}, "Login successful")
}

// Logout godoc
// @Summary 管理员登出
// @Description 将当前 Token 加入拒绝列表
// @Tags auth
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} utils.SuccessResponse "成功登出"
// @Failure 400 {object} utils.APIErrorResponse "上下文中缺少JTI或EXP"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(auth.ContextJTI)
	expVal, expExists := c.Get(auth.ContextExp)
	exp, okEXP := expVal.(time.Time)

	if jti == "" || !expExists || !okEXP {
		utils.RespondAPIError(c, http.StatusBadRequest, "Logout context error: JTI or EXP not found in context", nil)
		return
	}

	h.tokens.Revoke(jti, exp)
	utils.RespondSuccess(c, http.StatusOK, nil, "Logged out")
}
