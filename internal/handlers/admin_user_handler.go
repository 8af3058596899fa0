package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janakural/internal/auth"
	"github.com/janakural/internal/models"
	"github.com/janakural/internal/services"
	"github.com/janakural/pkg/utils"
)

// AdminUserHandler 封装了管理员账号管理的 HTTP 逻辑
type AdminUserHandler struct {
	service services.AdminService
}

// NewAdminUserHandler 创建一个新的 AdminUserHandler 实例
func NewAdminUserHandler(service services.AdminService) *AdminUserHandler {
	return &AdminUserHandler{service: service}
}

// DeviceTokenPayload 保存推送令牌的请求体
type DeviceTokenPayload struct {
	Token string `json:"token" binding:"required,max=512"`
}

// ListAdministrators godoc
// @Summary 管理员列表
// @Tags Admin Users
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]models.Administrator}
// @Failure 403 {object} utils.APIErrorResponse "权限不足"
// @Router /admin/users [get]
// @Security BearerAuth
func (h *AdminUserHandler) ListAdministrators(c *gin.Context) {
	admins, err := h.service.ListAdministrators(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list administrators")
		return
	}
	if admins == nil {
		admins = []models.Administrator{}
	}
	respondOK(c, admins, "")
}

// CreateAdministrator godoc
// @Summary 新增管理员
// @Description 管理员ID由手机号去掉 "+" 和分隔符得到。panchayat_leader 需要区县和 panchayat union，district_leader 需要区县。
// @Tags Admin Users
// @Accept json
// @Produce json
// @Param administrator body models.CreateAdministratorPayload true "管理员信息"
// @Success 201 {object} utils.SuccessResponse{data=models.Administrator}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 403 {object} utils.APIErrorResponse "权限不足"
// @Failure 409 {object} utils.APIErrorResponse "手机号已存在"
// @Router /admin/users [post]
// @Security BearerAuth
func (h *AdminUserHandler) CreateAdministrator(c *gin.Context) {
	var payload models.CreateAdministratorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	admin, err := h.service.CreateAdministrator(c.Request.Context(), payload)
	if err != nil {
		respondServiceError(c, err, "Failed to create administrator")
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, admin, "Administrator created")
}

// GetAdministrator godoc
// @Summary 管理员详情
// @Tags Admin Users
// @Produce json
// @Param id path string true "管理员ID"
// @Success 200 {object} utils.SuccessResponse{data=models.Administrator}
// @Failure 404 {object} utils.APIErrorResponse "管理员未找到"
// @Router /admin/users/{id} [get]
// @Security BearerAuth
func (h *AdminUserHandler) GetAdministrator(c *gin.Context) {
	admin, err := h.service.GetAdministrator(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load administrator")
		return
	}
	respondOK(c, admin, "")
}

// UpdateAdministrator godoc
// @Summary 更新管理员
// @Description 可修改姓名、角色、辖区和启用状态。不能停用自己。
// @Tags Admin Users
// @Accept json
// @Produce json
// @Param id path string true "管理员ID"
// @Param updates body models.UpdateAdministratorPayload true "更新字段"
// @Success 200 {object} utils.SuccessResponse{data=models.Administrator}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 403 {object} utils.APIErrorResponse "不能停用自己"
// @Failure 404 {object} utils.APIErrorResponse "管理员未找到"
// @Router /admin/users/{id} [patch]
// @Security BearerAuth
func (h *AdminUserHandler) UpdateAdministrator(c *gin.Context) {
	var payload models.UpdateAdministratorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	admin, err := h.service.UpdateAdministrator(c.Request.Context(), auth.CurrentAdminID(c), c.Param("id"), payload)
	if err != nil {
		respondServiceError(c, err, "Failed to update administrator")
		return
	}
	respondOK(c, admin, "Administrator updated")
}

// DeleteAdministrator godoc
// @Summary 删除管理员
// @Tags Admin Users
// @Produce json
// @Param id path string true "管理员ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.APIErrorResponse "不能删除自己"
// @Failure 404 {object} utils.APIErrorResponse "管理员未找到"
// @Router /admin/users/{id} [delete]
// @Security BearerAuth
func (h *AdminUserHandler) DeleteAdministrator(c *gin.Context) {
	if err := h.service.DeleteAdministrator(c.Request.Context(), auth.CurrentAdminID(c), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete administrator")
		return
	}
	respondOK(c, nil, "Administrator deleted")
}

// SaveMyDeviceToken godoc
// @Summary 保存当前管理员的推送令牌
// @Tags Admin Users
// @Accept json
// @Produce json
// @Param token body DeviceTokenPayload true "FCM 令牌"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Router /admin/me/device-token [put]
// @Security BearerAuth
func (h *AdminUserHandler) SaveMyDeviceToken(c *gin.Context) {
	var payload DeviceTokenPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.service.SaveDeviceToken(c.Request.Context(), auth.CurrentAdminID(c), payload.Token); err != nil {
		respondServiceError(c, err, "Failed to save device token")
		return
	}
	respondOK(c, nil, "Device token saved")
}
