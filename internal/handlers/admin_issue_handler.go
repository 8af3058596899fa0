package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/janakural/internal/auth"
	"github.com/janakural/internal/models"
	"github.com/janakural/internal/services"
	"github.com/janakural/pkg/utils"
)

// AdminIssueHandler 封装了管理端问题处理的 HTTP 逻辑
type AdminIssueHandler struct {
	issues services.IssueService
	admins services.AdminService
}

// NewAdminIssueHandler 创建一个新的 AdminIssueHandler 实例
func NewAdminIssueHandler(issues services.IssueService, admins services.AdminService) *AdminIssueHandler {
	return &AdminIssueHandler{issues: issues, admins: admins}
}

// actorName 返回当前管理员用于审计记录的名字，取不到时退回到ID
func (h *AdminIssueHandler) actorName(c *gin.Context) string {
	id := auth.CurrentAdminID(c)
	admin, err := h.admins.GetAdministrator(c.Request.Context(), id)
	if err != nil {
		return id
	}
	return admin.DisplayName()
}

// ListIssues godoc
// @Summary 管理端问题列表
// @Tags Admin Issues
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param status query string false "状态筛选"
// @Param category query string false "分类筛选"
// @Param district query string false "区县ID筛选"
// @Param search query string false "标题/描述/地址关键词"
// @Success 200 {object} utils.SuccessResponse{data=PagedIssuesData}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 401 {object} utils.APIErrorResponse "未认证或 Token 无效/过期"
// @Router /admin/issues [get]
// @Security BearerAuth
func (h *AdminIssueHandler) ListIssues(c *gin.Context) {
	type listIssuesQuery struct {
		Page     int    `form:"page,default=1"`
		Limit    int    `form:"limit,default=20"`
		Status   string `form:"status"`
		Category string `form:"category"`
		District string `form:"district"`
		Search   string `form:"search"`
	}

	var q listIssuesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}

	filter := models.IssueFilter{
		Status:     models.IssueStatus(q.Status),
		Category:   models.IssueCategory(q.Category),
		DistrictID: q.District,
		Search:     q.Search,
	}
	issues, total, err := h.issues.ListIssues(c.Request.Context(), filter, q.Page, q.Limit)
	if err != nil {
		respondServiceError(c, err, "Failed to list issues")
		return
	}
	if issues == nil {
		issues = []models.Issue{}
	}

	respondOK(c, PagedIssuesData{
		Items:      issues,
		Pagination: newPagination(total, q.Page, q.Limit),
	}, "")
}

// Stats godoc
// @Summary 管理端统计数据
// @Tags Admin Issues
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=models.DashboardStats}
// @Failure 401 {object} utils.APIErrorResponse "未认证或 Token 无效/过期"
// @Router /admin/stats [get]
// @Security BearerAuth
func (h *AdminIssueHandler) Stats(c *gin.Context) {
	stats, err := h.issues.DashboardStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute statistics")
		return
	}
	respondOK(c, stats, "")
}

// UpdateStatus godoc
// @Summary 更新问题状态
// @Description 任何状态之间都允许切换；设置为 resolved 时记录解决时间和解决人。
// @Tags Admin Issues
// @Accept json
// @Produce json
// @Param id path string true "问题ID"
// @Param status body models.UpdateIssueStatusPayload true "新状态"
// @Success 200 {object} utils.SuccessResponse{data=models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 404 {object} utils.APIErrorResponse "问题未找到"
// @Router /admin/issues/{id}/status [patch]
// @Security BearerAuth
func (h *AdminIssueHandler) UpdateStatus(c *gin.Context) {
	var payload models.UpdateIssueStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	issue, err := h.issues.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status, payload.Notes, h.actorName(c))
	if err != nil {
		respondServiceError(c, err, "Failed to update status")
		return
	}
	respondOK(c, issue, "Status updated")
}

// AssignIssue godoc
// @Summary 手动分派问题
// @Tags Admin Issues
// @Accept json
// @Produce json
// @Param id path string true "问题ID"
// @Param assignment body models.AssignIssuePayload true "分派对象"
// @Success 200 {object} utils.SuccessResponse{data=models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 404 {object} utils.APIErrorResponse "问题未找到"
// @Router /admin/issues/{id}/assignment [patch]
// @Security BearerAuth
func (h *AdminIssueHandler) AssignIssue(c *gin.Context) {
	var payload models.AssignIssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	issue, err := h.issues.AssignIssue(c.Request.Context(), c.Param("id"), payload.AssignedTo, h.actorName(c))
	if err != nil {
		respondServiceError(c, err, "Failed to assign issue")
		return
	}
	respondOK(c, issue, "Issue assigned")
}

// AddAfterPhotos godoc
// @Summary 追加处理后照片
// @Tags Admin Issues
// @Accept json
// @Produce json
// @Param id path string true "问题ID"
// @Param photos body models.PhotoRefsPayload true "照片引用"
// @Success 200 {object} utils.SuccessResponse{data=models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 404 {object} utils.APIErrorResponse "问题未找到"
// @Router /admin/issues/{id}/after-photos [post]
// @Security BearerAuth
func (h *AdminIssueHandler) AddAfterPhotos(c *gin.Context) {
	var payload models.PhotoRefsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	issue, err := h.issues.AddAfterPhotos(c.Request.Context(), c.Param("id"), payload.Photos, h.actorName(c))
	if err != nil {
		respondServiceError(c, err, "Failed to add photos")
		return
	}
	respondOK(c, issue, "Photos added")
}

// History godoc
// @Summary 问题操作历史
// @Tags Admin Issues
// @Produce json
// @Param id path string true "问题ID"
// @Success 200 {object} utils.SuccessResponse{data=[]models.IssueHistory}
// @Failure 404 {object} utils.APIErrorResponse "问题未找到"
// @Router /admin/issues/{id}/history [get]
// @Security BearerAuth
func (h *AdminIssueHandler) History(c *gin.Context) {
	history, err := h.issues.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load history")
		return
	}
	if history == nil {
		history = []models.IssueHistory{}
	}
	respondOK(c, history, "")
}
