package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janakural/internal/models"
	"github.com/janakural/internal/services"
	"github.com/janakural/pkg/utils"
)

const maxShowcaseLimit = 50

// IssueHandler 封装了公众问题提交相关的 HTTP 处理逻辑
type IssueHandler struct {
	service services.IssueService
}

// NewIssueHandler 创建一个新的 IssueHandler 实例
func NewIssueHandler(service services.IssueService) *IssueHandler {
	return &IssueHandler{service: service}
}

// SubmitIssue godoc
// @Summary 提交问题
// @Description 公众提交一个新问题。创建后会异步触发自动分派和管理员推送。
// @Tags Issues
// @Accept json
// @Produce json
// @Param issue body models.SubmitIssuePayload true "问题信息"
// @Success 201 {object} utils.SuccessResponse{data=models.Issue} "创建成功的问题"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 429 {object} utils.APIErrorResponse "提交过于频繁"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /issues [post]
func (h *IssueHandler) SubmitIssue(c *gin.Context) {
	var payload models.SubmitIssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	issue, err := h.service.SubmitIssue(c.Request.Context(), payload)
	if err != nil {
		respondServiceError(c, err, "Failed to submit issue")
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, issue, "Issue submitted")
}

// GetIssue godoc
// @Summary 获取问题详情
// @Tags Issues
// @Produce json
// @Param id path string true "问题ID"
// @Success 200 {object} utils.SuccessResponse{data=models.Issue}
// @Failure 404 {object} utils.APIErrorResponse "问题未找到"
// @Router /issues/{id} [get]
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issue, err := h.service.GetIssue(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load issue")
		return
	}
	respondOK(c, issue, "")
}

// AttachPhotos godoc
// @Summary 追加问题照片
// @Description 问题创建后上传照片，再将存储路径 (janakural/issues/{id}/{file}) 追加到问题上。
// @Tags Issues
// @Accept json
// @Produce json
// @Param id path string true "问题ID"
// @Param photos body models.PhotoRefsPayload true "照片引用"
// @Success 200 {object} utils.SuccessResponse{data=models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 404 {object} utils.APIErrorResponse "问题未找到"
// @Router /issues/{id}/photos [post]
func (h *IssueHandler) AttachPhotos(c *gin.Context) {
	var payload models.PhotoRefsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	issue, err := h.service.AttachBeforePhotos(c.Request.Context(), c.Param("id"), payload.Photos)
	if err != nil {
		respondServiceError(c, err, "Failed to attach photos")
		return
	}
	respondOK(c, issue, "Photos attached")
}

// ListMyIssues godoc
// @Summary 查询我提交的问题
// @Tags Issues
// @Produce json
// @Param phone query string true "提交人手机号"
// @Success 200 {object} utils.SuccessResponse{data=[]models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "手机号格式错误"
// @Router /my-issues [get]
func (h *IssueHandler) ListMyIssues(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		utils.RespondValidationError(c, "phone is required")
		return
	}

	issues, err := h.service.ListIssuesByPhone(c.Request.Context(), phone)
	if err != nil {
		respondServiceError(c, err, "Failed to load issues")
		return
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	respondOK(c, issues, "")
}

// Showcase godoc
// @Summary 最近解决的问题
// @Tags Issues
// @Produce json
// @Param limit query int false "数量" default(10)
// @Success 200 {object} utils.SuccessResponse{data=[]models.Issue}
// @Failure 400 {object} utils.APIErrorResponse "limit 参数错误"
// @Router /showcase [get]
func (h *IssueHandler) Showcase(c *gin.Context) {
	limit, err := utils.ParseLimit(c.Query("limit"), 0, maxShowcaseLimit)
	if err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	issues, err := h.service.ListResolvedIssues(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err, "Failed to load resolved issues")
		return
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	respondOK(c, issues, "")
}
