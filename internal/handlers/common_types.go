package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janakural/internal/models"
	"github.com/janakural/internal/repositories"
	"github.com/janakural/internal/services"
	"github.com/janakural/pkg/utils"
)

// PaginationInfo 定义了通用的分页信息结构
type PaginationInfo struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
}

// PagedIssuesData 定义了问题列表的分页响应结构
type PagedIssuesData struct {
	Items      []models.Issue `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

func newPagination(total int64, page, limit int) PaginationInfo {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return PaginationInfo{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    limit,
	}
}

// respondServiceError 将服务层错误映射为 HTTP 响应
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrIssueNotFound):
		utils.RespondNotFoundError(c, "Issue")
	case errors.Is(err, services.ErrAdministratorNotFound):
		utils.RespondNotFoundError(c, "Administrator")
	case errors.Is(err, repositories.ErrAdministratorExists):
		utils.RespondConflictError(c, err.Error())
	case errors.Is(err, services.ErrCannotModifySelf):
		utils.RespondForbiddenError(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrAssigneeRequired),
		errors.Is(err, services.ErrNoPhotos),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrDistrictRequired),
		errors.Is(err, services.ErrSubDistrictRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, utils.ErrInvalidPhoneNumberFormat):
		utils.RespondValidationError(c, err.Error())
	default:
		utils.RespondInternalServerError(c, fallback, err.Error())
	}
}

// respondOK 发送 200 成功响应
func respondOK(c *gin.Context, data interface{}, message string) {
	utils.RespondSuccess(c, http.StatusOK, data, message)
}
