package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/janakural/internal/events"
	"github.com/janakural/internal/models"
	"github.com/janakural/internal/repositories"
	"github.com/janakural/pkg/utils"
)

var (
	ErrIssueNotFound    = errors.New("issue not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidCategory  = errors.New("invalid issue category")
	ErrInvalidPriority  = errors.New("invalid issue priority")
	ErrInvalidStatus    = errors.New("invalid issue status")
	ErrAssigneeRequired = errors.New("assignee is required")
	ErrNoPhotos         = errors.New("at least one photo reference is required")
)

const (
	defaultShowcaseLimit = 10
	defaultPageSize      = 20
	maxPageSize          = 100
)

// IssueService 定义了问题处理服务的接口
type IssueService interface {
	SubmitIssue(ctx context.Context, payload models.SubmitIssuePayload) (*models.Issue, error)
	AttachBeforePhotos(ctx context.Context, id string, refs []string) (*models.Issue, error)
	AddAfterPhotos(ctx context.Context, id string, refs []string, actor string) (*models.Issue, error)
	GetIssue(ctx context.Context, id string) (*models.Issue, error)
	ListIssues(ctx context.Context, filter models.IssueFilter, page, limit int) ([]models.Issue, int64, error)
	ListIssuesByPhone(ctx context.Context, phone string) ([]models.Issue, error)
	ListResolvedIssues(ctx context.Context, limit int) ([]models.Issue, error)
	UpdateStatus(ctx context.Context, id string, status models.IssueStatus, notes string, actor string) (*models.Issue, error)
	AssignIssue(ctx context.Context, id string, assignee string, actor string) (*models.Issue, error)
	History(ctx context.Context, id string) ([]models.IssueHistory, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// issueService 是 IssueService 的实现
type issueService struct {
	issueRepo        repositories.IssueRepository
	notificationRepo repositories.NotificationRepository
	historyRepo      repositories.IssueHistoryRepository
	publisher        events.Publisher
	logger           *zap.Logger
}

// NewIssueService 创建一个新的 issueService 实例
func NewIssueService(issueRepo repositories.IssueRepository, notificationRepo repositories.NotificationRepository, historyRepo repositories.IssueHistoryRepository, publisher events.Publisher, logger *zap.Logger) IssueService {
	return &issueService{
		issueRepo:        issueRepo,
		notificationRepo: notificationRepo,
		historyRepo:      historyRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// SubmitIssue 创建问题记录，随后创建 new_issue 通知记录并发布两个创建事件。
// 通知记录和事件发布失败只记录日志，问题本身已经提交成功。
func (s *issueService) SubmitIssue(ctx context.Context, payload models.SubmitIssuePayload) (*models.Issue, error) {
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !payload.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	priority := payload.Priority
	if priority == "" {
		priority = models.PriorityMedium
	} else if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if err := utils.ValidatePhoneNumber(payload.SubmitterPhone); err != nil {
		return nil, err
	}

	location := payload.Location
	location.DistrictID = strings.TrimSpace(location.DistrictID)
	location.SubDistrictID = strings.TrimSpace(location.SubDistrictID)

	issue := &models.Issue{
		Title:          title,
		Description:    strings.TrimSpace(payload.Description),
		Category:       payload.Category,
		Location:       location,
		BeforePhotos:   utils.AppendUnique(nil, payload.BeforePhotos...),
		AfterPhotos:    []string{},
		Status:         models.IssueStatusSubmitted,
		Priority:       priority,
		SubmitterPhone: utils.NormalizePhoneNumber(payload.SubmitterPhone),
	}
	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	log := s.logger.With(zap.String("issue_id", issue.ID))
	log.Info("Issue submitted",
		zap.String("category", string(issue.Category)),
		zap.String("district_id", location.DistrictID),
		zap.String("sub_district_id", location.SubDistrictID),
	)

	notification := &models.Notification{
		Type:          models.NotificationTypeNewIssue,
		IssueID:       issue.ID,
		Title:         issue.Title,
		DistrictID:    location.DistrictID,
		SubDistrictID: location.SubDistrictID,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Error("Failed to create notification record", zap.Error(err))
		notification = nil
	}

	if err := s.publisher.PublishIssueCreated(ctx, issue); err != nil {
		log.Error("Failed to publish issue created event", zap.Error(err))
	}
	if notification != nil {
		if err := s.publisher.PublishNotificationCreated(ctx, notification); err != nil {
			log.Error("Failed to publish notification created event", zap.String("notification_id", notification.ID), zap.Error(err))
		}
	}
	return issue, nil
}

func (s *issueService) getIssue(ctx context.Context, id string) (*models.Issue, error) {
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}
	return issue, nil
}

// AttachBeforePhotos 追加提交时的照片引用，按顺序保存并去重
func (s *issueService) AttachBeforePhotos(ctx context.Context, id string, refs []string) (*models.Issue, error) {
	if len(refs) == 0 {
		return nil, ErrNoPhotos
	}
	issue, err := s.getIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	photos := utils.AppendUnique(issue.BeforePhotos, refs...)
	if utils.CompareStringSlices(photos, issue.BeforePhotos) {
		return issue, nil
	}
	if err := s.issueRepo.SetBeforePhotos(ctx, id, photos); err != nil {
		return nil, err
	}
	issue.BeforePhotos = photos
	return issue, nil
}

// AddAfterPhotos 追加处理后的照片引用并记录操作历史
func (s *issueService) AddAfterPhotos(ctx context.Context, id string, refs []string, actor string) (*models.Issue, error) {
	if len(refs) == 0 {
		return nil, ErrNoPhotos
	}
	issue, err := s.getIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	photos := utils.AppendUnique(issue.AfterPhotos, refs...)
	// 没有新照片时不写库也不记历史
	if utils.CompareStringSlices(photos, issue.AfterPhotos) {
		return issue, nil
	}
	added := len(photos) - len(issue.AfterPhotos)
	if err := s.issueRepo.SetAfterPhotos(ctx, id, photos); err != nil {
		return nil, err
	}
	issue.AfterPhotos = photos

	notes := fmt.Sprintf("%d photo(s) added", added)
	s.recordHistory(ctx, &models.IssueHistory{
		IssueID:     id,
		Action:      models.HistoryActionAfterPhotos,
		PerformedBy: actor,
		Notes:       &notes,
	})
	return issue, nil
}

// GetIssue 根据 ID 获取问题
func (s *issueService) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	return s.getIssue(ctx, id)
}

// ListIssues 管理端分页列表
func (s *issueService) ListIssues(ctx context.Context, filter models.IssueFilter, page, limit int) ([]models.Issue, int64, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, 0, ErrInvalidCategory
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	} else if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.issueRepo.List(ctx, filter, page, limit)
}

// ListIssuesByPhone 返回某个提交人的全部问题，最新的在前
func (s *issueService) ListIssuesByPhone(ctx context.Context, phone string) ([]models.Issue, error) {
	if err := utils.ValidatePhoneNumber(phone); err != nil {
		return nil, err
	}
	return s.issueRepo.ListBySubmitterPhone(ctx, utils.NormalizePhoneNumber(phone))
}

// ListResolvedIssues 返回最近解决的问题，用于公开展示
func (s *issueService) ListResolvedIssues(ctx context.Context, limit int) ([]models.Issue, error) {
	if limit <= 0 {
		limit = defaultShowcaseLimit
	}
	return s.issueRepo.ListResolved(ctx, limit)
}

// UpdateStatus 更新问题状态。状态机仅作展示用途，任何状态之间都允许切换。
func (s *issueService) UpdateStatus(ctx context.Context, id string, status models.IssueStatus, notes string, actor string) (*models.Issue, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	current, err := s.getIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	notes = strings.TrimSpace(notes)
	updates := map[string]interface{}{
		"status": status,
	}
	if status == models.IssueStatusResolved {
		updates["resolved_at"] = time.Now()
		updates["resolved_by"] = actor
	}
	if notes != "" {
		updates["resolution_notes"] = notes
	}

	updated, err := s.issueRepo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}

	from := string(current.Status)
	to := string(status)
	entry := &models.IssueHistory{
		IssueID:     id,
		Action:      models.HistoryActionStatusChange,
		FromStatus:  &from,
		ToStatus:    &to,
		PerformedBy: actor,
	}
	if notes != "" {
		entry.Notes = &notes
	}
	s.recordHistory(ctx, entry)
	return updated, nil
}

// AssignIssue 手动分派问题
func (s *issueService) AssignIssue(ctx context.Context, id string, assignee string, actor string) (*models.Issue, error) {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return nil, ErrAssigneeRequired
	}
	current, err := s.getIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.issueRepo.ApplyAssignment(ctx, id, assignee, actor); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}

	from := string(current.Status)
	to := string(models.IssueStatusAssigned)
	notes := "Assigned to " + assignee
	s.recordHistory(ctx, &models.IssueHistory{
		IssueID:     id,
		Action:      models.HistoryActionAssigned,
		FromStatus:  &from,
		ToStatus:    &to,
		PerformedBy: actor,
		Notes:       &notes,
	})
	return s.getIssue(ctx, id)
}

// History 返回问题的操作历史，最早的在前
func (s *issueService) History(ctx context.Context, id string) ([]models.IssueHistory, error) {
	if _, err := s.getIssue(ctx, id); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByIssue(ctx, id)
}

// DashboardStats 汇总管理端统计数据
func (s *issueService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	byStatus, err := s.issueRepo.CountBy(ctx, "status")
	if err != nil {
		return nil, fmt.Errorf("count issues by status: %w", err)
	}
	byCategory, err := s.issueRepo.CountBy(ctx, "category")
	if err != nil {
		return nil, fmt.Errorf("count issues by category: %w", err)
	}
	durations, err := s.issueRepo.ResolutionDurations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resolution durations: %w", err)
	}

	stats := &models.DashboardStats{
		ByCategory: byCategory,
		ByStatus:   byStatus,
	}
	for status, count := range byStatus {
		stats.TotalIssues += count
		if models.IssueStatus(status).IsDone() {
			stats.ResolvedIssues += count
		}
	}
	stats.PendingIssues = stats.TotalIssues - stats.ResolvedIssues

	if stats.ResolvedIssues > 0 {
		var totalDays float64
		for _, d := range durations {
			totalDays += d.Hours() / 24
		}
		avg := totalDays / float64(stats.ResolvedIssues)
		stats.AvgResolutionDays = math.Round(avg*10) / 10
	}
	if stats.TotalIssues > 0 {
		rate := float64(stats.ResolvedIssues) / float64(stats.TotalIssues) * 100
		stats.ResolutionRate = int(math.Round(rate))
	}
	return stats, nil
}

func (s *issueService) recordHistory(ctx context.Context, entry *models.IssueHistory) {
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to record issue history",
			zap.String("issue_id", entry.IssueID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
