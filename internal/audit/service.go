// Package audit 审计日志：记录对文档的操作，按时间范围查询
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/metrics"
	auditModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/audit"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

type AuditService struct {
	repo   *AuditRepository
	logger *zap.Logger
}

func NewAuditService(repo *AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record 追加一条审计记录，documentID 为空表示与文档无关
func (s *AuditService) Record(ctx context.Context, actorID, documentID, action, detail string) error {
	entry := &auditModel.Entry{
		UserID:    actorID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if documentID != "" {
		entry.DocumentID = &documentID
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return response.DependencyError("写入审计记录失败", err)
	}
	metrics.AuditEntries.WithLabelValues(action).Inc()
	return nil
}

// RecordBestEffort 写入失败只记日志，不影响调用方
func (s *AuditService) RecordBestEffort(ctx context.Context, actorID, documentID, action, detail string) {
	if err := s.Record(ctx, actorID, documentID, action, detail); err != nil {
		s.logger.Warn("审计记录写入失败",
			zap.String("user_id", actorID),
			zap.String("document_id", documentID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// List 时间范围内的审计记录，最新的在前
func (s *AuditService) List(ctx context.Context, filter ListFilter) ([]EntryView, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, response.ValidationError("开始时间不能晚于结束时间")
	}
	if filter.From != nil {
		from := filter.From.UTC()
		filter.From = &from
	}
	if filter.To != nil {
		to := filter.To.UTC()
		filter.To = &to
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, response.DependencyError("查询审计记录失败", err)
	}

	views := make([]EntryView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.toView())
	}
	return views, nil
}
