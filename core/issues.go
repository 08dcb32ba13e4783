package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"asistio.com/asistio/core/models"
)

var (
	ErrIssueNotFound        = errors.New("attendance issue not found")
	ErrIssueAlreadyResolved = errors.New("attendance issue already resolved")
)

// IssueLedger is the mutation surface for manual issue review.
type IssueLedger interface {
	FindIssue(ctx context.Context, id string) (*models.AttendanceIssue, error)
	SaveResolution(ctx context.Context, issue *models.AttendanceIssue) error
}

// ResolveIssue marks a detected issue as handled. One-way: a resolved issue
// can never be reopened, and a second resolve attempt fails without
// touching the first resolution's fields.
func ResolveIssue(ctx context.Context, ledger IssueLedger, id, resolverName, note string, now time.Time) (*models.AttendanceIssue, error) {
	if strings.TrimSpace(resolverName) == "" {
		return nil, errors.New("resolver name is required")
	}

	issue, err := ledger.FindIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, ErrIssueNotFound
	}
	if issue.Resolved {
		return nil, ErrIssueAlreadyResolved
	}

	issue.Resolved = true
	issue.ResolvedBy = resolverName
	resolvedAt := now
	issue.ResolvedAt = &resolvedAt
	issue.ResolutionNote = note

	if err := ledger.SaveResolution(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *Store) FindIssue(ctx context.Context, id string) (*models.AttendanceIssue, error) {
	var issue models.AttendanceIssue
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&issue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

func (s *Store) SaveResolution(ctx context.Context, issue *models.AttendanceIssue) error {
	// Guard in the WHERE clause so a concurrent resolve cannot overwrite
	// the first one.
	res := s.DB.WithContext(ctx).Model(&models.AttendanceIssue{}).
		Where("id = ? AND resolved = ?", issue.ID, false).
		Updates(map[string]interface{}{
			"resolved":        true,
			"resolved_by":     issue.ResolvedBy,
			"resolved_at":     issue.ResolvedAt,
			"resolution_note": issue.ResolutionNote,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrIssueAlreadyResolved
	}
	return nil
}

// IssueFilter narrows the admin issue list.
type IssueFilter struct {
	Resolved *bool
	Date     string
	UserID   string
}

func (s *Store) ListIssues(ctx context.Context, filter IssueFilter, limit, offset int) ([]models.AttendanceIssue, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.AttendanceIssue{})
	if filter.Resolved != nil {
		q = q.Where("resolved = ?", *filter.Resolved)
	}
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var issues []models.AttendanceIssue
	err := q.Order("detected_at DESC").Limit(limit).Offset(offset).Find(&issues).Error
	return issues, total, err
}
