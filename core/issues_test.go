package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"asistio.com/asistio/core/models"
)

type fakeLedger struct {
	issues map[string]*models.AttendanceIssue
}

func newFakeLedger(issues ...*models.AttendanceIssue) *fakeLedger {
	m := make(map[string]*models.AttendanceIssue)
	for _, issue := range issues {
		m[issue.ID] = issue
	}
	return &fakeLedger{issues: m}
}

func (f *fakeLedger) FindIssue(_ context.Context, id string) (*models.AttendanceIssue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, nil
	}
	copied := *issue
	return &copied, nil
}

func (f *fakeLedger) SaveResolution(_ context.Context, issue *models.AttendanceIssue) error {
	stored, ok := f.issues[issue.ID]
	if !ok {
		return ErrIssueNotFound
	}
	if stored.Resolved {
		return ErrIssueAlreadyResolved
	}
	copied := *issue
	f.issues[issue.ID] = &copied
	return nil
}

func TestResolveIssue(t *testing.T) {
	ledger := newFakeLedger(&models.AttendanceIssue{
		ID:        "i1",
		UserID:    "u1",
		Date:      "2025-06-02",
		IssueType: models.IssueMissingEntry,
	})

	now := time.Date(2025, 6, 2, 17, 0, 0, 0, BusinessTZ)
	issue, err := ResolveIssue(context.Background(), ledger, "i1", "Laura Mendez", "employee called in, bus strike", now)
	assert.NoError(t, err)
	assert.True(t, issue.Resolved)
	assert.Equal(t, "Laura Mendez", issue.ResolvedBy)
	assert.Equal(t, now, *issue.ResolvedAt)
}

func TestResolveIssueNotFound(t *testing.T) {
	ledger := newFakeLedger()

	_, err := ResolveIssue(context.Background(), ledger, "missing", "Laura Mendez", "n/a", time.Now())
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestResolveIssueTwiceFailsAndPreservesFirstResolution(t *testing.T) {
	ledger := newFakeLedger(&models.AttendanceIssue{
		ID:        "i1",
		UserID:    "u1",
		Date:      "2025-06-02",
		IssueType: models.IssueMissingEntry,
	})

	first := time.Date(2025, 6, 2, 17, 0, 0, 0, BusinessTZ)
	_, err := ResolveIssue(context.Background(), ledger, "i1", "Laura Mendez", "bus strike", first)
	assert.NoError(t, err)

	_, err = ResolveIssue(context.Background(), ledger, "i1", "Pedro Ruiz", "different note", first.Add(time.Hour))
	assert.ErrorIs(t, err, ErrIssueAlreadyResolved)

	stored, _ := ledger.FindIssue(context.Background(), "i1")
	assert.Equal(t, "Laura Mendez", stored.ResolvedBy)
	assert.Equal(t, "bus strike", stored.ResolutionNote)
	assert.Equal(t, first, *stored.ResolvedAt)
}

func TestResolveIssueRequiresResolverName(t *testing.T) {
	ledger := newFakeLedger(&models.AttendanceIssue{ID: "i1"})

	_, err := ResolveIssue(context.Background(), ledger, "i1", "  ", "note", time.Now())
	assert.Error(t, err)
}
