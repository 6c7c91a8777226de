// Package workflow implements the review lifecycle of a work item.
//
// A new item starts in draft. A teacher may move an item to any status and is recorded as its
// reviewer; an owner edit always sends it back to draft. There is no terminal state, so items can
// cycle through draft and review any number of times.
package workflow

import (
	"strings"
	"time"

	"github.com/noah-isme/review-desk-api/internal/models"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
)

// InitialStatus is the status of freshly created and freshly edited items.
const InitialStatus = models.StatusDraft

var statuses = map[string]models.WorkItemStatus{
	string(models.StatusDraft):         models.StatusDraft,
	"pending":                          models.StatusDraft,
	string(models.StatusInReview):      models.StatusInReview,
	string(models.StatusReviewed):      models.StatusReviewed,
	string(models.StatusNeedsRevision): models.StatusNeedsRevision,
}

// ParseStatus validates a status supplied by a client. "pending" is accepted as an alias of draft.
func ParseStatus(raw string) (models.WorkItemStatus, error) {
	status, ok := statuses[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "unrecognized status "+quote(raw))
	}
	return status, nil
}

// NewWorkItem builds an item owned by ownerID in the initial status.
func NewWorkItem(id, ownerID string, req models.CreateWorkItemRequest, now time.Time) *models.WorkItem {
	now = now.UTC()
	return &models.WorkItem{
		ID:            id,
		Title:         req.Title,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
		OwnerID:       ownerID,
		Status:        InitialStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyOwnerEdit applies an owner edit. Reviewer is left untouched.
func ApplyOwnerEdit(item *models.WorkItem, edit models.UpdateWorkItemRequest, now time.Time) error {
	title := trimmed(edit.Title)
	content := trimmed(edit.Content)
	if title == "" && content == "" {
		return appErrors.Clone(appErrors.ErrValidation, "title or content required")
	}
	if title != "" {
		item.Title = *edit.Title
	}
	if content != "" {
		item.Content = *edit.Content
	}
	item.Status = InitialStatus
	item.UpdatedAt = advance(item.UpdatedAt, now)
	return nil
}

// ApplyStatus records a teacher's decision. The last teacher to act becomes the reviewer.
func ApplyStatus(item *models.WorkItem, status models.WorkItemStatus, teacherID string, now time.Time) {
	reviewer := teacherID
	item.Status = status
	item.ReviewerID = &reviewer
	item.UpdatedAt = advance(item.UpdatedAt, now)
}

// advance returns now, or the smallest later instant postgres can store when the clock has not moved.
func advance(prev, now time.Time) time.Time {
	now = now.UTC()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func quote(s string) string {
	return `"` + s + `"`
}
