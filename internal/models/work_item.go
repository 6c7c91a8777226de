package models

import "time"

// WorkItemStatus is the review state of a work item.
type WorkItemStatus string

const (
	StatusDraft         WorkItemStatus = "draft"
	StatusInReview      WorkItemStatus = "in_review"
	StatusReviewed      WorkItemStatus = "reviewed"
	StatusNeedsRevision WorkItemStatus = "needs_revision"
)

// WorkItem is a note or report written by a student and optionally reviewed by a teacher.
type WorkItem struct {
	ID            string         `db:"id" json:"id"`
	Title         string         `db:"title" json:"title"`
	Content       string         `db:"content" json:"content"`
	AttachmentURL *string        `db:"attachment_url" json:"attachment_url,omitempty"`
	OwnerID       string         `db:"owner_id" json:"owner_id"`
	ReviewerID    *string        `db:"reviewer_id" json:"reviewer_id,omitempty"`
	Status        WorkItemStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// CreateWorkItemRequest is the payload for submitting a new work item.
type CreateWorkItemRequest struct {
	Title         string  `json:"title" validate:"required,min=1,max=100"`
	Content       string  `json:"content" validate:"required,min=1"`
	AttachmentURL *string `json:"attachment_url" validate:"omitempty,url,max=2048"`
}

// UpdateWorkItemRequest carries an owner edit. At least one field must be present.
type UpdateWorkItemRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=100"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// SetStatusRequest carries a teacher's status decision.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
