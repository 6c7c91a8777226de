package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/review-desk-api/internal/models"
)

const workItemColumns = `id, title, content, attachment_url, owner_id, reviewer_id, status, created_at, updated_at`

// WorkItemRepository persists work items.
type WorkItemRepository struct {
	db *sqlx.DB
}

// NewWorkItemRepository constructs the repository.
func NewWorkItemRepository(db *sqlx.DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

// Create inserts a fully populated work item.
func (r *WorkItemRepository) Create(ctx context.Context, item *models.WorkItem) error {
	const query = `INSERT INTO work_items (id, title, content, attachment_url, owner_id, reviewer_id, status, created_at, updated_at)
VALUES (:id, :title, :content, :attachment_url, :owner_id, :reviewer_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create work item: %w", err)
	}
	return nil
}

// FindByID returns a work item, or sql.ErrNoRows.
func (r *WorkItemRepository) FindByID(ctx context.Context, id string) (*models.WorkItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	const query = `SELECT ` + workItemColumns + ` FROM work_items WHERE id = $1`
	var item models.WorkItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get work item: %w", err)
	}
	return &item, nil
}

// ListByOwner returns the owner's items, most recently updated first.
func (r *WorkItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.WorkItem, error) {
	items := make([]models.WorkItem, 0)
	if _, err := uuid.Parse(ownerID); err != nil {
		return items, nil
	}
	const query = `SELECT ` + workItemColumns + ` FROM work_items WHERE owner_id = $1 ORDER BY updated_at DESC, created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, ownerID); err != nil {
		return nil, fmt.Errorf("list work items by owner: %w", err)
	}
	return items, nil
}

// ListAll returns every item, most recently updated first.
func (r *WorkItemRepository) ListAll(ctx context.Context) ([]models.WorkItem, error) {
	const query = `SELECT ` + workItemColumns + ` FROM work_items ORDER BY updated_at DESC, created_at DESC`
	items := make([]models.WorkItem, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	return items, nil
}

// Mutate locks the row, lets fn change it and persists the result in one transaction.
// An error from fn rolls back and is returned unchanged; a missing row yields sql.ErrNoRows.
func (r *WorkItemRepository) Mutate(ctx context.Context, id string, fn func(item *models.WorkItem) error) (item *models.WorkItem, err error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil, sql.ErrNoRows
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin work item transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const selectQuery = `SELECT ` + workItemColumns + ` FROM work_items WHERE id = $1 FOR UPDATE`
	var current models.WorkItem
	if err = tx.GetContext(ctx, &current, selectQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock work item: %w", err)
	}

	if err = fn(&current); err != nil {
		return nil, err
	}

	const updateQuery = `UPDATE work_items SET title = :title, content = :content, status = :status, reviewer_id = :reviewer_id, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, updateQuery, &current); err != nil {
		return nil, fmt.Errorf("update work item: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit work item: %w", err)
	}
	return &current, nil
}

// DeleteOwned removes the item only when ownerID owns it. It reports whether a row was removed.
func (r *WorkItemRepository) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	const query = `DELETE FROM work_items WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete work item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete work item rows: %w", err)
	}
	return affected > 0, nil
}
