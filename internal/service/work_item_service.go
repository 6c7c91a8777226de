package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/review-desk-api/internal/authz"
	"github.com/noah-isme/review-desk-api/internal/models"
	"github.com/noah-isme/review-desk-api/internal/workflow"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
)

type workItemRepository interface {
	Create(ctx context.Context, item *models.WorkItem) error
	FindByID(ctx context.Context, id string) (*models.WorkItem, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.WorkItem, error)
	ListAll(ctx context.Context) ([]models.WorkItem, error)
	Mutate(ctx context.Context, id string, fn func(item *models.WorkItem) error) (*models.WorkItem, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
}

type accountLookup interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
}

var errWorkItemNotFound = appErrors.Clone(appErrors.ErrNotFound, "work item not found")

// WorkItemService implements work item operations. Every call is checked by the gate
// before the repository is touched, and lifecycle changes go through package workflow.
type WorkItemService struct {
	items     workItemRepository
	accounts  accountLookup
	gate      *authz.Gate
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewWorkItemService constructs a WorkItemService.
func NewWorkItemService(items workItemRepository, accounts accountLookup, gate *authz.Gate, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *WorkItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WorkItemService{
		items:     items,
		accounts:  accounts,
		gate:      gate,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Create stores a new draft owned by the caller.
func (s *WorkItemService) Create(ctx context.Context, p *models.Principal, req models.CreateWorkItemRequest) (*models.WorkItem, error) {
	if err := s.authorizeSelf(p, authz.ActionCreateWorkItem); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.ErrValidation.Because(err, "invalid work item payload")
	}

	item := workflow.NewWorkItem(s.newID(), p.AccountID, req, s.now())
	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Error("failed to create work item", zap.String("owner_id", p.AccountID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create work item")
	}
	s.metrics.RecordTransition(string(item.Status), string(p.Role))
	return item, nil
}

// ListOwn returns the caller's items, most recently updated first.
func (s *WorkItemService) ListOwn(ctx context.Context, p *models.Principal) ([]models.WorkItem, error) {
	if err := s.authorizeSelf(p, authz.ActionListOwnWorkItems); err != nil {
		return nil, err
	}
	items, err := s.items.ListByOwner(ctx, p.AccountID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list work items")
	}
	return items, nil
}

// Get returns one item. Items the caller may not see are reported as not found.
func (s *WorkItemService) Get(ctx context.Context, p *models.Principal, id string) (*models.WorkItem, error) {
	if err := s.authorizeSelf(p, authz.ActionReadWorkItem); err != nil {
		return nil, err
	}
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "failed to fetch work item")
	}
	if d := s.gate.Decide(p, authz.Operation{Action: authz.ActionReadWorkItem, OwnerID: item.OwnerID}); d != authz.Allow {
		return nil, hideOwnership(d)
	}
	return item, nil
}

// Update applies an owner edit and returns the item to draft.
func (s *WorkItemService) Update(ctx context.Context, p *models.Principal, id string, req models.UpdateWorkItemRequest) (*models.WorkItem, error) {
	if err := s.authorizeSelf(p, authz.ActionEditWorkItem); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.ErrValidation.Because(err, "invalid work item payload")
	}

	item, err := s.items.Mutate(ctx, id, func(item *models.WorkItem) error {
		if err := s.gate.Authorize(p, authz.Operation{Action: authz.ActionEditWorkItem, OwnerID: item.OwnerID}); err != nil {
			return err
		}
		return workflow.ApplyOwnerEdit(item, req, s.now())
	})
	if err != nil {
		return nil, s.lookupError(err, "failed to update work item")
	}
	s.metrics.RecordTransition(string(item.Status), string(p.Role))
	return item, nil
}

// SetStatus records a teacher's review decision.
func (s *WorkItemService) SetStatus(ctx context.Context, p *models.Principal, id string, req models.SetStatusRequest) (*models.WorkItem, error) {
	if err := s.gate.Authorize(p, authz.Operation{Action: authz.ActionSetWorkItemStatus}); err != nil {
		return nil, err
	}
	status, err := workflow.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	item, err := s.items.Mutate(ctx, id, func(item *models.WorkItem) error {
		workflow.ApplyStatus(item, status, p.AccountID, s.now())
		return nil
	})
	if err != nil {
		return nil, s.lookupError(err, "failed to set work item status")
	}
	s.metrics.RecordTransition(string(item.Status), string(p.Role))
	s.logger.Info("work item status changed",
		zap.String("work_item_id", item.ID),
		zap.String("status", string(item.Status)),
		zap.String("reviewer_id", p.AccountID),
	)
	return item, nil
}

// Delete removes an item owned by the caller. Absent and foreign items are both not found.
func (s *WorkItemService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if err := s.authorizeSelf(p, authz.ActionDeleteWorkItem); err != nil {
		return err
	}
	deleted, err := s.items.DeleteOwned(ctx, id, p.AccountID)
	if err != nil {
		return appErrors.Internal(err, "failed to delete work item")
	}
	if !deleted {
		return errWorkItemNotFound
	}
	return nil
}

// ListForStudent returns a student's items to a teacher, or to an admin-key holder.
func (s *WorkItemService) ListForStudent(ctx context.Context, p *models.Principal, studentID string) ([]models.WorkItem, error) {
	action := authz.ActionListStudentWorkItems
	if p != nil && p.AdminKey {
		action = authz.ActionListAllWorkItems
	}
	if err := s.gate.Authorize(p, authz.Operation{Action: action}); err != nil {
		return nil, err
	}

	student, err := s.accounts.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to fetch student")
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	items, err := s.items.ListByOwner(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list work items")
	}
	return items, nil
}

// ListAll returns every item to an admin-key holder.
func (s *WorkItemService) ListAll(ctx context.Context, p *models.Principal) ([]models.WorkItem, error) {
	if err := s.gate.Authorize(p, authz.Operation{Action: authz.ActionListAllWorkItems}); err != nil {
		return nil, err
	}
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list work items")
	}
	return items, nil
}

// authorizeSelf checks role and authentication only; ownership is checked once the item is loaded.
func (s *WorkItemService) authorizeSelf(p *models.Principal, action authz.Action) error {
	op := authz.Operation{Action: action}
	if p != nil {
		op.OwnerID = p.AccountID
	}
	return s.gate.Authorize(p, op)
}

func (s *WorkItemService) lookupError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errWorkItemNotFound
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	s.logger.Error(message, zap.Error(err))
	return appErrors.Internal(err, message)
}

func hideOwnership(d authz.Decision) error {
	if d == authz.DenyOwnership {
		return errWorkItemNotFound
	}
	return authz.DecisionError(d)
}
