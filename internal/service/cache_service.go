package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/review-desk-api/internal/models"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheService caches account lookups made while resolving bearer tokens.
// Roles never change after registration, so a cached account cannot grant stale privileges.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

func accountKey(id string) string {
	return "account:" + id
}

// GetAccount returns a cached account. Failures are logged and reported as misses.
func (s *CacheService) GetAccount(ctx context.Context, id string) (*models.Account, bool) {
	if !s.Enabled() {
		return nil, false
	}
	var account models.Account
	err := s.repo.Get(ctx, accountKey(id), &account)
	s.metrics.RecordCacheLookup(err == nil)
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("account cache get failed", zap.String("account_id", id), zap.Error(err))
		}
		return nil, false
	}
	return &account, true
}

// PutAccount stores an account without its password hash.
func (s *CacheService) PutAccount(ctx context.Context, account *models.Account) {
	if !s.Enabled() || account == nil {
		return
	}
	cached := *account
	cached.PasswordHash = ""
	if err := s.repo.Set(ctx, accountKey(account.ID), cached, s.ttl); err != nil {
		s.logger.Warn("account cache set failed", zap.String("account_id", account.ID), zap.Error(err))
	}
}

// ForgetAccount drops a cached account.
func (s *CacheService) ForgetAccount(ctx context.Context, id string) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.Delete(ctx, accountKey(id)); err != nil {
		s.logger.Warn("account cache delete failed", zap.String("account_id", id), zap.Error(err))
	}
}
