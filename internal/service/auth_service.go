package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/review-desk-api/internal/authz"
	"github.com/noah-isme/review-desk-api/internal/models"
	"github.com/noah-isme/review-desk-api/internal/repository"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
	"github.com/noah-isme/review-desk-api/pkg/password"
)

type accountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
}

type tokenManager interface {
	Issue(accountID string) (string, time.Time, error)
	Verify(token string) (string, error)
	TTL() time.Duration
}

// AuthService registers accounts, checks credentials and resolves bearer tokens.
type AuthService struct {
	accounts  accountRepository
	tokens    tokenManager
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(accounts accountRepository, tokens tokenManager, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{accounts: accounts, tokens: tokens, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Register creates an account. Role defaults to student; is_teacher selects teacher.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AccountInfo, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordAuthEvent("register", "invalid")
		return nil, appErrors.ErrValidation.Because(err, "invalid registration payload")
	}

	role := req.Role
	if req.IsTeacher {
		role = models.RoleTeacher
	}
	if role == "" {
		role = models.RoleStudent
	}

	account := &models.Account{
		Username:     req.Username,
		PasswordHash: password.Hash(req.Password),
		Role:         role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.RecordAuthEvent("register", "duplicate")
			return nil, appErrors.ErrDuplicateUsername
		}
		s.logger.Error("failed to create account", zap.String("username", req.Username), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create account")
	}

	s.metrics.RecordAuthEvent("register", "success")
	s.logger.Info("account registered", zap.String("account_id", account.ID), zap.String("role", string(account.Role)))
	info := account.Info()
	return &info, nil
}

// Authenticate checks credentials. Unknown usernames and wrong passwords fail identically.
func (s *AuthService) Authenticate(ctx context.Context, username, plaintext string) (*models.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// keep the unknown-user path doing the same work as a wrong password
			password.Verify(plaintext, "")
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Internal(err, "failed to fetch account")
	}
	if !password.Verify(plaintext, account.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}
	return account, nil
}

// Login authenticates the caller and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordAuthEvent("login", "invalid")
		return nil, appErrors.ErrValidation.Because(err, "invalid login payload")
	}

	account, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.metrics.RecordAuthEvent("login", "failure")
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(account.ID)
	if err != nil {
		s.logger.Error("failed to issue token", zap.String("account_id", account.ID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to issue token")
	}

	s.cache.PutAccount(ctx, account)
	s.metrics.RecordAuthEvent("login", "success")
	return &models.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		Role:      account.Role,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveToken verifies a bearer token and loads the principal it names.
// A valid token whose account no longer exists is treated as unauthenticated.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.Principal, error) {
	accountID, err := s.tokens.Verify(token)
	if err != nil {
		s.metrics.RecordAuthEvent("token", "invalid")
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid or expired token")
	}

	if account, ok := s.cache.GetAccount(ctx, accountID); ok {
		return models.PrincipalFor(account), nil
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordAuthEvent("token", "unknown_account")
			return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid or expired token")
		}
		return nil, appErrors.Internal(err, "failed to resolve account")
	}
	s.cache.PutAccount(ctx, account)
	return models.PrincipalFor(account), nil
}

// Get returns an account by id.
func (s *AuthService) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Internal(err, "failed to fetch account")
	}
	return account, nil
}

// AccountService lists accounts for teachers and admin-key holders.
type AccountService struct {
	accounts accountRepository
	gate     *authz.Gate
	logger   *zap.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(accounts accountRepository, gate *authz.Gate, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{accounts: accounts, gate: gate, logger: logger}
}

// ListStudents returns every student account ordered by username.
func (s *AccountService) ListStudents(ctx context.Context, p *models.Principal) ([]models.AccountInfo, error) {
	if err := s.gate.Authorize(p, authz.Operation{Action: authz.ActionListStudents}); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list students")
	}
	return infos(accounts), nil
}

// ListAll returns every account ordered by username.
func (s *AccountService) ListAll(ctx context.Context, p *models.Principal) ([]models.AccountInfo, error) {
	if err := s.gate.Authorize(p, authz.Operation{Action: authz.ActionListAccounts}); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list accounts")
	}
	return infos(accounts), nil
}

func infos(accounts []models.Account) []models.AccountInfo {
	out := make([]models.AccountInfo, 0, len(accounts))
	for i := range accounts {
		out = append(out, accounts[i].Info())
	}
	return out
}
