package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"billhub/internal/core/apperror"
	"billhub/internal/core/id"
	"billhub/internal/core/security"
	"billhub/internal/core/tx"
	"billhub/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
	}
}

// Service provides authentication and user management logic.
type Service struct {
	userRepo   UserRepository
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, txManager tx.Manager, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
	}
}

// Login authenticates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, *User, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Same answer for unknown email and wrong password
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, err
	}

	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			logger.Warn(ctx, "failed to record login attempt", "error", updateErr)
		}
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	user.RecordSuccessfulLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login", "error", err)
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID.String(), user.TenantID, user.Email, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token: %w", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "tenant_id", user.TenantID)
	return &TokenPair{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, user, nil
}

// CreateUser creates a user inside the caller's tenant. Tenant admins may
// only create users in their own tenant; the super admin may create anywhere
// by passing tenantID explicitly.
func (s *Service) CreateUser(ctx context.Context, tenantID string, req RegisterRequest) (*User, error) {
	scope := security.GetScope(ctx)
	if err := scope.RequireRole(security.RolePlatformSuperAdmin, security.RoleTenantAdmin); err != nil {
		return nil, err
	}
	if !scope.IsSuperAdmin() {
		tenantID = scope.TenantID
	}

	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	role, err := security.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	// Only the platform operator can mint more platform accounts.
	if role == security.RolePlatformSuperAdmin && !scope.IsSuperAdmin() {
		return nil, apperror.NewForbidden("cannot grant platform role")
	}

	exists, err := s.userRepo.Exists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(tenantID, req.Email, string(passwordHash), req.Role)
	user.Name = req.Name
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created", "user_id", user.ID, "tenant_id", user.TenantID, "role", user.Role)
	return user, nil
}

// GetUser retrieves a user visible to the caller.
func (s *Service) GetUser(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	scope := security.GetScope(ctx)
	if user.IsPlatformOwned() && !scope.IsSuperAdmin() {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	if err := scope.RequireAccess(user.TenantID); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns users visible to the caller. Platform operator accounts
// never appear in tenant listings.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	scope := security.GetScope(ctx)

	tenantID := scope.TenantID
	if scope.IsSuperAdmin() {
		tenantID = ""
	}

	users, err := s.userRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return security.FilterUserRecords(scope, users), nil
}

// ChangePassword updates the caller's own password.
func (s *Service) ChangePassword(ctx context.Context, userID id.ID, oldPassword, newPassword string) error {
	scope := security.GetScope(ctx)
	if scope.UserID != userID.String() && !scope.IsSuperAdmin() {
		return apperror.NewForbidden("cannot change another user's password")
	}

	if len(newPassword) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !scope.IsSuperAdmin() {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
			return apperror.NewUnauthorized("invalid credentials")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()

	return s.userRepo.Update(ctx, user)
}
