package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-store-service/internal/domain/user"
	pkgerrors "user-store-service/pkg/errors"
	"user-store-service/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// Client-facing messages
const (
	MsgNameEmailRequired = "Name and email are required"
	MsgUserIDRequired    = "User ID is required"
	MsgUserNotFound      = "User not found"
	MsgUserDeleted       = "User deleted"
)

// Repository defines the interface for user data access operations.
// Implementations own id assignment and persistence of every mutation.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)               // Create a new user with the next id
	GetByID(ctx context.Context, id int64) (*domain.User, error)                    // Retrieve user by ID
	Update(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error) // Apply a partial update
	Delete(ctx context.Context, id int64) (*domain.User, error)                     // Delete user by ID
	List(ctx context.Context) ([]domain.User, error)                                // List users in insertion order
}

// Service implements Usecase on top of a Repository.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

var _ Usecase = (*Service)(nil)

func toDTO(u *domain.User) *User {
	return &User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// CreateUser validates presence of name and email, defaults the role and stores the user.
func (uc *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, pkgerrors.NewValidationError("", MsgNameEmailRequired)
	}

	role := in.Role
	if role == "" {
		role = domain.DefaultRole
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		Name:  in.Name,
		Email: in.Email,
		Role:  role,
	})
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return toDTO(created), nil
}

// UpdateUser applies the fields present in the request to an existing user.
func (uc *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.Int64("id", in.ID))

	patch := domain.Patch{Name: in.Name, Email: in.Email, Role: in.Role}
	if patch.IsEmpty() {
		log.Debug("empty update, no fields change", zap.Int64("id", in.ID))
	}

	updated, err := uc.repo.Update(ctx, in.ID, patch)
	if err != nil {
		log.Warn("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return toDTO(updated), nil
}

// DeleteUser removes a user and returns the removed record.
func (uc *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	removed, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		log.Warn("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteUserResponse{
		Message: MsgUserDeleted,
		User:    *toDTO(removed),
	}, nil
}

// GetUser retrieves a user by ID.
func (uc *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		logger.WithContext(ctx, uc.log).Debug("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return toDTO(u), nil
}

// ListUsers returns every user in insertion order.
func (uc *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, uc.log).Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = *toDTO(&domainUsers[i])
	}

	return &ListUsersResponse{
		Users: users,
	}, nil
}
