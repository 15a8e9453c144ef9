package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-store-service/internal/domain/user"
	pkgerrors "user-store-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func setupTestUsecase(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	uc := New(mockRepo, zaptest.NewLogger(t))
	return uc, mockRepo
}

func strPtr(s string) *string { return &s }

func TestNew_ServesUsecaseInterface(t *testing.T) {
	var uc Usecase = New(new(MockRepository), zaptest.NewLogger(t))
	require.NotNil(t, uc)
	_, ok := uc.(*Service)
	assert.True(t, ok)
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success_DefaultsRole(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Ana" && u.Email == "a@x.com" && u.Role == domain.DefaultRole
	})).Return(&domain.User{ID: 1, Name: "Ana", Email: "a@x.com", Role: "viewer"}, nil)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: "Ana", Email: "a@x.com"})

	require.NoError(t, err)
	assert.Equal(t, &User{ID: 1, Name: "Ana", Email: "a@x.com", Role: "viewer"}, resp)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_Success_KeepsRole(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == "admin"
	})).Return(&domain.User{ID: 2, Name: "Bo", Email: "b@x.com", Role: "admin"}, nil)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: "Bo", Email: "b@x.com", Role: "admin"})

	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{name: "missing email", req: CreateUserRequest{Name: "X"}},
		{name: "missing name", req: CreateUserRequest{Email: "x@x.com"}},
		{name: "both missing", req: CreateUserRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)

			resp, err := uc.CreateUser(context.Background(), tt.req)

			assert.Nil(t, resp)
			var validationErr *pkgerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, MsgNameEmailRequired, validationErr.Message)
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateUser_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	repoErr := pkgerrors.NewInternalError("failed to persist users", errors.New("disk full"))
	mockRepo.On("Create", ctx, mock.Anything).Return(nil, repoErr)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: "Ana", Email: "a@x.com"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, repoErr)
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_PassesPatch(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	expectedPatch := domain.Patch{Role: strPtr("admin")}
	mockRepo.On("Update", ctx, int64(1), expectedPatch).
		Return(&domain.User{ID: 1, Name: "Ana", Email: "a@x.com", Role: "admin"}, nil)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: 1, Role: strPtr("admin")})

	require.NoError(t, err)
	assert.Equal(t, &User{ID: 1, Name: "Ana", Email: "a@x.com", Role: "admin"}, resp)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_EmptyPatch(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Update", ctx, int64(1), domain.Patch{}).
		Return(&domain.User{ID: 1, Name: "Ana", Email: "a@x.com", Role: "viewer"}, nil)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: 1})

	require.NoError(t, err)
	assert.Equal(t, "viewer", resp.Role)
}

func TestUpdateUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	notFound := pkgerrors.NewNotFoundError("user", "User not found")
	mockRepo.On("Update", ctx, int64(9), mock.Anything).Return(nil, notFound)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: 9, Name: strPtr("x")})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, notFound)
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(1)).
		Return(&domain.User{ID: 1, Name: "Ana", Email: "a@x.com", Role: "admin"}, nil)

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: 1})

	require.NoError(t, err)
	assert.Equal(t, MsgUserDeleted, resp.Message)
	assert.Equal(t, User{ID: 1, Name: "Ana", Email: "a@x.com", Role: "admin"}, resp.User)
}

func TestDeleteUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(5)).Return(nil, pkgerrors.NewNotFoundError("user", "User not found"))

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: 5})

	assert.Nil(t, resp)
	assert.Equal(t, 404, pkgerrors.HTTPStatus(err))
}

// ==================== GET / LIST TESTS ====================

func TestGetUser(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Ana", Email: "a@x.com", Role: "viewer"}, nil)
	mockRepo.On("GetByID", ctx, int64(2)).Return(nil, pkgerrors.NewNotFoundError("user", "User not found"))

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Ana", resp.Name)

	resp, err = uc.GetUser(ctx, GetUserRequest{ID: 2})
	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestListUsers_PreservesOrder(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: 3, Name: "Cleo", Email: "c@x.com", Role: "viewer"},
		{ID: 1, Name: "Ana", Email: "a@x.com", Role: "admin"},
	}, nil)

	resp, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, int64(3), resp.Users[0].ID)
	assert.Equal(t, int64(1), resp.Users[1].ID)
}

func TestListUsers_Empty(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil)

	resp, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	assert.NotNil(t, resp.Users)
	assert.Empty(t, resp.Users)
}
