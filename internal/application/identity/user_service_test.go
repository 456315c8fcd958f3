package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active user", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo, auth.NewMemoryRevocationStore(), time.Hour, zap.NewNop())
		repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := service.Create(ctx, CreateUserRequest{Email: "New@Example.com", Name: "New Hire", Password: "welcome12", Role: "staff"})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", resp.Email)
		assert.True(t, resp.Active)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo, auth.NewMemoryRevocationStore(), time.Hour, zap.NewNop())
		repo.On("ExistsByEmail", ctx, "dup@example.com").Return(true, nil)

		_, err := service.Create(ctx, CreateUserRequest{Email: "dup@example.com", Name: "Dup", Password: "welcome12", Role: "staff"})
		assert.True(t, shared.HasCode(err, "ALREADY_EXISTS"))
	})

	t.Run("weak password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo, auth.NewMemoryRevocationStore(), time.Hour, zap.NewNop())

		_, err := service.Create(ctx, CreateUserRequest{Email: "weak@example.com", Name: "Weak", Password: "password", Role: "staff"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("deactivation revokes issued tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		revocations := auth.NewMemoryRevocationStore()
		service := NewUserService(repo, revocations, time.Hour, zap.NewNop())
		user := newTestUser(t, "leaver@example.com", identity.RoleStaff)
		issuedAt := time.Now().Add(-time.Minute)

		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		inactive := false
		resp, err := service.Update(ctx, adminID, user.ID, UpdateUserRequest{Active: &inactive})
		require.NoError(t, err)
		assert.False(t, resp.Active)

		revoked, err := revocations.UserRevokedAt(ctx, user.ID.String(), issuedAt)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("rename does not revoke", func(t *testing.T) {
		repo := new(MockUserRepository)
		revocations := auth.NewMemoryRevocationStore()
		service := NewUserService(repo, revocations, time.Hour, zap.NewNop())
		user := newTestUser(t, "stay@example.com", identity.RoleStaff)

		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		name := "Renamed"
		resp, err := service.Update(ctx, adminID, user.ID, UpdateUserRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Name)

		revoked, err := revocations.UserRevokedAt(ctx, user.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("admin cannot demote themselves", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo, auth.NewMemoryRevocationStore(), time.Hour, zap.NewNop())
		admin := newTestUser(t, "boss@example.com", identity.RoleAdmin)
		repo.On("FindByID", ctx, admin.ID).Return(admin, nil)

		role := "staff"
		_, err := service.Update(ctx, admin.ID, admin.ID, UpdateUserRequest{Role: &role})
		assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	})

	t.Run("email taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo, auth.NewMemoryRevocationStore(), time.Hour, zap.NewNop())
		user := newTestUser(t, "one@example.com", identity.RoleStaff)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("ExistsByEmail", ctx, "two@example.com").Return(true, nil)

		email := "two@example.com"
		_, err := service.Update(ctx, adminID, user.ID, UpdateUserRequest{Email: &email})
		assert.True(t, shared.HasCode(err, "ALREADY_EXISTS"))
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo, auth.NewMemoryRevocationStore(), time.Hour, zap.NewNop())
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, adminID, id, UpdateUserRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	service := NewUserService(repo, auth.NewMemoryRevocationStore(), time.Hour, zap.NewNop())
	adminID := uuid.New()

	err := service.Delete(ctx, adminID, adminID)
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))

	target := uuid.New()
	repo.On("Delete", ctx, target).Return(nil)
	require.NoError(t, service.Delete(ctx, adminID, target))
	repo.AssertExpectations(t)
}
