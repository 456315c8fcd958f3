package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles admin management of accounts
type UserService struct {
	userRepo    identity.UserRepository
	revocations auth.RevocationStore
	// revokeTTL covers the longest-lived token so revocations outlast it
	revokeTTL   time.Duration
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	revocations auth.RevocationStore,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		revocations: revocations,
		revokeTTL:   revokeTTL,
		logger:      logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Email, req.Name, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves a page of users
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// Update edits an account. Deactivation, role changes and password resets
// revoke every token already issued to the user. An admin cannot
// deactivate or demote themselves.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	revoke := false
	if req.Email != nil {
		if err := s.changeEmail(ctx, user, *req.Email); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := user.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Role != nil && identity.Role(*req.Role) != user.Role {
		if actorID == user.ID {
			return nil, shared.NewDomainError("INVALID_STATE", "You cannot change your own role")
		}
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
		revoke = true
	}
	if req.Active != nil && *req.Active != user.Active {
		if *req.Active {
			user.Activate()
		} else {
			if actorID == user.ID {
				return nil, shared.NewDomainError("INVALID_STATE", "You cannot deactivate your own account")
			}
			user.Deactivate()
			revoke = true
		}
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
		revoke = true
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if revoke {
		s.revoke(ctx, user.ID)
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Delete soft-deletes a user and revokes their tokens
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("INVALID_STATE", "You cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revoke(ctx, id)
	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) changeEmail(ctx context.Context, user *identity.User, email string) error {
	previous := user.Email
	if err := user.ChangeEmail(email); err != nil {
		return err
	}
	if user.Email == previous {
		return nil
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}
	return nil
}

// revoke logs failures; the account change itself has already been saved
func (s *UserService) revoke(ctx context.Context, userID uuid.UUID) {
	if err := s.revocations.RevokeUser(ctx, userID.String(), s.revokeTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
