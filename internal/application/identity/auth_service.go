package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	errInvalidToken       = shared.NewDomainError("INVALID_TOKEN", "Token is invalid or has been revoked")
	errAccountInactive    = shared.NewDomainError("FORBIDDEN", "Account has been deactivated")
)

// AuthService handles sign in, token rotation and sign out. Logins for
// unknown emails run verifyMissing so they cost as much as a wrong password.
type AuthService struct {
	userRepo      identity.UserRepository
	jwtService    *auth.JWTService
	revocations   auth.RevocationStore
	logger        *zap.Logger
	verifyMissing func(password string) bool
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revocations auth.RevocationStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtService:    jwtService,
		revocations:   revocations,
		logger:        logger,
		verifyMissing: identity.VerifyMissingPassword,
	}
}

// Login authenticates a user and returns a token pair. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || shared.HasCode(err, "INVALID_EMAIL") {
			s.verifyMissing(req.Password)
			s.logger.Warn("Login for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}
	if !user.Active {
		s.logger.Warn("Login for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, errAccountInactive
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return toTokenResponse(pair, user), nil
}

// Refresh rotates a token pair. The presented refresh token is revoked so
// it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token rejected", zap.Error(err))
		return nil, errInvalidToken
	}
	if err := s.CheckRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, errInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, errAccountInactive
	}

	if err := s.revocations.RevokeToken(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return nil, err
	}
	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Token pair rotated", zap.String("user_id", user.ID.String()))
	return toTokenResponse(pair, user), nil
}

// Logout revokes the access token and, when supplied and owned by the
// same user, the refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	if err := s.revocations.RevokeToken(ctx, access.ID, access.GetRemainingTTL()); err != nil {
		return err
	}
	if req.RefreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err == nil && refresh.UserID == access.UserID {
			if err := s.revocations.RevokeToken(ctx, refresh.ID, refresh.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", access.UserID))
	return nil
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}

// CheckRevoked fails when the token's JTI was revoked or all of the
// user's tokens were revoked after it was issued
func (s *AuthService) CheckRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.revocations.TokenRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return errInvalidToken
	}
	invalidated, err := s.revocations.UserRevokedAt(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return errInvalidToken
	}
	return nil
}

func (s *AuthService) issue(user *identity.User) (*auth.TokenPair, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to sign tokens", zap.Error(err))
		return nil, err
	}
	return pair, nil
}
