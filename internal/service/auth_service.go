package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"hrhub/internal/model"
	"hrhub/internal/repository"
	"hrhub/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores anything longer
)

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	Profile model.Profile
	Token   string
}

// AuthConfig tunes account creation.
type AuthConfig struct {
	// InitialAdminEmail gets the admin role when it registers.
	InitialAdminEmail string
	BcryptCost        int
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Verify returns the account id a token is bound to.
	Verify(ctx context.Context, token string) (int64, error)
	Authenticate(ctx context.Context, token string) (*utils.JWTClaims, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, accountID int64) (*model.Profile, error)
}

type authService struct {
	userRepo    repository.UserRepository
	revocations repository.RevocationStore
	jwtUtil     *utils.JWTUtil
	cfg         AuthConfig
	validate    *validator.Validate
	dummyHash   string
	log         *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	revocations repository.RevocationStore,
	jwtUtil *utils.JWTUtil,
	cfg AuthConfig,
	log *zap.Logger,
) (AuthService, error) {
	dummyHash, err := utils.HashPasswordWithCost("hrhub-no-such-account", cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &authService{
		userRepo:    userRepo,
		revocations: revocations,
		jwtUtil:     jwtUtil,
		cfg:         cfg,
		validate:    validator.New(),
		dummyHash:   dummyHash,
		log:         log,
	}, nil
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPasswordWithCost(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleEmployee
	if s.cfg.InitialAdminEmail != "" && strings.EqualFold(email, strings.TrimSpace(s.cfg.InitialAdminEmail)) {
		role = model.RoleAdmin
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	if role == model.RoleAdmin {
		s.log.Info("initial admin registered", zap.Int64("user_id", user.ID))
	}

	return s.issue(user)
}

// Login authenticates a user and returns a token
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		// Same bcrypt work as a real account so timing does not leak existence.
		utils.CheckPasswordHash(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) Verify(ctx context.Context, token string) (int64, error) {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// Authenticate validates signature, algorithm, issuer and expiry, then
// consults the revocation list.
func (s *authService) Authenticate(ctx context.Context, token string) (*utils.JWTClaims, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}
	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return nil, ErrSessionExpired
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// Logout revokes token until it would have expired on its own.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.revocations.Revoke(ctx, claims.ID, s.jwtUtil.Remaining(claims)); err != nil {
		return err
	}
	s.log.Info("token revoked", zap.Int64("user_id", claims.UserID), zap.String("jti", claims.ID))
	return nil
}

func (s *authService) Profile(ctx context.Context, accountID int64) (*model.Profile, error) {
	user, err := s.userRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return nil, ErrSessionExpired
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *authService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		s.log.Error("failed to generate token", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Profile: user.Profile(), Token: token}, nil
}

func (s *authService) validateRegistration(name, email, password string) error {
	if err := s.validate.Var(name, "required,min=2,max=100"); err != nil {
		return &ValidationError{Message: "Name must be between 2 and 100 characters"}
	}
	if err := s.validate.Var(email, "required,email,max=254"); err != nil {
		return &ValidationError{Message: "Invalid email address"}
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return &ValidationError{Message: fmt.Sprintf("Password must be between %d and %d characters", minPasswordLength, maxPasswordLength)}
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return &ValidationError{Message: "Password must contain at least one letter and one digit"}
	}
	return nil
}
