package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moviehub/internal/config"
	"moviehub/internal/events"
	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/middleware/auth"
	"moviehub/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: sub carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (token string, user *models.User, err error)
	IssueToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	ResolveIdentity(ctx context.Context, tokenString string) (*shared.Identity, error)
}

type authService struct {
	userRepo  repository.UserRepository
	publisher *events.Publisher
	jwtSecret []byte
	expiry    time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, publisher *events.Publisher, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		publisher: publisher,
		jwtSecret: []byte(cfg.JWTSecret),
		expiry:    cfg.JWTExpiry,
		now:       time.Now,
	}
}

const (
	minPasswordLength = 8
	// bcrypt only hashes the first 72 bytes
	maxPasswordBytes = 72
)

// Register creates a user with the default role. The email is normalised to
// lower case before the uniqueness check.
func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, shared.Validation("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.Validation("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, shared.Validation("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return nil, shared.Validation("password must be at most %d bytes", maxPasswordBytes)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, shared.Conflict("user with this email already exists")
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	role, err := s.userRepo.FindRole(ctx, models.DefaultRole)
	if err != nil {
		return nil, fmt.Errorf("load role %q: %w", models.DefaultRole, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		RoleID:   role.ID,
		Role:     *role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if repository.IsUniqueViolation(err) {
			return nil, shared.Conflict("user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publisher.Publish(events.SubjectAuthRegistered, "user_registered", user.ID, nil)
	return user, nil
}

// Login: unknown email and wrong password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !repository.IsNotFound(err) {
			return "", nil, fmt.Errorf("find user: %w", err)
		}
		auth.VerifyDummy(password)
		return "", nil, shared.ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role: user.Role.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, algorithm and expiry. Every failure is
// reported as shared.ErrInvalidToken.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, shared.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}

// ResolveIdentity validates the token and confirms the user still exists.
// The role comes from the stored user, not the token.
func (s *authService) ResolveIdentity(ctx context.Context, tokenString string) (*shared.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, shared.ErrInvalidToken
	}

	return &shared.Identity{UserID: user.ID, Role: user.Role.Name}, nil
}
