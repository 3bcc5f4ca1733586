package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"groupgetaway/internal/domain"
)

const minPasswordLen = 8

type authService struct {
	userRepo  domain.UserRepository
	hasher    domain.PasswordHasher
	issuer    domain.TokenIssuer
	jwtExpiry time.Duration
}

// NewAuthService creates the operator AuthService with the given hasher and token issuer.
func NewAuthService(userRepo domain.UserRepository, hasher domain.PasswordHasher, issuer domain.TokenIssuer, jwtExpiry time.Duration) domain.AuthService {
	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		issuer:    issuer,
		jwtExpiry: jwtExpiry,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, name, role string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	role = strings.TrimSpace(strings.ToLower(role))
	if role != domain.RoleAdmin && role != domain.RoleOperator {
		role = domain.RoleOperator
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         role,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrForbidden
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrForbidden
	}
	token, err := s.issuer.Issue(user.ID, user.Email, user.Role, s.jwtExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
