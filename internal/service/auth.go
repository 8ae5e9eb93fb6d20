package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"
	"hotel-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

// Register creates a guest account. Staff accounts are provisioned out of band.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, "", err
	}
	email := in.Email

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", domain.NewValidationError("email", "an account with this email already exists")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.Persistence("lookup user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PhoneNumber:  strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", domain.Persistence("create user", err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	logger.Info("User registered", "userID", user.ID)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", domain.Persistence("lookup user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
