package service

import (
	"errors"
	"fmt"

	"go-erp-sync/internal/model"
	"go-erp-sync/internal/repository"
	"go-erp-sync/pkg/jwt"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(token string) (*model.Account, error)
}

type LoginResponse struct {
	Token   string        `json:"token"`
	Account model.Account `json:"account"`
}

type authService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Login opens a new session for the account, ending any earlier one.
func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.PasswordMatches(password) {
		return nil, ErrInvalidCredentials
	}

	session, err := s.userRepo.RotateSession(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	account := user.Account()
	token, err := jwt.Issue(user.ID, user.Email, account.Privileges, session)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("email", user.Email), zap.String("role", account.Role))
	return &LoginResponse{Token: token, Account: account}, nil
}

// ResetPassword also ends the current session.
func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.PasswordMatches(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.SetPasswordHash(user.ID, user.PasswordHash); err != nil {
		return err
	}
	_, err = s.userRepo.RotateSession(user.ID)
	return err
}

func (s *authService) ValidateToken(token string) (*model.Account, error) {
	user, _, err := Authenticate(s.userRepo, token)
	if err != nil {
		return nil, err
	}
	account := user.Account()
	return &account, nil
}

// Authenticate resolves a bearer token to its account. The token must name
// the account's current session.
func Authenticate(users repository.UserRepository, token string) (*model.User, *jwt.Claims, error) {
	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, nil, jwt.ErrInvalidToken
	}

	user, err := users.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}
	if user.Session != claims.Session {
		return nil, nil, ErrSessionReplaced
	}
	return user, claims, nil
}
