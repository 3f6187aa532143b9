// Package user implements the identity collaborator: registration with the
// compliance gate and atomic user+wallet creation, and credential login.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/vector-10/wallet-service-lendsqr/internal/models"
	"github.com/vector-10/wallet-service-lendsqr/internal/repositories"
	"github.com/vector-10/wallet-service-lendsqr/internal/services/karma"
	"github.com/vector-10/wallet-service-lendsqr/internal/utils"
)

var (
	ErrEmailInUse          = errors.New("Email already in use")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrAccountBlacklisted  = errors.New("Account is blacklisted")
	ErrAccountSuspended    = errors.New("Account is suspended")
	ErrIdentityBlacklisted = errors.New("Your identity has been flagged on the Lendsqr Karma blacklist. You cannot be onboarded.")
)

// Config holds identity service configuration.
type Config struct {
	// EncryptionKey is the hex-encoded AES-256 key BVNs are encrypted with.
	EncryptionKey string
	// Currency and MinimumBalance seed the wallet created at registration.
	Currency       string
	MinimumBalance decimal.Decimal
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	BVN       string
	Password  string
}

// AuthResult carries the sanitized user and a session token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Service handles registration and login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type service struct {
	repo   repositories.UserRepository
	karma  karma.Checker
	config Config
}

// NewService creates an identity service.
func NewService(repo repositories.UserRepository, checker karma.Checker, config Config) Service {
	if repo == nil {
		panic("user repository is required")
	}
	if checker == nil {
		panic("karma checker is required")
	}
	if config.Currency == "" {
		config.Currency = "NGN"
	}
	return &service{repo: repo, karma: checker, config: config}
}

// Register onboards a new identity. The compliance gate runs before anything
// is written; the user and their wallet are then created in one store
// transaction so a user without a wallet is never observable.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if _, err := s.repo.GetByEmail(input.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	listed, err := s.karma.IsBlacklisted(ctx, input.BVN)
	if err != nil {
		return nil, err
	}
	if listed {
		return nil, ErrIdentityBlacklisted
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	encryptedBVN, err := utils.Encrypt(input.BVN, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt bvn: %w", err)
	}

	now := time.Now()
	user := &models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		PasswordHash:   string(passwordHash),
		BVN:            encryptedBVN,
		Status:         models.UserStatusActive,
		KarmaCheckedAt: &now,
	}
	wallet := &models.Wallet{
		Balance:        decimal.Zero,
		MinimumBalance: s.config.MinimumBalance,
		Currency:       s.config.Currency,
	}

	if err := s.repo.CreateWithWallet(user, wallet); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	switch user.Status {
	case models.UserStatusBlacklisted:
		return nil, ErrAccountBlacklisted
	case models.UserStatusSuspended:
		return nil, ErrAccountSuspended
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
