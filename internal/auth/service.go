package auth

import (
	"errors"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/employee-admin/internal"
)

// AccountRepository is the data access surface for accounts.
type AccountRepository interface {
	GetByUsername(username string) (*Account, error)
	Create(acct *Account) error
}

// Service is the auth gate: registration, login and token validation.
// Every protected operation goes through ValidateAccessToken before any
// record-store access.
type Service struct {
	accounts       AccountRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(accounts AccountRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		accounts:       accounts,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates an account and issues a session token in one step, the
// way the original panel logs a fresh registration straight in.
func (s *Service) Register(dto RegisterDTO) (TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return TokenResponse{}, err
	}

	existing, err := s.accounts.GetByUsername(dto.Username)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		s.logger.Error("failed to check username", "error", err, "username", dto.Username)
		return TokenResponse{}, internal.NewInternalError("failed to register", err)
	}
	if existing != nil {
		return TokenResponse{}, internal.ErrDuplicateUsername
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to hash password", err)
	}

	acct := &Account{
		Username:     dto.Username,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(acct); err != nil {
		s.logger.Error("failed to create account", "error", err, "username", dto.Username)
		return TokenResponse{}, internal.NewInternalError("failed to register", err)
	}

	token, err := s.tokenGenerator.GenerateToken(acct.ID, acct.Username)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("account registered", "account_id", acct.ID, "username", acct.Username)
	return TokenResponse{Token: token}, nil
}

// Authenticate validates credentials and returns a session token.
func (s *Service) Authenticate(dto LoginDTO) (TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return TokenResponse{}, err
	}

	acct, err := s.accounts.GetByUsername(dto.Username)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			s.logger.Error("failed to load account", "error", err, "username", dto.Username)
		}
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(acct.PasswordHash, dto.Password); err != nil {
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateToken(acct.ID, acct.Username)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("account authenticated", "account_id", acct.ID, "username", acct.Username)
	return TokenResponse{Token: token}, nil
}

// ValidateAccessToken validates a session token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
