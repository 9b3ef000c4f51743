package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/renanjardim/back-end-rota-certa/internal/config"
	"github.com/renanjardim/back-end-rota-certa/internal/domain"
	"github.com/renanjardim/back-end-rota-certa/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateUser(user domain.User) (int64, error)
	UserByEmail(email string) (*domain.User, error)
	UpdateUser(id int64, patch domain.UserPatch) error
	CreatePasswordReset(token string, userID int64) error
}

type Mailer interface {
	SendWelcome(to, fullName string) error
	SendPasswordRecovery(to, token string) error
}

type UserService struct {
	config *config.Config
	repo   UserRepository
	mailer Mailer
}

func NewUserService(repo UserRepository, mailer Mailer, config *config.Config) *UserService {
	return &UserService{
		repo:   repo,
		mailer: mailer,
		config: config,
	}
}

type AuthResult struct {
	UserID int64
	Roles  []string
	Token  string
}

func (s *UserService) Register(fullName, email, password string, roles []string) (*AuthResult, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.Warn("error while hashing password")
		return nil, fmt.Errorf("error while hashing password: %w", err)
	}

	userID, err := s.repo.CreateUser(domain.User{
		FullName: fullName,
		Email:    email,
		Password: string(hashedPassword),
		Roles:    roles,
		Wallet: domain.Wallet{
			Available: domain.InitialBalance,
			Status:    domain.WalletActive,
		},
	})
	if err != nil {
		return nil, err
	}

	// The registration already committed; a failed welcome mail is only logged.
	go func() {
		if err := s.mailer.SendWelcome(email, fullName); err != nil {
			logger.Log.Error("error sending welcome mail", logger.String("email", email), logger.Error(err))
		}
	}()

	token, err := generateJWTToken(userID, s.config.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &AuthResult{UserID: userID, Roles: roles, Token: token}, nil
}

func (s *UserService) Login(email, password string) (*AuthResult, error) {
	user, err := s.repo.UserByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Log.Warn("login with unknown email", logger.String("email", email))
			return nil, domain.ErrIncorrectCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		logger.Log.Warn("incorrect password", logger.String("email", email))
		return nil, domain.ErrIncorrectCredentials
	}

	token, err := generateJWTToken(user.ID, s.config.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &AuthResult{UserID: user.ID, Roles: user.Roles, Token: token}, nil
}

// ForgotPassword never tells the caller whether the account exists. For a
// known account a recovery token is stored and mailed; a send failure there
// is the one mail error that propagates.
func (s *UserService) ForgotPassword(email string) error {
	user, err := s.repo.UserByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Log.Info("password recovery for unknown email", logger.String("email", email))
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.repo.CreatePasswordReset(token, user.ID); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordRecovery(user.Email, token); err != nil {
		return fmt.Errorf("error sending recovery mail: %w", err)
	}

	return nil
}

func (s *UserService) UpdateProfile(actorID, targetID int64, patch domain.UserPatch) error {
	if actorID != targetID {
		logger.Log.Warn("profile update for another user", logger.Int64("actor_id", actorID), logger.Int64("target_id", targetID))
		return domain.ErrForbidden
	}

	if patch.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), 14)
		if err != nil {
			return fmt.Errorf("error while hashing password: %w", err)
		}
		hashed := string(hashedPassword)
		patch.Password = &hashed
	}

	return s.repo.UpdateUser(targetID, patch)
}

func generateJWTToken(userID int64, privateKey string) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(privateKey))
	if err != nil {
		return "", fmt.Errorf("error while signing token: %w", err)
	}

	return signedToken, nil
}
