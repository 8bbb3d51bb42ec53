package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// RegisterInput — данные нового пользователя.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Service проверяет учётные данные и регистрирует пользователей.
// Пароли хранятся только в виде bcrypt-хэшей.
type Service struct {
	users  domain.UserRepository
	logger *log.Entry
}

// NewService создаёт сервис аутентификации.
func NewService(users domain.UserRepository) *Service {
	return &Service{
		users:  users,
		logger: log.WithField("component", "auth_service"),
	}
}

// Login проверяет логин и пароль. Любое несовпадение возвращает одну и ту же
// ошибку ErrInvalidCredentials, не раскрывая, существует ли пользователь.
func (s *Service) Login(ctx context.Context, name, password string) (domain.User, error) {
	user, err := s.users.GetByName(strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	s.logger.WithField("user_id", user.ID).Info("Пользователь вошёл в систему")
	return user, nil
}

// Register создаёт нового пользователя с ролью CLIENT по умолчанию.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		return domain.User{}, &domain.InvalidValueError{Field: "name", Value: input.Name}
	}
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, &domain.InvalidValueError{Field: "email", Value: input.Email}
	}
	if len(input.Password) < 6 {
		return domain.User{}, &domain.InvalidValueError{Field: "password", Value: "too short"}
	}

	role := strings.ToUpper(strings.TrimSpace(input.Role))
	switch role {
	case "":
		role = domain.RoleClient
	case domain.RoleAdmin, domain.RoleClient:
	default:
		return domain.User{}, &domain.InvalidValueError{Field: "role", Value: input.Role}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return domain.User{}, domain.ErrUserAlreadyExists
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("Пользователь зарегистрирован")

	return user, nil
}
