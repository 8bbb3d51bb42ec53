package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// UserRepository — in-memory реализация domain.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	items map[string]domain.User
}

// NewUserRepository возвращает in-memory хранилище пользователей.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		items: make(map[string]domain.User),
	}
}

// Create сохраняет пользователя, проверяя уникальность имени и email.
func (r *UserRepository) Create(user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Name == user.Name || existing.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	r.items[user.ID] = user
	return nil
}

// GetByName возвращает пользователя по логину или ErrUserNotFound.
func (r *UserRepository) GetByName(name string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.items {
		if user.Name == name {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

// GetByEmail возвращает пользователя по email или ErrUserNotFound.
func (r *UserRepository) GetByEmail(email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.items {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

var _ domain.UserRepository = (*UserRepository)(nil)
