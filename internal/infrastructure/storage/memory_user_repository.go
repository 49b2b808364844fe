package storage

import (
	"context"
	"sync"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище состояния диалогов.
// Хранит копии: фото разных пользователей обрабатываются параллельно.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает копию пользователя, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = *entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	return &user, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()

	return nil
}

// StartProcessing переводит пользователя в обработку, если он ещё не в ней
func (r *MemoryUserRepository) StartProcessing(ctx context.Context, userID, chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = *entity.NewUser(userID, chatID)
	}
	if user.State == entity.StateProcessing {
		return false, nil
	}
	user.SetState(entity.StateProcessing)
	r.users[userID] = user

	return true, nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
