package port

import (
	"context"

	"vegcheck/internal/domain/entity"
)

// UserRepository интерфейс хранилища состояния диалога с пользователями бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// StartProcessing атомарно переводит пользователя в StateProcessing.
	// Возвращает false, если предыдущий снимок ещё обрабатывается.
	StartProcessing(ctx context.Context, userID, chatID int64) (bool, error)
}
