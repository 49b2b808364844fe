package entity

// UserState состояние пользователя в диалоге с ботом
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ждём фото овоща
	StateProcessing    UserState = "processing"     // Снимок классифицируется
)

// User пользователь бота и его история проверок
type User struct {
	ID        int64     // Telegram User ID
	ChatID    int64     // Telegram Chat ID
	State     UserState // Текущее состояние диалога
	Checks    int       // Число завершённых проверок
	LastLabel Label     // Класс последней проверки
}

// NewUser создаёт пользователя в главном меню
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// RecordCheck фиксирует результат проверки и возвращает пользователя в меню
func (u *User) RecordCheck(label Label) {
	u.Checks++
	u.LastLabel = label
	u.State = StateMainMenu
}
