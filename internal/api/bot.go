package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "vegcheck/internal/application"
	"vegcheck/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот, который проверяет, чистый ли овощ на фото.

📸 Отправьте мне фото овоща, и я оценю, нужно ли его помыть.

📋 Команды:
/check — начать проверку
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото овоща
2️⃣ Бот выделит овощ на снимке и посчитает признаки цвета и текстуры
3️⃣ Вы получите результат: чистый или грязный и уверенность модели

💡 Рекомендации:
• Снимайте при хорошем освещении
• Овощ должен быть в центре кадра
• Используйте однотонный фон

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото овоща для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото овоща для проверки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается, подождите."
	msgTooSmall        = "⚠️ Снимок слишком маленький. Нужно больше 20 пикселей по каждой стороне."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."

	inspectTimeout = 2 * time.Minute
)

var labelText = map[entity.Label]string{
	entity.LabelClean: "✅ Овощ чистый",
	entity.LabelDirty: "🧽 Овощ грязный, его стоит помыть",
}

// messenger часть tgbotapi.BotAPI, которой пользуется бот.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api        messenger
	updates    func() tgbotapi.UpdatesChannel
	download   func(fileID string) ([]byte, error)
	users      *app.UserService
	inspection *app.InspectionService
	logger     *logrus.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, inspection *app.InspectionService, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.WithField("account", api.Self.UserName).Info("Authorized on Telegram")

	b := &Bot{
		api:        api,
		users:      users,
		inspection: inspection,
		logger:     logger,
	}
	b.updates = func() tgbotapi.UpdatesChannel {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		return api.GetUpdatesChan(u)
	}
	b.download = func(fileID string) ([]byte, error) {
		return downloadFile(api, fileID)
	}
	return b, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	updates := b.updates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			// фото разных пользователей обрабатываются параллельно
			go b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		_, err = b.users.BeginCheck(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
	if err != nil {
		b.logger.WithError(err).WithField("user_id", userID).Error("Error saving user state")
	}
}

// handlePhoto скачивает фото и классифицирует его
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	log := b.logger.WithField("user_id", userID)

	started, err := b.users.StartProcessing(ctx, userID, chatID)
	if err != nil {
		log.WithError(err).Error("Error saving user state")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	if !started {
		b.sendMessage(chatID, msgBusy)
		return
	}
	b.sendMessage(chatID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.download(photo.FileID)
	if err != nil {
		log.WithError(err).Error("Error downloading photo")
		b.fail(ctx, userID, chatID, msgProcessingError)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, inspectTimeout)
	defer cancel()

	result, err := b.inspection.Inspect(ctx, imageData)
	if err != nil {
		log.WithError(err).Warn("Inspection failed")
		text := msgProcessingError
		if errors.Is(err, entity.ErrImageTooSmall) {
			text = msgTooSmall
		}
		b.fail(ctx, userID, chatID, text)
		return
	}

	log.WithFields(logrus.Fields{
		"label":      result.Prediction.Label,
		"confidence": result.Prediction.Confidence(),
	}).Info("Photo classified")
	b.sendMessage(chatID, formatResult(result))

	if _, err := b.users.CompleteCheck(ctx, userID, chatID, result.Prediction.Label); err != nil {
		log.WithError(err).Error("Error saving user state")
	}
}

func (b *Bot) fail(ctx context.Context, userID, chatID int64, text string) {
	b.sendMessage(chatID, text)
	if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
		b.logger.WithError(err).WithField("user_id", userID).Error("Error saving user state")
	}
}

// formatResult текст ответа с классом и уверенностью.
func formatResult(result *entity.InspectionResult) string {
	text, ok := labelText[result.Prediction.Label]
	if !ok {
		text = "Класс: " + string(result.Prediction.Label)
	}
	text += fmt.Sprintf("\nУверенность: %.1f%%", result.Prediction.Confidence()*100)
	for _, p := range result.Prediction.Probabilities {
		text += fmt.Sprintf("\n• %s: %.1f%%", p.Label, p.Probability*100)
	}
	if result.Foreground == nil {
		text += "\n\n⚠️ Овощ на снимке не выделен, результат может быть неточным."
	}
	return text
}

// downloadFile скачивает файл из Telegram
func downloadFile(api *tgbotapi.BotAPI, fileID string) ([]byte, error) {
	file, err := api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.WithError(err).Error("Error sending message")
	}
}
