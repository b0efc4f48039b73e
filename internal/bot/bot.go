// Package bot реализует Telegram-интерфейс тренировочного помощника.
package bot

import (
	"gymbot/clients/ai"
	"gymbot/internal/config"
	"gymbot/internal/i18n"
	"gymbot/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Bot представляет Telegram бота
type Bot struct {
	api       *tgbotapi.BotAPI
	repo      *repository.Repository
	scheduler *ai.Scheduler
	config    *config.Config
	reminders *ReminderService
}

// New создаёт новый экземпляр бота
func New(api *tgbotapi.BotAPI, repo *repository.Repository, scheduler *ai.Scheduler, cfg *config.Config) *Bot {
	b := &Bot{
		api:       api,
		repo:      repo,
		scheduler: scheduler,
		config:    cfg,
	}
	b.reminders = NewReminderService(api, repo.Plan)
	return b
}

// Start запускает напоминания и цикл обработки обновлений
func (b *Bot) Start() error {
	b.reminders.Start()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Infof("Бот %s запущен", b.api.Self.UserName)
	b.handleUpdates(updates)
	return nil
}

// Stop останавливает напоминания и приём обновлений; цикл Start завершается
func (b *Bot) Stop() {
	b.reminders.Stop()
	b.api.StopReceivingUpdates()
}

func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}

		if update.Message.IsCommand() {
			b.handleCommand(update.Message)
			continue
		}
		b.handleMessage(update.Message)
	}
}

// sendMessage отправляет текст в чат, логируя ошибку вместо падения
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Errorf("Ошибка отправки сообщения в чат %d: %v", chatID, err)
	}
}

func (b *Bot) t(key string, lang string) string {
	return i18n.T(key, i18n.ParseLanguage(lang))
}

func (b *Bot) tf(key string, lang string, args ...interface{}) string {
	return i18n.Tf(key, i18n.ParseLanguage(lang), args...)
}
