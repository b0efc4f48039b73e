package bot

import (
	"fmt"
	"sync"
	"time"

	"gymbot/internal/i18n"
	"gymbot/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

// MessageSender отправляет сообщения в Telegram
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// PlanLister перечисляет сохранённые планы вместе с владельцами
type PlanLister interface {
	AllWithUsers() ([]repository.PlanWithUser, error)
}

// ReminderService рассылает напоминания о тренировках. Раз в минуту
// сверяет локальное время каждого пользователя с расписанием его плана.
type ReminderService struct {
	sender MessageSender
	plans  PlanLister
	cron   *cron.Cron

	mu   sync.Mutex
	sent map[string]struct{} // дедупликация в пределах суток
}

// NewReminderService создаёт сервис напоминаний
func NewReminderService(sender MessageSender, plans PlanLister) *ReminderService {
	return &ReminderService{
		sender: sender,
		plans:  plans,
		cron:   cron.New(),
		sent:   make(map[string]struct{}),
	}
}

// Start запускает периодическую проверку расписаний
func (s *ReminderService) Start() {
	if err := s.cron.AddFunc("0 * * * * *", func() { s.tick(time.Now()) }); err != nil {
		log.Errorf("Ошибка запуска напоминаний: %v", err)
		return
	}
	s.cron.Start()
	log.Info("Сервис напоминаний запущен")
}

// Stop останавливает рассылку
func (s *ReminderService) Stop() {
	s.cron.Stop()
}

func (s *ReminderService) tick(now time.Time) {
	plans, err := s.plans.AllWithUsers()
	if err != nil {
		log.Errorf("Ошибка чтения планов для напоминаний: %v", err)
		return
	}

	for _, pw := range plans {
		loc, err := time.LoadLocation(pw.Timezone)
		if err != nil {
			loc = time.UTC
		}
		local := now.In(loc)
		weekday := local.Weekday().String()[:3]
		hhmm := local.Format("15:04")

		for _, day := range pw.Plan.Days {
			if day.Weekday != weekday || day.Time != hhmm {
				continue
			}
			key := fmt.Sprintf("%d:%s:%s", pw.UserID, local.Format("2006-01-02"), hhmm)
			if s.alreadySent(key) {
				continue
			}
			text := i18n.Tf("reminder_workout", i18n.ParseLanguage(pw.Language), day.Focus)
			msg := tgbotapi.NewMessage(pw.TgID, text)
			if _, err := s.sender.Send(msg); err != nil {
				log.Errorf("Ошибка отправки напоминания пользователю %d: %v", pw.TgID, err)
			}
		}
	}

	s.gc()
}

func (s *ReminderService) alreadySent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sent[key]; ok {
		return true
	}
	s.sent[key] = struct{}{}
	return false
}

// gc сбрасывает карту дедупликации, когда она разрастается
func (s *ReminderService) gc() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) < 10000 {
		return
	}
	s.sent = make(map[string]struct{})
}
