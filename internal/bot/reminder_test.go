package bot

import (
	"testing"
	"time"

	"gymbot/internal/models"
	"gymbot/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type recordingSender struct {
	sent []tgbotapi.Chattable
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, nil
}

type stubPlanLister struct {
	plans []repository.PlanWithUser
}

func (s *stubPlanLister) AllWithUsers() ([]repository.PlanWithUser, error) {
	return s.plans, nil
}

func reminderFixture(tz string) *stubPlanLister {
	return &stubPlanLister{plans: []repository.PlanWithUser{
		{
			UserID:   1,
			TgID:     100,
			Timezone: tz,
			Language: "en",
			Plan: &models.WorkoutPlan{Days: []models.PlanDay{
				{Weekday: "Mon", Time: "19:00", Focus: "push"},
			}},
		},
	}}
}

func TestReminderTickSendsWhenDue(t *testing.T) {
	sender := &recordingSender{}
	svc := NewReminderService(sender, reminderFixture("UTC"))

	// Понедельник 19:00 UTC
	due := time.Date(2026, 8, 24, 19, 0, 0, 0, time.UTC)
	svc.tick(due)
	if len(sender.sent) != 1 {
		t.Fatalf("отправлено %d напоминаний, want 1", len(sender.sent))
	}

	// Повтор в ту же минуту не дублирует
	svc.tick(due)
	if len(sender.sent) != 1 {
		t.Errorf("повторный тик продублировал напоминание: %d", len(sender.sent))
	}
}

func TestReminderTickSkipsWhenNotDue(t *testing.T) {
	sender := &recordingSender{}
	svc := NewReminderService(sender, reminderFixture("UTC"))

	// Понедельник, но другое время
	svc.tick(time.Date(2026, 8, 24, 18, 59, 0, 0, time.UTC))
	// Вторник в нужное время
	svc.tick(time.Date(2026, 8, 25, 19, 0, 0, 0, time.UTC))

	if len(sender.sent) != 0 {
		t.Errorf("отправлено %d напоминаний, want 0", len(sender.sent))
	}
}

func TestReminderTickHonorsTimezone(t *testing.T) {
	sender := &recordingSender{}
	svc := NewReminderService(sender, reminderFixture("Europe/Moscow"))

	// 16:00 UTC = 19:00 в Москве, понедельник
	svc.tick(time.Date(2026, 8, 24, 16, 0, 0, 0, time.UTC))
	if len(sender.sent) != 1 {
		t.Fatalf("отправлено %d напоминаний, want 1", len(sender.sent))
	}
}

func TestReminderStartStop(t *testing.T) {
	sender := &recordingSender{}
	svc := NewReminderService(sender, reminderFixture("UTC"))

	svc.Start()
	svc.Stop()
	// Повторный Stop безопасен
	svc.Stop()
}
