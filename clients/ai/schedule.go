package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gymbot/internal/exercisedb"
	"gymbot/internal/models"

	log "github.com/sirupsen/logrus"
)

// maxProgramNameLen предел длины имени программы, выводимого из текста запроса
const maxProgramNameLen = 60

// Scheduler пайплайн генерации расписания: извлечение ограничений,
// генерация плана, починка структуры и сверка упражнений с каталогом
type Scheduler struct {
	client   *Client
	resolver *exercisedb.Resolver
}

// NewScheduler создаёт пайплайн поверх клиента OpenAI и каталога упражнений
func NewScheduler(client *Client, catalog *exercisedb.Catalog) *Scheduler {
	return &Scheduler{
		client:   client,
		resolver: exercisedb.NewResolver(catalog),
	}
}

// Resolver возвращает resolver каталога (им же пользуются HTTP ручки поиска)
func (s *Scheduler) Resolver() *exercisedb.Resolver {
	return s.resolver
}

// GenerateSchedule выполняет полный пайплайн генерации плана по тексту запроса.
// Возвращает ошибку при отсутствии ключа API, сбое HTTP или невосстановимом
// JSON; молчаливого отката на заготовленный план нет, решение о повторе
// остаётся за вызывающим кодом.
func (s *Scheduler) GenerateSchedule(text, tz string, existing *models.WorkoutPlan) (*models.WorkoutPlan, error) {
	if !s.client.HasAPIKey() {
		return nil, ErrNoAPIKey
	}
	if tz == "" {
		tz = "UTC"
	}

	cons, err := s.ExtractConstraints(text)
	if err != nil {
		return nil, err
	}

	requestedDays := RequestedDays(*cons)
	log.Printf("Ограничения извлечены: дни=%v длительность=%d недель=%d",
		requestedDays, cons.DurationMinutes, cons.Weeks)

	plan, err := s.GeneratePlan(*cons, tz, requestedDays, existing)
	if err != nil {
		return nil, err
	}

	FixPlan(plan, *cons, requestedDays)
	s.ReconcileExerciseIDs(plan)
	stampPlanMetadata(plan, text, tz)

	return plan, nil
}

// stampPlanMetadata заполняет итоговые метаданные плана после починки и сверки
func stampPlanMetadata(plan *models.WorkoutPlan, requestText, tz string) {
	if strings.TrimSpace(plan.ProgramName) == "" {
		plan.ProgramName = truncateProgramName(requestText)
	}
	if strings.TrimSpace(plan.Timezone) == "" {
		plan.Timezone = tz
	}
	if plan.Weeks < 1 {
		plan.Weeks = 1
	}
	if plan.Weeks > 12 {
		plan.Weeks = 12
	}
	plan.DaysPerWeek = len(plan.Days)
}

func truncateProgramName(text string) string {
	name := strings.TrimSpace(text)
	if name == "" {
		return "Workout Plan"
	}
	if utf8.RuneCountInString(name) > maxProgramNameLen {
		runes := []rune(name)
		name = strings.TrimSpace(string(runes[:maxProgramNameLen])) + "…"
	}
	return name
}

// Ask отвечает на свободный вопрос о тренировках. При недоступности модели
// возвращает заготовленный совет, а не ошибку: команда /ask не критична.
func (s *Scheduler) Ask(question string) string {
	const fallback = "My quick take: stay consistent, use good form, progressive overload. " +
		"For specific advice, consider consulting a certified personal trainer."

	if !s.client.HasAPIKey() || strings.TrimSpace(question) == "" {
		return fallback
	}

	answer, err := s.client.Chat([]Message{
		{Role: "system", Content: "You are a concise fitness coach. Answer in a few sentences."},
		{Role: "user", Content: question},
	}, 0.7, false)
	if err != nil {
		log.Printf("Не удалось получить ответ на вопрос: %v", err)
		return fallback
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fallback
	}
	answer = truncate(answer, 500)
	return answer
}

// PlanSummary краткое описание плана для логов
func PlanSummary(plan *models.WorkoutPlan) string {
	total := 0
	for _, d := range plan.Days {
		total += len(d.Exercises)
	}
	return fmt.Sprintf("%q: %d дней, %d упражнений, %d недель",
		plan.ProgramName, len(plan.Days), total, plan.Weeks)
}
