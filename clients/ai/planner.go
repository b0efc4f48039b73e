package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"gymbot/internal/models"
)

// exerciseRangeForDuration диапазон количества упражнений в день для промпта
func exerciseRangeForDuration(durationMinutes int) (min, max int) {
	switch durationMinutes {
	case 45:
		return 5, 6
	case 60:
		return 6, 8
	default:
		return 4, 5
	}
}

// rawPlan форма плана в ответе модели
type rawPlan struct {
	ProgramName string `json:"program_name"`
	Timezone    string `json:"timezone"`
	Weeks       int    `json:"weeks"`
	DaysPerWeek int    `json:"days_per_week"`
	Days        []struct {
		Weekday   string `json:"weekday"`
		Time      string `json:"time"`
		Focus     string `json:"focus"`
		Exercises []struct {
			Name         string `json:"name"`
			Sets         int    `json:"sets"`
			Reps         string `json:"reps"`
			ExerciseDBID string `json:"exercise_db_id"`
		} `json:"exercises"`
	} `json:"days"`
}

// GeneratePlan генерирует недельный план по очищенным ограничениям.
// existing передаётся модели как контекст, если пользователь просит изменить текущий план.
func (s *Scheduler) GeneratePlan(cons models.Constraints, tz string, requestedDays []string, existing *models.WorkoutPlan) (*models.WorkoutPlan, error) {
	prompt := buildPlanPrompt(cons, tz, requestedDays, existing)

	response, err := s.client.Chat([]Message{
		{Role: "system", Content: planSystemPrompt},
		{Role: "user", Content: prompt},
	}, 0, true)
	if err != nil {
		return nil, fmt.Errorf("генерация плана: %w", err)
	}

	var raw rawPlan
	if err := UnmarshalResponse(response, &raw); err != nil {
		return nil, fmt.Errorf("генерация плана: %w", err)
	}

	plan := &models.WorkoutPlan{
		ProgramName: raw.ProgramName,
		Timezone:    raw.Timezone,
		Weeks:       raw.Weeks,
		DaysPerWeek: raw.DaysPerWeek,
		Days:        make([]models.PlanDay, 0, len(raw.Days)),
	}
	for _, d := range raw.Days {
		day := models.PlanDay{
			Weekday:   d.Weekday,
			Time:      d.Time,
			Focus:     d.Focus,
			Exercises: make([]models.PlanExercise, 0, len(d.Exercises)),
		}
		for _, ex := range d.Exercises {
			day.Exercises = append(day.Exercises, models.PlanExercise{
				Name: ex.Name,
				Sets: ex.Sets,
				Reps: ex.Reps,
				// ID от модели не доверяем, но сохраняем: сверка его отбросит
				// и пометит упражнение заново
				ExerciseDBID:         ex.ExerciseDBID,
				ValidationConfidence: models.ConfidenceOpenAIProvided,
			})
		}
		plan.Days = append(plan.Days, day)
	}

	return plan, nil
}

const planSystemPrompt = `You are a professional strength coach. ` +
	`Produce ONLY a JSON object for a weekly workout plan, no prose, no markdown. Shape:
{
  "program_name": "...",
  "timezone": "...",
  "weeks": 1,
  "days_per_week": 3,
  "days": [
    {"weekday": "Mon", "time": "19:00", "focus": "...",
     "exercises": [{"name": "...", "sets": 3, "reps": "8-12"}]}
  ]
}
Rules:
- weekday is one of Mon,Tue,Wed,Thu,Fri,Sat,Sun
- use common, standard exercise names in English
- NEVER include exercise_db_id or any catalog identifiers
- reps is a string like "8-12" or "5"`

// buildPlanPrompt собирает директивный запрос к модели по ограничениям пользователя
func buildPlanPrompt(cons models.Constraints, tz string, requestedDays []string, existing *models.WorkoutPlan) string {
	minEx, maxEx := exerciseRangeForDuration(cons.DurationMinutes)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a workout plan with EXACTLY %d days: %s.\n",
		len(requestedDays), strings.Join(requestedDays, ", "))
	fmt.Fprintf(&b, "Session duration: %d minutes, so each day must have %d-%d exercises.\n",
		cons.DurationMinutes, minEx, maxEx)
	fmt.Fprintf(&b, "Sets per exercise: 3-4 (exactly 3 for 30-minute sessions).\n")
	fmt.Fprintf(&b, "Weeks: %d. Timezone: %s.\n", cons.Weeks, tz)

	if cons.Time != "" {
		fmt.Fprintf(&b, "Workout time: %s.\n", cons.Time)
	} else {
		fmt.Fprintf(&b, "Workout time: %s.\n", models.DefaultWorkoutTime)
	}
	fmt.Fprintf(&b, "Program split: %s.\n", cons.ProgramSplit)
	if cons.Equipment != "" {
		fmt.Fprintf(&b, "Available equipment: %s.\n", cons.Equipment)
	}
	for _, day := range models.Weekdays {
		if focus, ok := cons.PerDayFocus[day]; ok && focus != "" {
			fmt.Fprintf(&b, "Focus for %s: %s.\n", day, focus)
		}
	}

	if existing != nil {
		if data, err := json.Marshal(existing); err == nil {
			fmt.Fprintf(&b, "\nThe user already has this plan, modify it according to the request:\n%s\n", data)
		}
	}

	return b.String()
}
