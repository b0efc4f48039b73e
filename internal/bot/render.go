package bot

import (
	"fmt"
	"strings"

	"gymbot/internal/i18n"
	"gymbot/internal/models"
)

// RenderPlan форматирует план тренировок для отправки в чат
func RenderPlan(plan *models.WorkoutPlan, lang i18n.Language) string {
	var sb strings.Builder

	if plan.ProgramName != "" {
		sb.WriteString(plan.ProgramName)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%d x %d\n", plan.Weeks, plan.DaysPerWeek)

	for _, day := range plan.Days {
		sb.WriteString("\n")
		sb.WriteString(i18n.Tf("plan_day_header", lang, day.Weekday, day.Time, day.Focus))
		sb.WriteString("\n")
		sb.WriteString(renderExercises(day.Exercises))
	}
	return sb.String()
}

// renderExercises нумерованный список упражнений дня
func renderExercises(exercises []models.PlanExercise) string {
	var sb strings.Builder
	for i, ex := range exercises {
		fmt.Fprintf(&sb, "%d. %s — %dx%s\n", i+1, ex.Name, ex.Sets, ex.Reps)
	}
	return sb.String()
}
