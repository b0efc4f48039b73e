package bot

import (
	"strings"
	"testing"

	"gymbot/internal/i18n"
	"gymbot/internal/models"
)

func TestRenderPlan(t *testing.T) {
	if err := i18n.Load("../../locales"); err != nil {
		t.Fatalf("load locales: %v", err)
	}

	plan := &models.WorkoutPlan{
		ProgramName: "3 days a week, dumbbells only",
		Weeks:       8,
		DaysPerWeek: 2,
		Days: []models.PlanDay{
			{Weekday: "Mon", Time: "19:00", Focus: "push", Exercises: []models.PlanExercise{
				{Name: "Dumbbell Bench Press", Sets: 3, Reps: "8-12"},
				{Name: "Push-up", Sets: 3, Reps: "10-15"},
			}},
			{Weekday: "Thu", Time: "07:30", Focus: "pull", Exercises: []models.PlanExercise{
				{Name: "Pull-up", Sets: 4, Reps: "5-8"},
			}},
		},
	}

	got := RenderPlan(plan, i18n.LangEnglish)

	for _, want := range []string{
		"3 days a week, dumbbells only",
		"Mon 19:00 — push",
		"Thu 07:30 — pull",
		"1. Dumbbell Bench Press — 3x8-12",
		"2. Push-up — 3x10-15",
		"1. Pull-up — 4x5-8",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered plan missing %q:\n%s", want, got)
		}
	}
}

func TestRenderExercisesEmpty(t *testing.T) {
	if got := renderExercises(nil); got != "" {
		t.Errorf("renderExercises(nil) = %q, want empty", got)
	}
}
