package ai

import (
	"sort"
	"strings"

	"gymbot/internal/models"
)

// FixPlan приводит план к структурно валидному виду. Тотальная функция:
// всегда возвращает исправленный план, никогда не завершается ошибкой.
// План правится на месте и возвращается для удобства цепочки вызовов.
func FixPlan(plan *models.WorkoutPlan, cons models.Constraints, requestedDays []string) *models.WorkoutPlan {
	// 1. Выбрасываем дни, которых пользователь не просил
	if len(requestedDays) > 0 && !sameDaySet(plan.Days, requestedDays) {
		kept := plan.Days[:0]
		for _, day := range plan.Days {
			if containsDay(requestedDays, day.Weekday) {
				kept = append(kept, day)
			}
		}
		plan.Days = kept
		plan.DaysPerWeek = len(plan.Days)
	}

	// 2. Если после чистки дней не осталось, создаём пустые заготовки
	//    по одному на каждый запрошенный день
	if len(plan.Days) == 0 && len(requestedDays) > 0 {
		for _, weekday := range requestedDays {
			plan.Days = append(plan.Days, models.PlanDay{
				Weekday:   weekday,
				Time:      defaultTime(cons),
				Focus:     "",
				Exercises: []models.PlanExercise{},
			})
		}
	}

	for i := range plan.Days {
		day := &plan.Days[i]

		// 3. Чиним невалидный день недели и время
		if !models.IsValidWeekday(day.Weekday) {
			if len(requestedDays) > 0 {
				day.Weekday = requestedDays[0]
			} else {
				day.Weekday = "Mon"
			}
		}
		if !IsValidTime(day.Time) {
			day.Time = defaultTime(cons)
		}

		// 4. Убираем дубликаты упражнений по имени, первое вхождение остаётся
		day.Exercises = dedupeByName(day.Exercises)

		// 5. Подходы: при 30 минутах ровно 3, иначе в пределах [3, 4]
		for j := range day.Exercises {
			ex := &day.Exercises[j]
			if cons.DurationMinutes == 30 {
				ex.Sets = 3
				continue
			}
			if ex.Sets < 3 {
				ex.Sets = 3
			}
			if ex.Sets > 4 {
				ex.Sets = 4
			}
		}

		// 6. Обрезаем лишние упражнения с конца. Короткий список не дополняем:
		//    выбор модели уважается, даже если упражнений меньше минимума
		maxEx := models.MaxExercisesForDuration(cons.DurationMinutes)
		if len(day.Exercises) > maxEx {
			day.Exercises = day.Exercises[:maxEx]
		}
	}

	// 7. День недели уникален в пределах плана: повтор выбрасывается,
	//    первое вхождение остаётся. Затем дни в фиксированном порядке
	//    Пн..Вс, days_per_week по факту
	plan.Days = dedupeDays(plan.Days)
	sort.SliceStable(plan.Days, func(i, j int) bool {
		return models.WeekdayIndex(plan.Days[i].Weekday) < models.WeekdayIndex(plan.Days[j].Weekday)
	})
	plan.DaysPerWeek = len(plan.Days)

	return plan
}

func defaultTime(cons models.Constraints) string {
	if IsValidTime(cons.Time) {
		return cons.Time
	}
	return models.DefaultWorkoutTime
}

// sameDaySet сравнивает набор дней плана с запрошенным набором без учёта порядка
func sameDaySet(days []models.PlanDay, requested []string) bool {
	planSet := make(map[string]struct{}, len(days))
	for _, d := range days {
		planSet[d.Weekday] = struct{}{}
	}
	reqSet := make(map[string]struct{}, len(requested))
	for _, d := range requested {
		reqSet[d] = struct{}{}
	}
	if len(planSet) != len(reqSet) {
		return false
	}
	for d := range planSet {
		if _, ok := reqSet[d]; !ok {
			return false
		}
	}
	return true
}

// dedupeDays убирает повторы дней недели, первое вхождение остаётся
func dedupeDays(days []models.PlanDay) []models.PlanDay {
	seen := make(map[string]struct{}, len(days))
	out := days[:0]
	for _, day := range days {
		if _, dup := seen[day.Weekday]; dup {
			continue
		}
		seen[day.Weekday] = struct{}{}
		out = append(out, day)
	}
	return out
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// dedupeByName убирает повторы упражнений в дне, сравнивая имена
// без регистра и пробелов по краям
func dedupeByName(exercises []models.PlanExercise) []models.PlanExercise {
	seen := make(map[string]struct{}, len(exercises))
	out := exercises[:0]
	for _, ex := range exercises {
		key := strings.ToLower(strings.TrimSpace(ex.Name))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ex)
	}
	return out
}
