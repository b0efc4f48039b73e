package ai

import (
	"gymbot/internal/exercisedb"
	"gymbot/internal/models"

	log "github.com/sirupsen/logrus"
)

// defaultSubstitute запасное упражнение при коллизии ID внутри дня,
// когда ни одна альтернатива не подошла
const defaultSubstitute = "push-up"

// duplicateAlternatives альтернативы для замены упражнения, чей ID уже занят
// в этом дне. Ключи и значения в нормализованном виде имён каталога.
var duplicateAlternatives = map[string][]string{
	"dumbbell bench press":            {"barbell bench press", "incline dumbbell bench press", "dumbbell fly"},
	"barbell bench press":             {"dumbbell bench press", "barbell incline bench press", "push up"},
	"barbell full squat":              {"barbell front squat", "dumbbell goblet squat", "dumbbell lunge"},
	"barbell deadlift":                {"barbell romanian deadlift", "barbell sumo deadlift", "rack pull"},
	"pull up":                         {"chin up", "cable lat pulldown", "inverted row"},
	"barbell bent over row":           {"dumbbell bent over row", "cable seated row", "inverted row"},
	"dumbbell shoulder press":         {"barbell standing military press", "dumbbell arnold press", "dumbbell lateral raise"},
	"barbell standing military press": {"dumbbell shoulder press", "barbell push press", "dumbbell lateral raise"},
	"dumbbell biceps curl":            {"barbell curl", "dumbbell hammer curl", "barbell preacher curl"},
	"cable pushdown":                  {"barbell lying triceps extension", "triceps dip", "bench dip"},
	"plank":                           {"side plank", "dead bug", "crunch"},
	"crunch":                          {"bicycle crunch", "sit up", "hanging leg raise"},
}

// ReconcileExerciseIDs сверяет упражнения плана с каталогом. Тотальная функция.
// Любые ID, пришедшие от модели, отбрасываются как недоверенные; каждый ID
// заново выводится из имени. Внутри одного дня ID уникальны: дубликат либо
// заменяется альтернативой, либо выбрасывается из дня.
func (s *Scheduler) ReconcileExerciseIDs(plan *models.WorkoutPlan) *models.WorkoutPlan {
	for i := range plan.Days {
		day := &plan.Days[i]
		usedIDs := make(map[string]struct{}, len(day.Exercises))

		kept := day.Exercises[:0]
		for _, ex := range day.Exercises {
			// ID от генератора не доверяем
			ex.ExerciseDBID = ""
			ex.IsValidated = false
			ex.ValidationConfidence = ""

			id, matchedName, _ := s.resolver.Resolve(ex.Name)
			if id == "" {
				ex.ValidationConfidence = models.ConfidenceUnmapped
				kept = append(kept, ex)
				continue
			}

			if _, collision := usedIDs[id]; !collision {
				usedIDs[id] = struct{}{}
				ex.ExerciseDBID = id
				ex.IsValidated = true
				ex.ValidationConfidence = models.ConfidenceMappedFromName
				kept = append(kept, ex)
				continue
			}

			// Коллизия: подбираем альтернативу с незанятым ID
			subID, subName, subMethod := s.findSubstitute(matchedName, usedIDs)
			if subID == "" {
				log.Printf("Дубликат упражнения %q без свободной альтернативы, выбрасываем из дня %s",
					ex.Name, day.Weekday)
				continue
			}
			usedIDs[subID] = struct{}{}
			ex.Name = subName
			ex.ExerciseDBID = subID
			ex.IsValidated = true
			ex.ValidationConfidence = models.ConfidenceDuplicateReplacedPrefix + string(subMethod)
			kept = append(kept, ex)
		}
		day.Exercises = kept
	}

	return plan
}

// findSubstitute ищет замену для канонического имени так, чтобы ID ещё
// не использовался в этом дне. Сначала альтернативы из таблицы,
// затем общий запасной вариант.
func (s *Scheduler) findSubstitute(matchedName string, usedIDs map[string]struct{}) (string, string, exercisedb.MatchMethod) {
	candidates := append([]string(nil), duplicateAlternatives[exercisedb.NormalizeName(matchedName)]...)
	candidates = append(candidates, defaultSubstitute)

	for _, candidate := range candidates {
		id, name, method := s.resolver.Resolve(candidate)
		if id == "" {
			continue
		}
		if _, used := usedIDs[id]; used {
			continue
		}
		return id, name, method
	}
	return "", "", exercisedb.MatchNone
}
