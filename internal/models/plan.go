package models

// Допустимые токены дней недели в порядке сортировки плана
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayIndex возвращает позицию дня недели (Mon=0) или -1 для неизвестного токена
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// IsValidWeekday проверяет, что строка является одним из семи токенов дней недели
func IsValidWeekday(day string) bool {
	return WeekdayIndex(day) >= 0
}

// Допустимые длительности тренировки в минутах
var AllowedDurations = []int{30, 45, 60}

// DefaultDuration длительность по умолчанию, если пользователь не указал
const DefaultDuration = 30

// DefaultWorkoutTime время тренировки по умолчанию
const DefaultWorkoutTime = "19:00"

// Constraints структурированные ограничения, извлечённые из текста пользователя.
// После SanitizeConstraints все поля всегда заполнены: неизвестные значения
// представлены документированными заглушками (0, пустая строка), а не отсутствием поля.
type Constraints struct {
	Days            []string          `json:"days"`             // выбранные дни недели, может быть пустым
	DaysPerWeek     int               `json:"days_per_week"`    // 0 = неизвестно
	DurationMinutes int               `json:"duration_minutes"` // одно из AllowedDurations
	Weeks           int               `json:"weeks"`            // 1..12
	Time            string            `json:"time"`             // "HH:MM" или "" если неизвестно
	ProgramSplit    string            `json:"program_split"`    // "custom" по умолчанию
	PerDayFocus     map[string]string `json:"per_day_focus"`    // focus по дням, может быть пустым
	Equipment       string            `json:"equipment"`        // "" если неизвестно
	Language        string            `json:"language"`         // "" если неизвестно
}

// Метки уверенности сопоставления упражнения с каталогом
const (
	ConfidenceOpenAIProvided = "openai_provided" // ID пришёл от модели; никогда не остаётся после сверки
	ConfidenceMappedFromName = "mapped_from_name"
	ConfidenceUnmapped       = "unmapped_exercise"
	// Префикс для упражнений, заменённых из-за дубликата ID внутри дня,
	// полная метка: duplicate_replaced_<method>
	ConfidenceDuplicateReplacedPrefix = "duplicate_replaced_"
)

// PlanExercise упражнение внутри дня плана
type PlanExercise struct {
	Name                 string `json:"name"`
	Sets                 int    `json:"sets"`
	Reps                 string `json:"reps"` // свободный формат, например "8-12"
	ExerciseDBID         string `json:"exercise_db_id,omitempty"`
	IsValidated          bool   `json:"is_validated"`
	ValidationConfidence string `json:"validation_confidence,omitempty"`
}

// PlanDay один тренировочный день плана
type PlanDay struct {
	Weekday   string         `json:"weekday"` // трёхбуквенный токен, уникален внутри плана
	Time      string         `json:"time"`    // "HH:MM"
	Focus     string         `json:"focus"`
	Exercises []PlanExercise `json:"exercises"`
}

// WorkoutPlan недельное расписание тренировок пользователя.
// Хранится одна запись на пользователя, перезаписывается при каждой генерации.
type WorkoutPlan struct {
	ProgramName string    `json:"program_name"`
	Timezone    string    `json:"timezone"` // IANA, например "Europe/Moscow"
	Weeks       int       `json:"weeks"`    // 1..12
	DaysPerWeek int       `json:"days_per_week"`
	Days        []PlanDay `json:"days"`
}

// MaxExercisesForDuration возвращает максимум упражнений в день для длительности тренировки
func MaxExercisesForDuration(durationMinutes int) int {
	switch durationMinutes {
	case 45:
		return 6
	case 60:
		return 8
	default:
		return 5
	}
}
